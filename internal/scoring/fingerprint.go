package scoring

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"ShiftEvidence/internal/domain"
	"ShiftEvidence/internal/textnorm"
)

// Fingerprint derives the stable content hash used as the idempotency key
// for evidence persistence. Any change to phase, score, summary, tags, or
// quote changes the fingerprint; unchanged inputs keep it identical across
// reruns.
func Fingerprint(articleUID string, phase domain.Phase, score float64, summary string, tagSlugs []string, quote string) string {
	tags := append([]string(nil), tagSlugs...)
	sort.Strings(tags)

	payload := strings.Join([]string{
		articleUID,
		string(phase),
		fmt.Sprintf("%.4f", score),
		textnorm.Normalize(summary),
		strings.Join(tags, ","),
		textnorm.Normalize(quote),
	}, "|")

	sum := sha1.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}
