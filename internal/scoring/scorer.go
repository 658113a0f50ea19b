// Package scoring implements the deterministic relevance engine: weighted
// keyword-group hits, anchor counts, tag bonuses, quote extraction, and the
// content fingerprint used as the persistence idempotency key.
package scoring

import (
	"fmt"
	"sort"
	"strings"

	"ShiftEvidence/internal/domain"
	"ShiftEvidence/internal/textnorm"
)

// Positional weights applied to group hits by where the probe matched.
const (
	titleHitWeight   = 4
	summaryHitWeight = 2
)

// Breakdown carries every score-derived field of a candidate.
type Breakdown struct {
	GroupHits    map[string]int
	AnchorHits   int
	ActiveGroups int
	Score        float64
	LeadGroup    string
	Strength     domain.Strength
	SignalTags   []string
}

// Scorer evaluates article text against one shift configuration. It holds
// no mutable state and is safe to reuse across articles.
type Scorer struct {
	shift domain.Shift
}

// NewScorer builds a scorer bound to the given shift.
func NewScorer(shift domain.Shift) *Scorer {
	return &Scorer{shift: shift}
}

// Shift returns the configuration the scorer was built with.
func (s *Scorer) Shift() domain.Shift {
	return s.shift
}

// Score computes the relevance breakdown for an article already classified
// into a phase. All matching runs over normalized text.
func (s *Scorer) Score(phase domain.Phase, title, summary, bodyText string, tagSlugs []string) Breakdown {
	catalog := s.shift.Catalog(phase)
	weights := s.shift.Weights

	titleNorm := textnorm.Normalize(title)
	summaryNorm := textnorm.Normalize(summary)
	bodyNorm := textnorm.Normalize(bodyText)

	groupHits := make(map[string]int, len(catalog.Groups))
	groupSum := 0
	activeGroups := 0
	leadGroup := "none"
	leadHits := -1

	for _, group := range catalog.Groups {
		weighted := countOccurrences(titleNorm, group.Probes)*titleHitWeight +
			countOccurrences(summaryNorm, group.Probes)*summaryHitWeight +
			minInt(countOccurrences(bodyNorm, group.Probes), weights.BodyHitCap)

		groupHits[group.Name] = weighted
		groupSum += weighted
		if weighted > 0 {
			activeGroups++
		}
		// Catalog order breaks ties for the lead group.
		if weighted > leadHits {
			leadGroup = group.Name
			leadHits = weighted
		}
	}

	anchorText := titleNorm + " " + summaryNorm + " " + bodyNorm
	anchorHits := countOccurrences(anchorText, s.shift.Anchors)

	signalTags := make([]string, 0, len(tagSlugs))
	for _, slug := range tagSlugs {
		if catalog.HasTagSignal(slug) {
			signalTags = append(signalTags, slug)
		}
	}

	score := float64(groupSum) +
		float64(anchorHits)*weights.AnchorWeight +
		float64(len(signalTags))*weights.TagWeight

	return Breakdown{
		GroupHits:    groupHits,
		AnchorHits:   anchorHits,
		ActiveGroups: activeGroups,
		Score:        score,
		LeadGroup:    leadGroup,
		Strength:     strengthFor(score, weights),
		SignalTags:   signalTags,
	}
}

// ConnectionText renders the narrative link for a phase and lead group.
func (s *Scorer) ConnectionText(phase domain.Phase, leadGroup string) string {
	catalog := s.shift.Catalog(phase)
	for _, group := range catalog.Groups {
		if group.Name == leadGroup && group.Connection != "" {
			return group.Connection
		}
	}
	return catalog.FallbackConnection
}

// Passes applies the raw inclusion thresholds to a breakdown.
func Passes(b Breakdown, params domain.SelectionParams) bool {
	return b.Score >= params.MinScore &&
		b.AnchorHits >= params.MinAnchorHits &&
		b.ActiveGroups >= params.MinGroupHits
}

// Rationale renders the audit string for one decision. The lead group is
// the one the breakdown carries first-class, so the string never contradicts
// the lead_group column. The format is stable for identical inputs;
// structured consumers should read LeadGroup and the breakdown fields
// instead of parsing it.
func Rationale(phase domain.Phase, score float64, anchorHits int, leadGroup string, groupHits map[string]int, selected bool) string {
	type hit struct {
		name  string
		value int
	}
	hits := make([]hit, 0, len(groupHits))
	for name, value := range groupHits {
		hits = append(hits, hit{name: name, value: value})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].value != hits[j].value {
			return hits[i].value > hits[j].value
		}
		return hits[i].name < hits[j].name
	})

	lead := leadGroup
	if lead == "" {
		lead = "none"
	}

	parts := make([]string, len(hits))
	for i, h := range hits {
		parts[i] = fmt.Sprintf("%s:%d", h.name, h.value)
	}

	decision := "Excluded from core narrative because relevance is insufficient under strict selection criteria."
	if selected {
		decision = "Selected for narrative because relevance is high and concept coverage is multi-dimensional."
	}

	return fmt.Sprintf("%s Score=%.1f; phase=%s; anchors=%d; lead_group=%s; group_hits=[%s].",
		decision, score, phase, anchorHits, lead, strings.Join(parts, ", "))
}

func strengthFor(score float64, weights domain.ScoringWeights) domain.Strength {
	if score >= weights.StrongMin {
		return domain.StrengthStrong
	}
	if score >= weights.ModerateMin {
		return domain.StrengthModerate
	}
	return domain.StrengthWeak
}

// countOccurrences sums substring occurrences of every probe in text.
// Probes overlapping each other are counted independently.
func countOccurrences(text string, probes []string) int {
	if text == "" {
		return 0
	}
	total := 0
	for _, probe := range probes {
		if probe == "" {
			continue
		}
		total += strings.Count(text, probe)
	}
	return total
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
