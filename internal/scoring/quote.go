package scoring

import (
	"strings"
	"unicode/utf8"

	"ShiftEvidence/internal/domain"
	"ShiftEvidence/internal/textnorm"
)

// Confidence tiers by quote provenance.
const (
	confidenceTitle       = 0.25
	confidenceSummary     = 0.42
	confidenceBodyBase    = 0.45
	confidenceBodyDivisor = 20.0
)

// Quote is a short, auditable excerpt supporting a phase assignment.
type Quote struct {
	Text       string
	Source     string
	Confidence float64
}

// SelectQuote picks the strongest body paragraph as the supporting quote,
// falling back to the first summary sentence and then the title. The result
// is deterministic for identical article text.
func (s *Scorer) SelectQuote(phase domain.Phase, bodyText, summary, title string) Quote {
	weights := s.shift.Weights

	paragraphs := textnorm.SplitParagraphs(bodyText, weights.MinParagraphLen)
	if len(paragraphs) > 0 {
		bestScore := 0.0
		bestParagraph := ""
		for _, paragraph := range paragraphs {
			// Earlier paragraphs win score ties.
			if score := s.ParagraphScore(phase, paragraph); score > bestScore {
				bestScore = score
				bestParagraph = paragraph
			}
		}
		if bestScore > 0 {
			confidence := confidenceBodyBase + bestScore/confidenceBodyDivisor
			if confidence > 1.0 {
				confidence = 1.0
			}
			return Quote{
				Text:       shortenQuote(bestParagraph, weights.QuoteMaxChars),
				Source:     domain.QuoteSourceBodyParagraph,
				Confidence: confidence,
			}
		}
	}

	if sentence := textnorm.FirstSentence(summary); sentence != "" {
		return Quote{Text: sentence, Source: domain.QuoteSourceSummarySentence, Confidence: confidenceSummary}
	}

	return Quote{Text: strings.TrimSpace(title), Source: domain.QuoteSourceTitle, Confidence: confidenceTitle}
}

// ParagraphScore rates a single paragraph with the flat group-hit formula.
// Paragraphs have no title/summary substructure, so no positional weighting
// and no body cap apply.
func (s *Scorer) ParagraphScore(phase domain.Phase, paragraph string) float64 {
	text := textnorm.Normalize(paragraph)
	catalog := s.shift.Catalog(phase)

	hits := 0
	for _, group := range catalog.Groups {
		hits += countOccurrences(text, group.Probes)
	}
	anchors := countOccurrences(text, s.shift.Anchors)
	return float64(hits) + float64(anchors)*s.shift.Weights.ParagraphAnchorWeight
}

// shortenQuote truncates a paragraph to a maxChars rune budget at a sentence
// boundary, accumulating whole sentences; when not even the first sentence
// fits it hard-truncates at the last whitespace before the budget. All
// cutting happens on rune boundaries so non-ASCII quotes stay valid UTF-8.
func shortenQuote(paragraph string, maxChars int) string {
	clean := textnorm.Collapse(paragraph)
	if utf8.RuneCountInString(clean) <= maxChars {
		return clean
	}

	var selected []string
	total := 0
	for _, sentence := range textnorm.SplitSentences(clean) {
		next := total + utf8.RuneCountInString(sentence)
		if len(selected) > 0 {
			next++
		}
		if next > maxChars {
			break
		}
		selected = append(selected, sentence)
		total = next
	}
	if len(selected) > 0 {
		return strings.Join(selected, " ")
	}

	cut := string([]rune(clean)[:maxChars])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut)
}
