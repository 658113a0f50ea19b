// Package textnorm provides the deterministic text preparation shared by
// scoring, quote extraction, and fingerprinting.
package textnorm

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Normalize lowercases text and collapses whitespace runs to single spaces.
// Empty input yields empty output.
func Normalize(text string) string {
	return strings.ToLower(Collapse(text))
}

// Collapse trims text and collapses whitespace runs without lowercasing.
func Collapse(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// SplitParagraphs cuts body text on blank-line boundaries and drops
// paragraphs shorter than minLen characters as noise.
func SplitParagraphs(bodyText string, minLen int) []string {
	if bodyText == "" {
		return nil
	}

	var paragraphs []string
	for _, chunk := range strings.Split(bodyText, "\n\n") {
		part := Collapse(chunk)
		if len(part) >= minLen {
			paragraphs = append(paragraphs, part)
		}
	}
	return paragraphs
}

// FirstSentence returns the leading sentence of text, terminated by '.',
// '!' or '?'. When no terminator is found the whole collapsed text is
// returned.
func FirstSentence(text string) string {
	normalized := Collapse(text)
	if normalized == "" {
		return ""
	}

	sentences := SplitSentences(normalized)
	if len(sentences) == 0 {
		return normalized
	}
	return sentences[0]
}

// SplitSentences breaks collapsed text after sentence terminators followed
// by whitespace. The trailing fragment is kept even without a terminator.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		if i+1 < len(runes) && runes[i+1] != ' ' {
			continue
		}
		sentence := strings.TrimSpace(string(runes[start : i+1]))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// Snippet collapses text and hard-limits it to maxChars runes, appending an
// ellipsis marker when truncation happened. Cutting on rune boundaries keeps
// the output valid UTF-8 for non-ASCII text.
func Snippet(text string, maxChars int) string {
	clean := Collapse(text)
	runes := []rune(clean)
	if len(runes) <= maxChars {
		return clean
	}
	return strings.TrimRight(string(runes[:maxChars-3]), " ") + "..."
}
