// Package extract pulls readable article body text out of raw HTML for
// collaborators that backfill the corpus store.
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ShiftEvidence/internal/textnorm"
)

const (
	minParagraphChars = 40
	shortCopyrightMax = 140
	fullTextMinWords  = 250
)

// Boilerplate lead-ins that mark navigation or promo paragraphs.
var boilerplatePrefixes = []string{
	"read also",
	"also read",
	"follow us",
	"for more updates",
}

// BodyText extracts paragraph text from an HTML page. It prefers the
// article or main block, falls back to body, keeps substantial <p>
// paragraphs, and drops boilerplate and adjacent duplicates.
func BodyText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	block := pickBlock(doc)

	var paragraphs []string
	previous := ""
	block.Find("p").Each(func(_ int, p *goquery.Selection) {
		line := textnorm.Collapse(p.Text())
		if !keepParagraph(line) {
			return
		}
		if line == previous {
			return
		}
		paragraphs = append(paragraphs, line)
		previous = line
	})

	return strings.Join(paragraphs, "\n\n"), nil
}

// TextStateFor classifies extracted text by word count.
func TextStateFor(bodyText string) string {
	words := len(strings.Fields(bodyText))
	switch {
	case words >= fullTextMinWords:
		return "full"
	case words > 0:
		return "partial"
	default:
		return "missing"
	}
}

func pickBlock(doc *goquery.Document) *goquery.Selection {
	for _, tag := range []string{"article", "main"} {
		if sel := doc.Find(tag).First(); sel.Length() > 0 {
			return sel
		}
	}
	if sel := doc.Find("body").First(); sel.Length() > 0 {
		return sel
	}
	return doc.Selection
}

func keepParagraph(line string) bool {
	if len(line) < minParagraphChars {
		return false
	}
	lowered := strings.ToLower(line)
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return false
		}
	}
	if strings.Contains(lowered, "copyright") && len(line) < shortCopyrightMax {
		return false
	}
	return true
}
