package domain

// Phase classifies an article relative to a shift's milestone year.
type Phase string

const (
	PhaseBefore Phase = "before"
	PhaseAfter  Phase = "after"
)

// Phases returns both phases in canonical order.
func Phases() []Phase {
	return []Phase{PhaseBefore, PhaseAfter}
}

// Text states reported by the corpus for an article's primary body text.
const (
	TextStateFull    = "full"
	TextStatePartial = "partial"
	TextStateMissing = "missing"
)

// Article is corpus metadata joined with summary, tags, and body text.
// The pipeline only reads articles, never mutates them.
type Article struct {
	UID         string
	Title       string
	URL         string
	Publication string
	PublishedAt string
	Summary     string
	BodyText    string
	TagSlugs    []string
	TextState   string
}
