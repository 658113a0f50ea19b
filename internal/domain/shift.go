package domain

// KeywordGroup is one named concept group with its probe terms. Connection
// is the narrative link rendered when this group leads the score breakdown.
type KeywordGroup struct {
	Name       string   `yaml:"name"`
	Probes     []string `yaml:"probes"`
	Connection string   `yaml:"connection"`
}

// PhaseCatalog holds the keyword groups and tag signals for one phase.
type PhaseCatalog struct {
	Groups             []KeywordGroup `yaml:"groups"`
	TagSignals         []string       `yaml:"tagSignals"`
	FallbackConnection string         `yaml:"fallbackConnection"`
}

// HasTagSignal reports whether slug belongs to this phase's tag-signal set.
func (c PhaseCatalog) HasTagSignal(slug string) bool {
	for _, signal := range c.TagSignals {
		if signal == slug {
			return true
		}
	}
	return false
}

// ScoringWeights are the shift-tunable scoring constants.
type ScoringWeights struct {
	BodyHitCap            int     `yaml:"bodyHitCap"`
	AnchorWeight          float64 `yaml:"anchorWeight"`
	TagWeight             float64 `yaml:"tagWeight"`
	ParagraphAnchorWeight float64 `yaml:"paragraphAnchorWeight"`
	MinParagraphLen       int     `yaml:"minParagraphLen"`
	QuoteMaxChars         int     `yaml:"quoteMaxChars"`
	StrongMin             float64 `yaml:"strongMin"`
	ModerateMin           float64 `yaml:"moderateMin"`
}

// Shift is the immutable configuration of one historical-narrative
// transition: milestone year, anchors, per-phase catalogs, and weights.
type Shift struct {
	ID            string         `yaml:"id"`
	MilestoneYear int            `yaml:"milestoneYear"`
	Anchors       []string       `yaml:"anchors"`
	Before        PhaseCatalog   `yaml:"before"`
	After         PhaseCatalog   `yaml:"after"`
	Weights       ScoringWeights `yaml:"weights"`
}

// Catalog returns the keyword catalog for the given phase.
func (s Shift) Catalog(phase Phase) PhaseCatalog {
	if phase == PhaseBefore {
		return s.Before
	}
	return s.After
}

// PhaseFor classifies a publication year against the milestone year.
func (s Shift) PhaseFor(year int) Phase {
	if year < s.MilestoneYear {
		return PhaseBefore
	}
	return PhaseAfter
}
