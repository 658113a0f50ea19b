package scoring

import (
	"math"
	"strings"
	"testing"

	"ShiftEvidence/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func testWeights() domain.ScoringWeights {
	return domain.ScoringWeights{
		BodyHitCap:            6,
		AnchorWeight:          0.8,
		TagWeight:             1.3,
		ParagraphAnchorWeight: 1.5,
		MinParagraphLen:       70,
		QuoteMaxChars:         520,
		StrongMin:             18,
		ModerateMin:           11,
	}
}

func testShift() domain.Shift {
	return domain.Shift{
		ID:            "test_shift",
		MilestoneYear: 2023,
		Anchors:       []string{"transition", "turning point"},
		Before: domain.PhaseCatalog{
			Groups: []domain.KeywordGroup{
				{Name: "g1", Probes: []string{"reform"}, Connection: "g1 connection"},
				{Name: "g2", Probes: []string{"decline"}, Connection: "g2 connection"},
			},
			TagSignals:         []string{"politics", "institutions"},
			FallbackConnection: "before fallback",
		},
		After: domain.PhaseCatalog{
			Groups: []domain.KeywordGroup{
				{Name: "g3", Probes: []string{"renewal"}, Connection: "g3 connection"},
			},
			TagSignals:         []string{"futures"},
			FallbackConnection: "after fallback",
		},
		Weights: testWeights(),
	}
}

func TestPhaseFor(t *testing.T) {
	t.Parallel()

	s := testShift()
	if got := s.PhaseFor(2022); got != domain.PhaseBefore {
		t.Fatalf("expected before, got %s", got)
	}
	if got := s.PhaseFor(2023); got != domain.PhaseAfter {
		t.Fatalf("expected after for milestone year itself, got %s", got)
	}
	if got := s.PhaseFor(2024); got != domain.PhaseAfter {
		t.Fatalf("expected after, got %s", got)
	}
}

func TestScoreWeightedBreakdown(t *testing.T) {
	t.Parallel()

	scorer := NewScorer(testShift())

	title := "Reform now"
	body := "The reform debate widened as reform stalled and reform resumed. " +
		"A transition loomed while another transition was announced."

	b := scorer.Score(domain.PhaseBefore, title, "", body, nil)

	// title 1x4 + summary 0x2 + min(3, 6) body hits.
	if got := b.GroupHits["g1"]; got != 7 {
		t.Fatalf("g1 weighted hits = %d, want 7", got)
	}
	if got := b.GroupHits["g2"]; got != 0 {
		t.Fatalf("g2 weighted hits = %d, want 0", got)
	}
	if b.AnchorHits != 2 {
		t.Fatalf("anchor hits = %d, want 2", b.AnchorHits)
	}
	if b.ActiveGroups != 1 {
		t.Fatalf("active groups = %d, want 1", b.ActiveGroups)
	}
	if !almostEqual(b.Score, 8.6) {
		t.Fatalf("score = %v, want 8.6", b.Score)
	}
	if b.Strength != domain.StrengthWeak {
		t.Fatalf("strength = %s, want weak", b.Strength)
	}
	if b.LeadGroup != "g1" {
		t.Fatalf("lead group = %s, want g1", b.LeadGroup)
	}

	params := domain.SelectionParams{MinScore: 14, MinAnchorHits: 0, MinGroupHits: 0}
	if Passes(b, params) {
		t.Fatalf("expected breakdown below min_score=14 to fail thresholds")
	}
}

func TestScoreBodyCap(t *testing.T) {
	t.Parallel()

	scorer := NewScorer(testShift())
	body := strings.Repeat("reform happened again. ", 25)

	b := scorer.Score(domain.PhaseBefore, "", "", body, nil)
	if got := b.GroupHits["g1"]; got != 6 {
		t.Fatalf("body hits should cap at 6, got %d", got)
	}
}

func TestScoreTagBonus(t *testing.T) {
	t.Parallel()

	scorer := NewScorer(testShift())

	b := scorer.Score(domain.PhaseBefore, "", "", "", []string{"politics", "futures", "institutions"})
	if len(b.SignalTags) != 2 {
		t.Fatalf("signal tags = %v, want politics+institutions", b.SignalTags)
	}
	if !almostEqual(b.Score, 2.6) {
		t.Fatalf("score = %v, want 2.6 from two tag signals", b.Score)
	}
}

func TestScoreEmptyInputs(t *testing.T) {
	t.Parallel()

	scorer := NewScorer(testShift())
	b := scorer.Score(domain.PhaseBefore, "", "", "", nil)

	if b.Score != 0 || b.AnchorHits != 0 || b.ActiveGroups != 0 {
		t.Fatalf("expected degenerate zero breakdown, got %+v", b)
	}
	if b.Strength != domain.StrengthWeak {
		t.Fatalf("strength = %s, want weak", b.Strength)
	}
	if Passes(b, domain.SelectionParams{MinScore: 1}) {
		t.Fatalf("empty input must not pass thresholds")
	}
}

func TestScoreLeadGroupTieBreak(t *testing.T) {
	t.Parallel()

	scorer := NewScorer(testShift())
	b := scorer.Score(domain.PhaseBefore, "reform decline", "", "", nil)

	if b.GroupHits["g1"] != b.GroupHits["g2"] {
		t.Fatalf("expected tied groups, got %v", b.GroupHits)
	}
	if b.LeadGroup != "g1" {
		t.Fatalf("catalog order should break ties, got %s", b.LeadGroup)
	}
}

func TestConnectionText(t *testing.T) {
	t.Parallel()

	scorer := NewScorer(testShift())
	if got := scorer.ConnectionText(domain.PhaseBefore, "g2"); got != "g2 connection" {
		t.Fatalf("unexpected connection: %q", got)
	}
	if got := scorer.ConnectionText(domain.PhaseBefore, "none"); got != "before fallback" {
		t.Fatalf("unexpected fallback: %q", got)
	}
	if got := scorer.ConnectionText(domain.PhaseAfter, "g3"); got != "g3 connection" {
		t.Fatalf("unexpected after connection: %q", got)
	}
}

func TestRationaleStableFormat(t *testing.T) {
	t.Parallel()

	hits := map[string]int{"g2": 3, "g1": 7, "g3": 3}
	got := Rationale(domain.PhaseBefore, 12.35, 4, "g1", hits, true)
	want := "Selected for narrative because relevance is high and concept coverage is multi-dimensional. " +
		"Score=12.3; phase=before; anchors=4; lead_group=g1; group_hits=[g1:7, g2:3, g3:3]."
	if got != want {
		t.Fatalf("rationale = %q, want %q", got, want)
	}

	// Identical inputs render identically.
	if again := Rationale(domain.PhaseBefore, 12.35, 4, "g1", hits, true); again != got {
		t.Fatalf("rationale not deterministic: %q vs %q", again, got)
	}

	excluded := Rationale(domain.PhaseAfter, 0, 0, "", map[string]int{}, false)
	if !strings.HasPrefix(excluded, "Excluded from core narrative") {
		t.Fatalf("unexpected excluded rationale: %q", excluded)
	}
	if !strings.Contains(excluded, "lead_group=none") {
		t.Fatalf("expected lead_group=none for empty hits: %q", excluded)
	}
}

func TestRationaleLeadGroupMatchesBreakdownOnTies(t *testing.T) {
	t.Parallel()

	// Catalog order deliberately disagrees with alphabetical order so a
	// tie exposes any divergence between the column and the audit string.
	shift := domain.Shift{
		ID:            "tie_shift",
		MilestoneYear: 2023,
		Before: domain.PhaseCatalog{
			Groups: []domain.KeywordGroup{
				{Name: "zeta_group", Probes: []string{"reform"}, Connection: "zeta link"},
				{Name: "alpha_group", Probes: []string{"decline"}, Connection: "alpha link"},
			},
		},
		Weights: testWeights(),
	}

	b := NewScorer(shift).Score(domain.PhaseBefore, "", "", "reform decline", nil)
	if b.GroupHits["zeta_group"] != 1 || b.GroupHits["alpha_group"] != 1 {
		t.Fatalf("expected a 1:1 tie, got %v", b.GroupHits)
	}
	if b.LeadGroup != "zeta_group" {
		t.Fatalf("lead group = %q, want catalog-first zeta_group", b.LeadGroup)
	}

	rationale := Rationale(domain.PhaseBefore, b.Score, b.AnchorHits, b.LeadGroup, b.GroupHits, false)
	if !strings.Contains(rationale, "lead_group=zeta_group") {
		t.Fatalf("rationale contradicts breakdown lead group: %q", rationale)
	}
	// Display order of the hit list stays alphabetical within ties.
	if !strings.Contains(rationale, "group_hits=[alpha_group:1, zeta_group:1]") {
		t.Fatalf("unexpected hit list: %q", rationale)
	}
}
