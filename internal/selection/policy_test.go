package selection

import (
	"fmt"
	"reflect"
	"testing"

	"ShiftEvidence/internal/domain"
)

func candidate(uid string, phase domain.Phase, score float64, date string, include bool) *domain.ScoredCandidate {
	return &domain.ScoredCandidate{
		ArticleUID:       uid,
		Phase:            phase,
		RelevanceScore:   score,
		PublishedDate:    date,
		Title:            "Title " + uid,
		TextState:        domain.TextStateFull,
		CandidateInclude: include,
	}
}

func selectedUIDs(result Result) []string {
	uids := make([]string, 0, len(result.Selected))
	for _, c := range result.Selected {
		uids = append(uids, c.ArticleUID)
	}
	return uids
}

func TestApplyEarlierDateWinsTie(t *testing.T) {
	t.Parallel()

	later := candidate("later", domain.PhaseAfter, 20.0, "2023-01-01", true)
	earlier := candidate("earlier", domain.PhaseAfter, 20.0, "2022-06-01", true)

	result := Apply([]*domain.ScoredCandidate{later, earlier}, domain.SelectionParams{MaxPerPhase: 1})

	if got := selectedUIDs(result); !reflect.DeepEqual(got, []string{"earlier"}) {
		t.Fatalf("selected = %v, want [earlier]", got)
	}
	if !earlier.IncludeInStory || earlier.SelectionReason != domain.ReasonPassedThreshold {
		t.Fatalf("earlier candidate not marked selected: %+v", earlier)
	}
	if later.IncludeInStory || later.SelectionReason != domain.ReasonBelowPhaseCap {
		t.Fatalf("later candidate should be below_phase_cap: %+v", later)
	}
}

func TestApplyBackfillToCap(t *testing.T) {
	t.Parallel()

	var candidates []*domain.ScoredCandidate
	// Two threshold passers and eight failers with descending scores.
	candidates = append(candidates,
		candidate("pass-1", domain.PhaseBefore, 30, "2020-01-01", true),
		candidate("pass-2", domain.PhaseBefore, 25, "2020-02-01", true),
	)
	for i := 0; i < 8; i++ {
		uid := fmt.Sprintf("fail-%d", i)
		candidates = append(candidates, candidate(uid, domain.PhaseBefore, float64(20-i), "2020-03-01", false))
	}

	params := domain.SelectionParams{MaxPerPhase: 5, Backfill: true}
	result := Apply(candidates, params)

	want := []string{"pass-1", "pass-2", "fail-0", "fail-1", "fail-2"}
	if got := selectedUIDs(result); !reflect.DeepEqual(got, want) {
		t.Fatalf("selected = %v, want %v", got, want)
	}

	for _, c := range result.Selected[:2] {
		if c.SelectionReason != domain.ReasonPassedThreshold {
			t.Fatalf("%s reason = %s, want passed_threshold", c.ArticleUID, c.SelectionReason)
		}
	}
	for _, c := range result.Selected[2:] {
		if c.SelectionReason != domain.ReasonBackfillToPhaseCap {
			t.Fatalf("%s reason = %s, want backfill_to_phase_cap", c.ArticleUID, c.SelectionReason)
		}
	}
	for _, c := range candidates[5:] {
		if c.IncludeInStory {
			continue
		}
		if c.SelectionReason != domain.ReasonBelowCutoff {
			t.Fatalf("%s reason = %s, want below_cutoff", c.ArticleUID, c.SelectionReason)
		}
	}
}

func TestApplyNoBackfillLeavesGap(t *testing.T) {
	t.Parallel()

	candidates := []*domain.ScoredCandidate{
		candidate("pass", domain.PhaseBefore, 30, "2020-01-01", true),
		candidate("fail", domain.PhaseBefore, 20, "2020-02-01", false),
	}

	result := Apply(candidates, domain.SelectionParams{MaxPerPhase: 5, Backfill: false})
	if got := selectedUIDs(result); !reflect.DeepEqual(got, []string{"pass"}) {
		t.Fatalf("selected = %v, want [pass]", got)
	}
	if candidates[1].SelectionReason != domain.ReasonBelowCutoff {
		t.Fatalf("unexpected reason: %s", candidates[1].SelectionReason)
	}
}

func TestApplyFullTextOnly(t *testing.T) {
	t.Parallel()

	partial := candidate("partial", domain.PhaseAfter, 40, "2023-01-01", true)
	partial.TextState = domain.TextStatePartial
	full := candidate("full", domain.PhaseAfter, 20, "2023-02-01", true)

	params := domain.SelectionParams{MaxPerPhase: 2, FullTextOnly: true, Backfill: true}
	result := Apply([]*domain.ScoredCandidate{partial, full}, params)

	if got := selectedUIDs(result); !reflect.DeepEqual(got, []string{"full"}) {
		t.Fatalf("selected = %v, want [full]", got)
	}
	if partial.SelectionReason != domain.ReasonBlockedNonFullText {
		t.Fatalf("partial reason = %s, want blocked_non_full_text", partial.SelectionReason)
	}
	if result.FullTextTotals[domain.PhaseAfter] != 1 {
		t.Fatalf("full text totals = %v", result.FullTextTotals)
	}
}

func TestApplyCapAndOrderingInvariants(t *testing.T) {
	t.Parallel()

	var candidates []*domain.ScoredCandidate
	for i := 0; i < 7; i++ {
		uid := fmt.Sprintf("b-%d", i)
		candidates = append(candidates, candidate(uid, domain.PhaseBefore, float64(10+i%3), fmt.Sprintf("201%d-01-01", i), true))
	}
	for i := 0; i < 4; i++ {
		uid := fmt.Sprintf("a-%d", i)
		candidates = append(candidates, candidate(uid, domain.PhaseAfter, float64(12+i), "2024-01-01", true))
	}

	params := domain.SelectionParams{MaxPerPhase: 3}
	result := Apply(candidates, params)

	for _, phase := range domain.Phases() {
		if result.SelectedByPhase[phase] > params.MaxPerPhase {
			t.Fatalf("phase %s exceeds cap: %d", phase, result.SelectedByPhase[phase])
		}
	}

	// Within a phase scores are non-increasing; ties keep dates non-decreasing.
	var prev *domain.ScoredCandidate
	for _, c := range result.Selected {
		if prev != nil && prev.Phase == c.Phase {
			if c.RelevanceScore > prev.RelevanceScore {
				t.Fatalf("scores increase: %v after %v", c.RelevanceScore, prev.RelevanceScore)
			}
			if c.RelevanceScore == prev.RelevanceScore && c.PublishedDate < prev.PublishedDate {
				t.Fatalf("dates decrease on tied score")
			}
		}
		prev = c
	}
}

func TestApplyIsReentrant(t *testing.T) {
	t.Parallel()

	candidates := []*domain.ScoredCandidate{
		candidate("x", domain.PhaseBefore, 15, "2019-01-01", true),
		candidate("y", domain.PhaseBefore, 15, "2019-01-01", false),
		candidate("z", domain.PhaseAfter, 9, "2024-01-01", false),
	}
	params := domain.SelectionParams{MaxPerPhase: 2, Backfill: true}

	first := Apply(candidates, params)
	firstUIDs := selectedUIDs(first)
	firstReasons := map[string]domain.SelectionReason{}
	for _, c := range candidates {
		firstReasons[c.ArticleUID] = c.SelectionReason
	}

	second := Apply(candidates, params)
	if !reflect.DeepEqual(selectedUIDs(second), firstUIDs) {
		t.Fatalf("selection changed across identical applications")
	}
	for _, c := range candidates {
		if firstReasons[c.ArticleUID] != c.SelectionReason {
			t.Fatalf("reason for %s changed across applications", c.ArticleUID)
		}
	}
}
