// Package selection converts the scored candidate set of one run into a
// bounded, auditable selected subset per phase.
package selection

import (
	"sort"

	"ShiftEvidence/internal/domain"
)

// Result summarizes one policy application. Selected holds the picked
// candidates ordered by phase, score descending, date, title.
type Result struct {
	Selected        []*domain.ScoredCandidate
	SelectedByPhase map[domain.Phase]int
	PhaseTotals     map[domain.Phase]int
	FullTextTotals  map[domain.Phase]int
}

// Apply filters, ranks, caps, and optionally backfills candidates per
// phase, stamping IncludeInStory and SelectionReason on every candidate.
// The policy is re-entrant: identical inputs yield identical outcomes.
func Apply(candidates []*domain.ScoredCandidate, params domain.SelectionParams) Result {
	result := Result{
		SelectedByPhase: map[domain.Phase]int{},
		PhaseTotals:     map[domain.Phase]int{},
		FullTextTotals:  map[domain.Phase]int{},
	}

	for _, c := range candidates {
		result.PhaseTotals[c.Phase]++
		if c.TextState == domain.TextStateFull {
			result.FullTextTotals[c.Phase]++
		}
	}

	for _, phase := range domain.Phases() {
		picked := applyPhase(candidates, phase, params)
		result.SelectedByPhase[phase] = len(picked)
		result.Selected = append(result.Selected, picked...)
	}

	return result
}

func applyPhase(candidates []*domain.ScoredCandidate, phase domain.Phase, params domain.SelectionParams) []*domain.ScoredCandidate {
	var eligible, rest []*domain.ScoredCandidate
	for _, c := range candidates {
		if c.Phase != phase {
			continue
		}
		if textAllowed(c, params) && c.CandidateInclude {
			eligible = append(eligible, c)
		} else {
			rest = append(rest, c)
		}
	}

	sortCandidates(eligible)
	picks := eligible
	if len(picks) > params.MaxPerPhase {
		picks = picks[:params.MaxPerPhase]
	}

	if params.Backfill && len(picks) < params.MaxPerPhase {
		var pool []*domain.ScoredCandidate
		for _, c := range rest {
			if textAllowed(c, params) {
				pool = append(pool, c)
			}
		}
		sortCandidates(pool)
		for _, c := range pool {
			if len(picks) >= params.MaxPerPhase {
				break
			}
			picks = append(picks, c)
		}
	}

	pickedSet := make(map[string]bool, len(picks))
	for _, c := range picks {
		pickedSet[c.ArticleUID] = true
	}

	for _, c := range candidates {
		if c.Phase != phase {
			continue
		}
		if pickedSet[c.ArticleUID] {
			c.IncludeInStory = true
			if c.CandidateInclude {
				c.SelectionReason = domain.ReasonPassedThreshold
			} else {
				c.SelectionReason = domain.ReasonBackfillToPhaseCap
			}
			continue
		}
		c.IncludeInStory = false
		c.SelectionReason = unselectedReason(c, params)
	}

	return picks
}

func unselectedReason(c *domain.ScoredCandidate, params domain.SelectionParams) domain.SelectionReason {
	if !c.CandidateInclude {
		return domain.ReasonBelowCutoff
	}
	if !textAllowed(c, params) {
		return domain.ReasonBlockedNonFullText
	}
	return domain.ReasonBelowPhaseCap
}

func textAllowed(c *domain.ScoredCandidate, params domain.SelectionParams) bool {
	return !params.FullTextOnly || c.TextState == domain.TextStateFull
}

// sortCandidates orders by score descending, then earlier publication date,
// then title, with article uid as the final key so the order is total.
func sortCandidates(list []*domain.ScoredCandidate) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.RelevanceScore != b.RelevanceScore {
			return a.RelevanceScore > b.RelevanceScore
		}
		if a.PublishedDate != b.PublishedDate {
			return a.PublishedDate < b.PublishedDate
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ArticleUID < b.ArticleUID
	})
}
