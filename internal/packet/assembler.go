// Package packet assembles the research packet emitted after a run: a JSON
// payload for downstream tooling and a Markdown brief for human review.
package packet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ShiftEvidence/internal/domain"
	"ShiftEvidence/internal/textnorm"
)

const (
	summarySnippetChars = 280
	briefTopN           = 6
)

// Record is one candidate row in the packet payload.
type Record struct {
	ArticleUID       string                 `json:"article_uid"`
	Phase            string                 `json:"phase"`
	PublishedDate    string                 `json:"published_date"`
	Publication      string                 `json:"publication"`
	Title            string                 `json:"title"`
	URL              string                 `json:"url"`
	SummarySnippet   string                 `json:"summary_snippet"`
	SignalTags       []string               `json:"signal_tags"`
	SignalCount      int                    `json:"signal_count"`
	TextState        string                 `json:"text_state"`
	RelevanceScore   float64                `json:"relevance_score"`
	StrengthLabel    string                 `json:"strength_label"`
	AnchorHits       int                    `json:"anchor_hits"`
	ActiveGroups     int                    `json:"active_groups"`
	GroupHits        map[string]int         `json:"group_hits"`
	LeadGroup        string                 `json:"lead_group"`
	ConnectionText   string                 `json:"connection_text"`
	QuoteText        string                 `json:"quote_text"`
	QuoteSource      string                 `json:"quote_source"`
	QuoteConfidence  float64                `json:"quote_confidence"`
	CandidateInclude bool                   `json:"candidate_include"`
	IncludeInStory   bool                   `json:"include_in_story"`
	SelectionReason  domain.SelectionReason `json:"selection_reason"`
	Rationale        string                 `json:"rationale"`
	Fingerprint      string                 `json:"fingerprint"`
}

// Params echoes the selection thresholds of the run.
type Params struct {
	MaxPerPhase        int     `json:"max_per_phase"`
	MinScore           float64 `json:"min_score"`
	MinAnchorHits      int     `json:"min_anchor_hits"`
	MinGroupHits       int     `json:"min_group_hits"`
	FullTextOnly       bool    `json:"full_text_only"`
	BackfillToPhaseCap bool    `json:"backfill_to_phase_cap"`
}

// Payload is the full packet document.
type Payload struct {
	GeneratedAt         string         `json:"generated_at"`
	ShiftID             string         `json:"shift_id"`
	RunUID              string         `json:"run_uid"`
	Method              string         `json:"method"`
	Version             string         `json:"version"`
	SelectionParams     Params         `json:"selection_params"`
	PhaseTotals         map[string]int `json:"phase_totals"`
	PhaseFullTextTotals map[string]int `json:"phase_full_text_totals"`
	SelectedCounts      map[string]int `json:"selected_counts"`
	SelectedRecords     []Record       `json:"selected_records"`
	CandidateRecords    []Record       `json:"candidate_records"`
	Notes               string         `json:"notes,omitempty"`
}

// Build assembles the payload from a finished run's in-memory results.
func Build(
	run domain.Run,
	candidates, selected []*domain.ScoredCandidate,
	phaseTotals, fullTextTotals map[domain.Phase]int,
) Payload {
	payload := Payload{
		GeneratedAt: run.StartedAt.UTC().Format("2006-01-02 15:04:05 UTC"),
		ShiftID:     run.ShiftID,
		RunUID:      run.UID,
		Method:      run.Method,
		Version:     run.Version,
		SelectionParams: Params{
			MaxPerPhase:        run.Params.MaxPerPhase,
			MinScore:           run.Params.MinScore,
			MinAnchorHits:      run.Params.MinAnchorHits,
			MinGroupHits:       run.Params.MinGroupHits,
			FullTextOnly:       run.Params.FullTextOnly,
			BackfillToPhaseCap: run.Params.Backfill,
		},
		PhaseTotals:         phaseMap(phaseTotals),
		PhaseFullTextTotals: phaseMap(fullTextTotals),
		SelectedCounts: map[string]int{
			string(domain.PhaseBefore): run.Stats.SelectedBefore,
			string(domain.PhaseAfter):  run.Stats.SelectedAfter,
		},
		SelectedRecords:  toRecords(selected),
		CandidateRecords: toRecords(candidates),
		Notes:            run.Notes,
	}
	return payload
}

// WriteJSON persists the payload, creating parent directories as needed.
func WriteJSON(path string, payload Payload) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal packet payload: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create packet dir: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write packet json: %w", err)
	}
	return nil
}

// WriteMarkdown persists the Markdown brief next to the JSON payload.
func WriteMarkdown(path string, payload Payload) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create brief dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(Markdown(payload)), 0o644); err != nil {
		return fmt.Errorf("write brief markdown: %w", err)
	}
	return nil
}

// Markdown renders the human-readable research brief.
func Markdown(payload Payload) string {
	before := recordsForPhase(payload.SelectedRecords, string(domain.PhaseBefore))
	after := recordsForPhase(payload.SelectedRecords, string(domain.PhaseAfter))

	var lines []string
	lines = append(lines,
		"# "+briefTitle(payload.ShiftID),
		"",
		"Generated at: "+payload.GeneratedAt,
		fmt.Sprintf("Method/version: %s/%s", payload.Method, payload.Version),
		"",
		"## Selection Parameters",
		"",
		fmt.Sprintf("- min_score: %v", payload.SelectionParams.MinScore),
		fmt.Sprintf("- min_anchor_hits: %d", payload.SelectionParams.MinAnchorHits),
		fmt.Sprintf("- min_group_hits: %d", payload.SelectionParams.MinGroupHits),
		fmt.Sprintf("- max_per_phase: %d", payload.SelectionParams.MaxPerPhase),
		"",
		"## Coverage Snapshot",
		"",
		fmt.Sprintf("- before candidates: %d (full text: %d)",
			payload.PhaseTotals[string(domain.PhaseBefore)],
			payload.PhaseFullTextTotals[string(domain.PhaseBefore)]),
		fmt.Sprintf("- after candidates: %d (full text: %d)",
			payload.PhaseTotals[string(domain.PhaseAfter)],
			payload.PhaseFullTextTotals[string(domain.PhaseAfter)]),
		fmt.Sprintf("- selected before: %d", len(before)),
		fmt.Sprintf("- selected after: %d", len(after)),
		"",
	)

	lines = append(lines, "## Phase 1 Evidence (Before)", "")
	lines = append(lines, evidenceLines(before)...)
	lines = append(lines, "## Phase 2 Evidence (After)", "")
	lines = append(lines, evidenceLines(after)...)

	lines = append(lines, "## Notes", "")
	lines = append(lines,
		"- Evidence and scoring are rule-based and intended for comparative research triage, not final interpretive truth.")
	if payload.Notes != "" {
		lines = append(lines, "- "+payload.Notes)
	}

	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
}

func evidenceLines(records []Record) []string {
	var lines []string
	for i, record := range records {
		if i >= briefTopN {
			break
		}
		lines = append(lines,
			fmt.Sprintf("%d. %s | %s (%s) | score %v",
				i+1, record.PublishedDate, record.Title, record.Publication, record.RelevanceScore),
			fmt.Sprintf("Quote: %q", record.QuoteText),
			"Why it matters: "+record.ConnectionText,
			"",
		)
	}
	return lines
}

func toRecords(candidates []*domain.ScoredCandidate) []Record {
	records := make([]Record, 0, len(candidates))
	for _, c := range candidates {
		records = append(records, Record{
			ArticleUID:       c.ArticleUID,
			Phase:            string(c.Phase),
			PublishedDate:    c.PublishedDate,
			Publication:      c.Publication,
			Title:            c.Title,
			URL:              c.URL,
			SummarySnippet:   textnorm.Snippet(c.Summary, summarySnippetChars),
			SignalTags:       c.SignalTags,
			SignalCount:      len(c.SignalTags),
			TextState:        c.TextState,
			RelevanceScore:   round2(c.RelevanceScore),
			StrengthLabel:    string(c.Strength),
			AnchorHits:       c.AnchorHits,
			ActiveGroups:     c.ActiveGroups,
			GroupHits:        c.GroupHits,
			LeadGroup:        c.LeadGroup,
			ConnectionText:   c.ConnectionText,
			QuoteText:        c.QuoteText,
			QuoteSource:      c.QuoteSource,
			QuoteConfidence:  round3(c.QuoteConfidence),
			CandidateInclude: c.CandidateInclude,
			IncludeInStory:   c.IncludeInStory,
			SelectionReason:  c.SelectionReason,
			Rationale:        c.Rationale,
			Fingerprint:      c.Fingerprint,
		})
	}

	// Stable packet order: phase, score descending, then date.
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Phase != records[j].Phase {
			return records[i].Phase < records[j].Phase
		}
		if records[i].RelevanceScore != records[j].RelevanceScore {
			return records[i].RelevanceScore > records[j].RelevanceScore
		}
		return records[i].PublishedDate < records[j].PublishedDate
	})

	return records
}

func recordsForPhase(records []Record, phase string) []Record {
	var out []Record
	for _, record := range records {
		if record.Phase == phase {
			out = append(out, record)
		}
	}
	return out
}

func phaseMap(totals map[domain.Phase]int) map[string]int {
	out := map[string]int{
		string(domain.PhaseBefore): 0,
		string(domain.PhaseAfter):  0,
	}
	for phase, count := range totals {
		out[string(phase)] = count
	}
	return out
}

// briefTitle turns a shift id like republic_shift into "Republic Shift
// Research Brief".
func briefTitle(shiftID string) string {
	parts := strings.Split(shiftID, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ") + " Research Brief"
}

func round2(v float64) float64 {
	return roundTo(v, 100)
}

func round3(v float64) float64 {
	return roundTo(v, 1000)
}

func roundTo(v float64, factor float64) float64 {
	if v < 0 {
		return float64(int64(v*factor-0.5)) / factor
	}
	return float64(int64(v*factor+0.5)) / factor
}
