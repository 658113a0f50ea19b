package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"ShiftEvidence/internal/domain"
	"ShiftEvidence/internal/ports"
	"ShiftEvidence/internal/scoring"
	"ShiftEvidence/internal/selection"
)

// Rationale prefixes stamped on candidates excluded after passing raw
// thresholds, kept verbatim across reruns for audit comparability.
const (
	capExclusionNote      = "Excluded due to per-phase cap despite passing score threshold."
	fullTextExclusionNote = "Not selected because strict mode requires full-text evidence."
)

// PipelineDeps wires the driven adapters into the evidence pipeline.
type PipelineDeps struct {
	Corpus   ports.CorpusRepository
	Analysis ports.AnalysisRepository
	Ledger   ports.EvidenceLedger
	Notifier ports.Notifier
	Logger   *slog.Logger
}

// Pipeline implements the evidence scoring and selection workflow: classify,
// score, extract quotes, select per phase, persist idempotently, seal run.
type Pipeline struct {
	corpus   ports.CorpusRepository
	analysis ports.AnalysisRepository
	ledger   ports.EvidenceLedger
	notifier ports.Notifier
	logger   *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		corpus:   deps.Corpus,
		analysis: deps.Analysis,
		ledger:   deps.Ledger,
		notifier: deps.Notifier,
		logger:   logger,
	}
}

// RunRequest carries everything one pipeline invocation needs.
type RunRequest struct {
	Shift   domain.Shift
	Method  string
	Version string
	Params  domain.SelectionParams
	Notes   string
	DryRun  bool
}

// Validate fails fast on malformed configuration before any scoring begins.
func (r RunRequest) Validate() error {
	if r.Shift.ID == "" {
		return fmt.Errorf("shift id is empty")
	}
	if r.Shift.MilestoneYear <= 0 {
		return fmt.Errorf("shift %s: milestone year %d is invalid", r.Shift.ID, r.Shift.MilestoneYear)
	}
	if r.Method == "" || r.Version == "" {
		return fmt.Errorf("method and version labels are required")
	}
	if r.Params.MaxPerPhase <= 0 {
		return fmt.Errorf("max_per_phase must be positive, got %d", r.Params.MaxPerPhase)
	}
	if r.Params.MinScore < 0 {
		return fmt.Errorf("min_score must be non-negative, got %v", r.Params.MinScore)
	}
	if r.Params.MinAnchorHits < 0 || r.Params.MinGroupHits < 0 {
		return fmt.Errorf("anchor/group thresholds must be non-negative")
	}
	return nil
}

// RunResult exposes the full candidate list, the selected subset, and the
// sealed run statistics as inspectable in-memory structures.
type RunResult struct {
	Run            domain.Run
	Candidates     []*domain.ScoredCandidate
	Selected       []*domain.ScoredCandidate
	PhaseTotals    map[domain.Phase]int
	FullTextTotals map[domain.Phase]int
}

// Execute performs one evidence run. Persistence errors propagate
// immediately, leaving the run row unsealed as a diagnostic trace.
func (p *Pipeline) Execute(ctx context.Context, req RunRequest) (*RunResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate run request: %w", err)
	}

	articles, err := p.corpus.FetchEligible(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch eligible articles: %w", err)
	}

	summaries, err := p.analysis.SummariesByArticle(ctx)
	if err != nil {
		return nil, fmt.Errorf("load summaries: %w", err)
	}

	tags, err := p.analysis.TagSlugsByArticle(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}

	scorer := scoring.NewScorer(req.Shift)
	candidates := p.buildCandidates(scorer, req, articles, summaries, tags)

	selected := selection.Apply(candidates, req.Params)
	stampRationales(candidates)

	run := domain.Run{
		UID:       newRunUID(),
		ShiftID:   req.Shift.ID,
		StartedAt: time.Now().UTC(),
		Method:    req.Method,
		Version:   req.Version,
		Params:    req.Params,
		Notes:     runNotes(req),
	}

	if !req.DryRun {
		if err := p.ledger.OpenRun(ctx, &run); err != nil {
			return nil, fmt.Errorf("open run: %w", err)
		}
	}

	stats := domain.RunStats{
		SelectedBefore: selected.SelectedByPhase[domain.PhaseBefore],
		SelectedAfter:  selected.SelectedByPhase[domain.PhaseAfter],
	}

	for _, c := range candidates {
		exists, err := p.ledger.HasEvidence(ctx, c.ArticleUID, req.Version, c.Fingerprint)
		if err != nil {
			return nil, fmt.Errorf("check evidence for %s: %w", c.ArticleUID, err)
		}
		if exists {
			stats.SkippedCount++
			continue
		}
		stats.InsertedCount++
		if req.DryRun {
			continue
		}
		if err := p.ledger.InsertEvidence(ctx, recordFromCandidate(c, req, run.UID)); err != nil {
			return nil, fmt.Errorf("insert evidence for %s: %w", c.ArticleUID, err)
		}
	}

	if !req.DryRun {
		if err := p.ledger.SealRun(ctx, run.UID, stats); err != nil {
			return nil, fmt.Errorf("seal run %s: %w", run.UID, err)
		}
		finished := time.Now().UTC()
		run.FinishedAt = &finished
	}
	run.Stats = stats

	result := &RunResult{
		Run:            run,
		Candidates:     candidates,
		Selected:       selected.Selected,
		PhaseTotals:    selected.PhaseTotals,
		FullTextTotals: selected.FullTextTotals,
	}

	p.logger.Info("evidence run complete",
		"shift", req.Shift.ID,
		"run_uid", run.UID,
		"candidates", len(candidates),
		"inserted", stats.InsertedCount,
		"skipped", stats.SkippedCount,
		"selected_before", stats.SelectedBefore,
		"selected_after", stats.SelectedAfter,
		"dry_run", req.DryRun)

	if p.notifier != nil && !req.DryRun {
		if err := p.notifier.PublishDigest(ctx, buildRunDigest(result)); err != nil {
			p.logger.Warn("publish run digest failed", "run_uid", run.UID, "error", err)
		}
	}

	return result, nil
}

func (p *Pipeline) buildCandidates(
	scorer *scoring.Scorer,
	req RunRequest,
	articles []domain.Article,
	summaries map[string]string,
	tags map[string][]string,
) []*domain.ScoredCandidate {
	candidates := make([]*domain.ScoredCandidate, 0, len(articles))
	for _, article := range articles {
		year, date, err := publicationYear(article.PublishedAt)
		if err != nil {
			// Data error: skip the article, not the run.
			p.logger.Warn("skipping article with unparseable publish date",
				"article_uid", article.UID, "published_at", article.PublishedAt)
			continue
		}

		summary := article.Summary
		if s, ok := summaries[article.UID]; ok {
			summary = s
		}
		tagSlugs := article.TagSlugs
		if t, ok := tags[article.UID]; ok {
			tagSlugs = t
		}

		phase := req.Shift.PhaseFor(year)
		breakdown := scorer.Score(phase, article.Title, summary, article.BodyText, tagSlugs)
		quote := scorer.SelectQuote(phase, article.BodyText, summary, article.Title)

		candidates = append(candidates, &domain.ScoredCandidate{
			ArticleUID:       article.UID,
			ShiftID:          req.Shift.ID,
			Phase:            phase,
			PublishedDate:    date,
			Title:            article.Title,
			URL:              article.URL,
			Publication:      article.Publication,
			Summary:          summary,
			TagSlugs:         tagSlugs,
			SignalTags:       breakdown.SignalTags,
			TextState:        article.TextState,
			GroupHits:        breakdown.GroupHits,
			AnchorHits:       breakdown.AnchorHits,
			ActiveGroups:     breakdown.ActiveGroups,
			RelevanceScore:   breakdown.Score,
			Strength:         breakdown.Strength,
			LeadGroup:        breakdown.LeadGroup,
			ConnectionText:   scorer.ConnectionText(phase, breakdown.LeadGroup),
			QuoteText:        quote.Text,
			QuoteSource:      quote.Source,
			QuoteConfidence:  quote.Confidence,
			CandidateInclude: scoring.Passes(breakdown, req.Params),
			Fingerprint: scoring.Fingerprint(article.UID, phase, breakdown.Score,
				summary, tagSlugs, quote.Text),
		})
	}
	return candidates
}

// stampRationales renders the audit string once selection is settled.
func stampRationales(candidates []*domain.ScoredCandidate) {
	for _, c := range candidates {
		c.Rationale = scoring.Rationale(c.Phase, c.RelevanceScore, c.AnchorHits, c.LeadGroup, c.GroupHits, c.IncludeInStory)
		switch c.SelectionReason {
		case domain.ReasonBelowPhaseCap:
			c.Rationale = capExclusionNote + " " + c.Rationale
		case domain.ReasonBlockedNonFullText:
			c.Rationale = fullTextExclusionNote + " " + c.Rationale
		}
	}
}

func recordFromCandidate(c *domain.ScoredCandidate, req RunRequest, runUID string) domain.EvidenceRecord {
	return domain.EvidenceRecord{
		ArticleUID:       c.ArticleUID,
		ShiftID:          c.ShiftID,
		Phase:            c.Phase,
		IncludeInStory:   c.IncludeInStory,
		CandidateInclude: c.CandidateInclude,
		SelectionReason:  c.SelectionReason,
		RelevanceScore:   c.RelevanceScore,
		Strength:         c.Strength,
		LeadGroup:        c.LeadGroup,
		ConnectionText:   c.ConnectionText,
		Rationale:        c.Rationale,
		QuoteText:        c.QuoteText,
		QuoteSource:      c.QuoteSource,
		QuoteConfidence:  c.QuoteConfidence,
		Method:           req.Method,
		Version:          req.Version,
		Fingerprint:      c.Fingerprint,
		RunUID:           runUID,
		GeneratedAt:      time.Now().UTC(),
	}
}

func runNotes(req RunRequest) string {
	base := fmt.Sprintf(
		"Selection for %s with max_per_phase=%d, min_score=%v, min_anchor_hits=%d, min_group_hits=%d, full_text_only=%t, backfill=%t.",
		req.Shift.ID, req.Params.MaxPerPhase, req.Params.MinScore,
		req.Params.MinAnchorHits, req.Params.MinGroupHits,
		req.Params.FullTextOnly, req.Params.Backfill)
	if req.Notes != "" {
		return req.Notes + " " + base
	}
	return base
}

func newRunUID() string {
	stamp := time.Now().UTC().Format("20060102T150405Z")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("evd-%s-%s", stamp, suffix)
}

// publicationYear derives (year, ISO date) from the stored publish string.
func publicationYear(raw string) (int, string, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) < 10 {
		return 0, "", fmt.Errorf("publish date %q too short", raw)
	}
	parsed, err := time.Parse("2006-01-02", trimmed[:10])
	if err != nil {
		return 0, "", fmt.Errorf("parse publish date %q: %w", raw, err)
	}
	return parsed.Year(), trimmed[:10], nil
}

func buildRunDigest(result *RunResult) string {
	run := result.Run
	return fmt.Sprintf(
		"Evidence run %s (%s %s/%s)\nCandidates: %d\nInserted: %d\nSkipped: %d\nSelected before/after: %d/%d",
		run.UID, run.ShiftID, run.Method, run.Version,
		len(result.Candidates),
		run.Stats.InsertedCount, run.Stats.SkippedCount,
		run.Stats.SelectedBefore, run.Stats.SelectedAfter)
}
