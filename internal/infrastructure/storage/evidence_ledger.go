package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"ShiftEvidence/internal/domain"
	"ShiftEvidence/internal/ports"
)

// schemaStatements bootstrap the evidence tables on the embedded sqlite
// analysis store. Postgres deployments manage schema through external
// migrations; the logical shape is identical.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS shift_evidence_runs (
		id INTEGER PRIMARY KEY,
		run_uid TEXT NOT NULL UNIQUE,
		shift_id TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		method TEXT NOT NULL,
		version TEXT NOT NULL,
		max_per_phase INTEGER NOT NULL,
		min_score REAL NOT NULL,
		min_anchor_hits INTEGER NOT NULL,
		min_group_hits INTEGER NOT NULL,
		full_text_only INTEGER NOT NULL DEFAULT 0,
		backfill INTEGER NOT NULL DEFAULT 0,
		inserted_count INTEGER NOT NULL DEFAULT 0,
		skipped_count INTEGER NOT NULL DEFAULT 0,
		selected_before_count INTEGER NOT NULL DEFAULT 0,
		selected_after_count INTEGER NOT NULL DEFAULT 0,
		notes TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS shift_evidence (
		id INTEGER PRIMARY KEY,
		article_uid TEXT NOT NULL,
		shift_id TEXT NOT NULL,
		phase TEXT NOT NULL CHECK (phase IN ('before', 'after')),
		include_in_story INTEGER NOT NULL CHECK (include_in_story IN (0, 1)),
		candidate_include INTEGER NOT NULL CHECK (candidate_include IN (0, 1)),
		selection_reason TEXT NOT NULL,
		relevance_score REAL NOT NULL,
		strength_label TEXT NOT NULL CHECK (strength_label IN ('strong', 'moderate', 'weak')),
		lead_group TEXT NOT NULL,
		connection_text TEXT NOT NULL,
		rationale TEXT NOT NULL,
		quote_text TEXT NOT NULL,
		quote_source TEXT NOT NULL CHECK (quote_source IN ('body_paragraph', 'summary_sentence', 'title')),
		quote_confidence REAL NOT NULL CHECK (quote_confidence >= 0.0 AND quote_confidence <= 1.0),
		method TEXT NOT NULL,
		version TEXT NOT NULL,
		input_fingerprint TEXT NOT NULL,
		run_uid TEXT NOT NULL REFERENCES shift_evidence_runs(run_uid) ON DELETE RESTRICT,
		generated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_shift_evidence_unique_input
	ON shift_evidence(article_uid, version, input_fingerprint)`,
	`CREATE INDEX IF NOT EXISTS idx_shift_evidence_lookup
	ON shift_evidence(article_uid, generated_at DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_shift_evidence_selected
	ON shift_evidence(include_in_story, phase, relevance_score DESC)`,
}

// EvidenceLedger persists evidence rows and run bookkeeping in the
// analysis store.
type EvidenceLedger struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.EvidenceLedger = (*EvidenceLedger)(nil)

// NewEvidenceLedger wires a sql.DB handle and a driver-matched builder.
func NewEvidenceLedger(db *sql.DB, builder sq.StatementBuilderType) *EvidenceLedger {
	return &EvidenceLedger{db: db, builder: builder}
}

// EnsureSchema creates the evidence tables and indexes when absent.
func (l *EvidenceLedger) EnsureSchema(ctx context.Context) error {
	for _, statement := range schemaStatements {
		if _, err := l.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("ensure evidence schema: %w", err)
		}
	}
	return nil
}

// OpenRun inserts the run row before any candidate is persisted.
func (l *EvidenceLedger) OpenRun(ctx context.Context, run *domain.Run) error {
	query := l.builder.
		Insert("shift_evidence_runs").
		Columns("run_uid", "shift_id", "started_at", "method", "version",
			"max_per_phase", "min_score", "min_anchor_hits", "min_group_hits",
			"full_text_only", "backfill", "notes").
		Values(run.UID, run.ShiftID, run.StartedAt.UTC().Format(time.RFC3339),
			run.Method, run.Version,
			run.Params.MaxPerPhase, run.Params.MinScore,
			run.Params.MinAnchorHits, run.Params.MinGroupHits,
			boolToInt(run.Params.FullTextOnly), boolToInt(run.Params.Backfill),
			run.Notes)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build open run: %w", err)
	}
	if _, err := l.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("insert run %s: %w", run.UID, err)
	}
	return nil
}

// HasEvidence reports whether a record with this idempotency key exists.
func (l *EvidenceLedger) HasEvidence(ctx context.Context, articleUID, version, fingerprint string) (bool, error) {
	query := l.builder.
		Select("1").
		From("shift_evidence").
		Where(sq.Eq{
			"article_uid":       articleUID,
			"version":           version,
			"input_fingerprint": fingerprint,
		}).
		Limit(1)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("build evidence lookup: %w", err)
	}

	var one int
	err = l.db.QueryRowContext(ctx, sqlStr, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup evidence for %s: %w", articleUID, err)
	}
	return true, nil
}

// InsertEvidence appends one evidence row tagged with its run uid.
func (l *EvidenceLedger) InsertEvidence(ctx context.Context, record domain.EvidenceRecord) error {
	query := l.builder.
		Insert("shift_evidence").
		Columns("article_uid", "shift_id", "phase", "include_in_story",
			"candidate_include", "selection_reason", "relevance_score",
			"strength_label", "lead_group", "connection_text", "rationale",
			"quote_text", "quote_source", "quote_confidence", "method",
			"version", "input_fingerprint", "run_uid", "generated_at").
		Values(record.ArticleUID, record.ShiftID, string(record.Phase),
			boolToInt(record.IncludeInStory), boolToInt(record.CandidateInclude),
			string(record.SelectionReason), record.RelevanceScore,
			string(record.Strength), record.LeadGroup, record.ConnectionText,
			record.Rationale, record.QuoteText, record.QuoteSource,
			record.QuoteConfidence, record.Method, record.Version,
			record.Fingerprint, record.RunUID,
			record.GeneratedAt.UTC().Format(time.RFC3339))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build evidence insert: %w", err)
	}
	if _, err := l.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("insert evidence for %s: %w", record.ArticleUID, err)
	}
	return nil
}

// SealRun stamps the final counters onto the run row. Runs transition
// open -> sealed exactly once and are never mutated afterward.
func (l *EvidenceLedger) SealRun(ctx context.Context, runUID string, stats domain.RunStats) error {
	query := l.builder.
		Update("shift_evidence_runs").
		Set("finished_at", time.Now().UTC().Format(time.RFC3339)).
		Set("inserted_count", stats.InsertedCount).
		Set("skipped_count", stats.SkippedCount).
		Set("selected_before_count", stats.SelectedBefore).
		Set("selected_after_count", stats.SelectedAfter).
		Where(sq.Eq{"run_uid": runUID, "finished_at": nil})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build seal run: %w", err)
	}

	result, err := l.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("seal run %s: %w", runUID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("seal run %s rows affected: %w", runUID, err)
	}
	if affected == 0 {
		return fmt.Errorf("run %s is missing or already sealed", runUID)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
