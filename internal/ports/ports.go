package ports

import (
	"context"
	"time"

	"ShiftEvidence/internal/domain"
)

// CorpusRepository reads publication-eligible articles joined with their
// primary body text from the corpus store.
type CorpusRepository interface {
	FetchEligible(ctx context.Context) ([]domain.Article, error)
}

// AnalysisRepository reads curated summaries and tag slugs from the
// analysis store.
type AnalysisRepository interface {
	SummariesByArticle(ctx context.Context) (map[string]string, error)
	TagSlugsByArticle(ctx context.Context) (map[string][]string, error)
}

// EvidenceLedger persists evidence records with fingerprint-based
// idempotency and run-level audit bookkeeping.
type EvidenceLedger interface {
	EnsureSchema(ctx context.Context) error
	OpenRun(ctx context.Context, run *domain.Run) error
	HasEvidence(ctx context.Context, articleUID, version, fingerprint string) (bool, error)
	InsertEvidence(ctx context.Context, record domain.EvidenceRecord) error
	SealRun(ctx context.Context, runUID string, stats domain.RunStats) error
}

// Notifier publishes run digests to outbound channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when recurring evidence runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
