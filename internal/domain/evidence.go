package domain

import "time"

// Quote provenance tiers, strongest first.
const (
	QuoteSourceBodyParagraph   = "body_paragraph"
	QuoteSourceSummarySentence = "summary_sentence"
	QuoteSourceTitle           = "title"
)

// Strength buckets a relevance score for quick triage.
type Strength string

const (
	StrengthStrong   Strength = "strong"
	StrengthModerate Strength = "moderate"
	StrengthWeak     Strength = "weak"
)

// SelectionReason explains why a candidate ended up in or out of the story.
type SelectionReason string

const (
	ReasonPassedThreshold    SelectionReason = "passed_threshold"
	ReasonBackfillToPhaseCap SelectionReason = "backfill_to_phase_cap"
	ReasonBelowCutoff        SelectionReason = "below_cutoff"
	ReasonBelowPhaseCap      SelectionReason = "below_phase_cap"
	ReasonBlockedNonFullText SelectionReason = "blocked_non_full_text"
)

// SelectionParams are the caller-tunable thresholds of one pipeline run.
type SelectionParams struct {
	MaxPerPhase   int
	MinScore      float64
	MinAnchorHits int
	MinGroupHits  int
	FullTextOnly  bool
	Backfill      bool
}

// ScoredCandidate is the full per-article scoring decision for one shift,
// ephemeral within a run until persisted as an EvidenceRecord.
type ScoredCandidate struct {
	ArticleUID    string
	ShiftID       string
	Phase         Phase
	PublishedDate string
	Title         string
	URL           string
	Publication   string
	Summary       string
	TagSlugs      []string
	SignalTags    []string
	TextState     string

	GroupHits      map[string]int
	AnchorHits     int
	ActiveGroups   int
	RelevanceScore float64
	Strength       Strength
	LeadGroup      string
	ConnectionText string

	QuoteText       string
	QuoteSource     string
	QuoteConfidence float64

	CandidateInclude bool
	IncludeInStory   bool
	SelectionReason  SelectionReason
	Rationale        string
	Fingerprint      string
}

// EvidenceRecord is the persisted form of a scoring decision. At most one
// record exists per (article_uid, version, input_fingerprint); reruns with
// drifted inputs append new records and the latest by (generated_at, id)
// is authoritative.
type EvidenceRecord struct {
	ID               int64
	ArticleUID       string
	ShiftID          string
	Phase            Phase
	IncludeInStory   bool
	CandidateInclude bool
	SelectionReason  SelectionReason
	RelevanceScore   float64
	Strength         Strength
	LeadGroup        string
	ConnectionText   string
	Rationale        string
	QuoteText        string
	QuoteSource      string
	QuoteConfidence  float64
	Method           string
	Version          string
	Fingerprint      string
	RunUID           string
	GeneratedAt      time.Time
}

// RunStats are the aggregate counters sealed into a finished run.
type RunStats struct {
	InsertedCount  int
	SkippedCount   int
	SelectedBefore int
	SelectedAfter  int
}

// Run is the audit row for one pipeline invocation. It is opened before any
// candidate is persisted and sealed once with final counters; an unsealed
// row left behind marks an interrupted run.
type Run struct {
	UID        string
	ShiftID    string
	StartedAt  time.Time
	FinishedAt *time.Time
	Method     string
	Version    string
	Params     SelectionParams
	Stats      RunStats
	Notes      string
}
