package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"ShiftEvidence/internal/domain"
)

func openTestLedger(t *testing.T) *EvidenceLedger {
	t.Helper()

	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "analysis.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)

	ledger := NewEvidenceLedger(db, BuilderFor(DriverSQLite))
	if err := ledger.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return ledger
}

func testRun() domain.Run {
	return domain.Run{
		UID:       "evd-test-0001",
		ShiftID:   "republic_shift",
		StartedAt: time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
		Method:    "rule_based",
		Version:   "v1_test",
		Params:    domain.SelectionParams{MaxPerPhase: 12, MinScore: 14, MinAnchorHits: 3, MinGroupHits: 2},
		Notes:     "ledger test run",
	}
}

func testRecord(runUID string) domain.EvidenceRecord {
	return domain.EvidenceRecord{
		ArticleUID:       "art-1",
		ShiftID:          "republic_shift",
		Phase:            domain.PhaseBefore,
		IncludeInStory:   true,
		CandidateInclude: true,
		SelectionReason:  domain.ReasonPassedThreshold,
		RelevanceScore:   21.5,
		Strength:         domain.StrengthStrong,
		LeadGroup:        "institutional_grammar",
		ConnectionText:   "connection",
		Rationale:        "rationale",
		QuoteText:        "quote",
		QuoteSource:      domain.QuoteSourceBodyParagraph,
		QuoteConfidence:  0.9,
		Method:           "rule_based",
		Version:          "v1_test",
		Fingerprint:      "fp-1",
		RunUID:           runUID,
		GeneratedAt:      time.Date(2025, time.March, 1, 12, 0, 1, 0, time.UTC),
	}
}

func TestLedgerInsertAndDuplicateCheck(t *testing.T) {
	t.Parallel()

	ledger := openTestLedger(t)
	ctx := context.Background()

	run := testRun()
	if err := ledger.OpenRun(ctx, &run); err != nil {
		t.Fatalf("open run: %v", err)
	}

	exists, err := ledger.HasEvidence(ctx, "art-1", "v1_test", "fp-1")
	if err != nil {
		t.Fatalf("has evidence: %v", err)
	}
	if exists {
		t.Fatalf("expected no evidence before insert")
	}

	if err := ledger.InsertEvidence(ctx, testRecord(run.UID)); err != nil {
		t.Fatalf("insert evidence: %v", err)
	}

	exists, err = ledger.HasEvidence(ctx, "art-1", "v1_test", "fp-1")
	if err != nil {
		t.Fatalf("has evidence after insert: %v", err)
	}
	if !exists {
		t.Fatalf("expected evidence after insert")
	}

	// A drifted fingerprint is a new idempotency key.
	exists, err = ledger.HasEvidence(ctx, "art-1", "v1_test", "fp-2")
	if err != nil {
		t.Fatalf("has evidence with new fingerprint: %v", err)
	}
	if exists {
		t.Fatalf("unexpected hit for a different fingerprint")
	}
}

func TestLedgerSealRunOnce(t *testing.T) {
	t.Parallel()

	ledger := openTestLedger(t)
	ctx := context.Background()

	run := testRun()
	run.UID = "evd-test-0002"
	if err := ledger.OpenRun(ctx, &run); err != nil {
		t.Fatalf("open run: %v", err)
	}

	stats := domain.RunStats{InsertedCount: 3, SkippedCount: 1, SelectedBefore: 2, SelectedAfter: 1}
	if err := ledger.SealRun(ctx, run.UID, stats); err != nil {
		t.Fatalf("seal run: %v", err)
	}

	// Sealing is one-way: a second seal must fail.
	if err := ledger.SealRun(ctx, run.UID, stats); err == nil {
		t.Fatalf("expected error sealing an already sealed run")
	}

	// Unknown runs cannot be sealed.
	if err := ledger.SealRun(ctx, "evd-missing", stats); err == nil {
		t.Fatalf("expected error sealing a missing run")
	}
}
