package encounters

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/clinscribe-ai/platform/pkg/audit"
	"github.com/clinscribe-ai/platform/pkg/common/errs"
	"github.com/clinscribe-ai/platform/pkg/common/logger"
	"github.com/clinscribe-ai/platform/pkg/common/models"
	"github.com/clinscribe-ai/platform/pkg/store"
	"github.com/clinscribe-ai/platform/pkg/tenancy"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newTestService() *Service {
	return NewService(store.NewMemoryEncounterStore(), store.NewMemoryNoteStore(), audit.NewRecorder(nil, nil))
}

func testCtx() context.Context {
	return tenancy.WithTenant(context.Background(), "clinic-a")
}

func TestCreateStartsInCreated(t *testing.T) {
	svc := newTestService()

	encounter, err := svc.Create(testCtx(), CreateEncounterInput{ClinicianID: "dr-1", PatientID: "p-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if encounter.Status != models.EncounterCreated {
		t.Fatalf("expected CREATED, got %s", encounter.Status)
	}
}

func TestAttachJobIsIdempotent(t *testing.T) {
	svc := newTestService()
	ctx := testCtx()

	encounter, err := svc.Create(ctx, CreateEncounterInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	jobID := uuid.New()
	first, err := svc.AttachJob(ctx, encounter.ID, jobID)
	if err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	if first.Status != models.EncounterInProgress {
		t.Fatalf("expected IN_PROGRESS after first attach, got %s", first.Status)
	}

	second, err := svc.AttachJob(ctx, encounter.ID, jobID)
	if err != nil {
		t.Fatalf("repeat attach failed: %v", err)
	}
	if len(second.TranscriptionJobIDs) != 1 {
		t.Fatalf("expected job attached once, got %d", len(second.TranscriptionJobIDs))
	}
}

func TestFindForJob(t *testing.T) {
	svc := newTestService()
	ctx := testCtx()

	encounter, _ := svc.Create(ctx, CreateEncounterInput{})
	jobID := uuid.New()
	if _, err := svc.AttachJob(ctx, encounter.ID, jobID); err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	found, err := svc.FindForJob(ctx, jobID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.ID != encounter.ID {
		t.Fatalf("expected encounter %s, got %s", encounter.ID, found.ID)
	}

	if _, err := svc.FindForJob(ctx, uuid.New()); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found for unattached job, got %v", err)
	}
}

func TestUpsertNoteCreatesAndPromotes(t *testing.T) {
	svc := newTestService()
	ctx := testCtx()

	encounter, _ := svc.Create(ctx, CreateEncounterInput{})
	note, err := svc.UpsertNote(ctx, encounter.ID, UpsertNoteInput{
		SOAP:     models.SOAPNote{Subjective: "headache"},
		EditorID: "dr-1",
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if note.Subjective != "headache" || note.IsFinalized {
		t.Fatalf("unexpected note %+v", note)
	}

	updated, err := svc.Get(ctx, encounter.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if updated.Status != models.EncounterReadyForReview {
		t.Fatalf("expected READY_FOR_REVIEW after note save, got %s", updated.Status)
	}
}

func TestUpsertNoteMergesNonEmptySections(t *testing.T) {
	svc := newTestService()
	ctx := testCtx()

	encounter, _ := svc.Create(ctx, CreateEncounterInput{})
	if _, err := svc.UpsertNote(ctx, encounter.ID, UpsertNoteInput{
		SOAP:     models.SOAPNote{Subjective: "headache", Plan: "rest"},
		EditorID: "dr-1",
	}); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	note, err := svc.UpsertNote(ctx, encounter.ID, UpsertNoteInput{
		SOAP:     models.SOAPNote{Plan: "rest and fluids"},
		EditorID: "dr-2",
	})
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if note.Subjective != "headache" {
		t.Fatalf("empty section must not clobber existing text, got %q", note.Subjective)
	}
	if note.Plan != "rest and fluids" {
		t.Fatalf("non-empty section must win, got %q", note.Plan)
	}
	if note.LastEditedBy != "dr-2" {
		t.Fatalf("expected last editor recorded, got %q", note.LastEditedBy)
	}
}

func TestUpsertWithFinalizeFreezesNote(t *testing.T) {
	svc := newTestService()
	ctx := testCtx()

	encounter, _ := svc.Create(ctx, CreateEncounterInput{})
	note, err := svc.UpsertNote(ctx, encounter.ID, UpsertNoteInput{
		SOAP:     models.SOAPNote{Subjective: "headache"},
		EditorID: "dr-1",
		Finalize: true,
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if !note.IsFinalized {
		t.Fatal("expected finalized note")
	}

	updated, _ := svc.Get(ctx, encounter.ID)
	if updated.Status != models.EncounterFinalized {
		t.Fatalf("expected FINALIZED encounter, got %s", updated.Status)
	}

	_, err = svc.UpsertNote(ctx, encounter.ID, UpsertNoteInput{
		SOAP:     models.SOAPNote{Subjective: "edited after the fact"},
		EditorID: "dr-2",
	})
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected conflict editing a finalized note, got %v", err)
	}
}

func TestFinalizeNoteRequiresExistingNote(t *testing.T) {
	svc := newTestService()
	ctx := testCtx()

	encounter, _ := svc.Create(ctx, CreateEncounterInput{})
	if _, err := svc.FinalizeNote(ctx, encounter.ID, "scribe-1", "lgtm"); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected conflict without a note, got %v", err)
	}
}

func TestFinalizeNoteStampsReviewer(t *testing.T) {
	svc := newTestService()
	ctx := testCtx()

	encounter, _ := svc.Create(ctx, CreateEncounterInput{})
	if _, err := svc.UpsertNote(ctx, encounter.ID, UpsertNoteInput{
		SOAP:     models.SOAPNote{Subjective: "headache"},
		EditorID: "dr-1",
	}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	note, err := svc.FinalizeNote(ctx, encounter.ID, "scribe-1", "reviewed")
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if !note.IsFinalized || note.ReviewedBy != "scribe-1" || note.ReviewedAt == nil {
		t.Fatalf("expected reviewer stamp, got %+v", note)
	}

	updated, _ := svc.Get(ctx, encounter.ID)
	if updated.Status != models.EncounterFinalized {
		t.Fatalf("expected FINALIZED encounter, got %s", updated.Status)
	}
}

func TestReviewQueueAndClaim(t *testing.T) {
	svc := newTestService()
	ctx := testCtx()

	encounter, _ := svc.Create(ctx, CreateEncounterInput{})
	if _, err := svc.UpsertNote(ctx, encounter.ID, UpsertNoteInput{
		SOAP:     models.SOAPNote{Subjective: "headache"},
		EditorID: "dr-1",
	}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	queue, err := svc.ReviewQueue(ctx)
	if err != nil {
		t.Fatalf("queue failed: %v", err)
	}
	if len(queue) != 1 {
		t.Fatalf("expected one encounter in queue, got %d", len(queue))
	}

	claimed, err := svc.ClaimReview(ctx, encounter.ID, "scribe-1")
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if claimed.AssignedReviewerID != "scribe-1" {
		t.Fatalf("expected reviewer assigned, got %q", claimed.AssignedReviewerID)
	}

	// Re-claiming by the same reviewer is fine; by another is a conflict.
	if _, err := svc.ClaimReview(ctx, encounter.ID, "scribe-1"); err != nil {
		t.Fatalf("idempotent claim failed: %v", err)
	}
	if _, err := svc.ClaimReview(ctx, encounter.ID, "scribe-2"); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected conflict for competing claim, got %v", err)
	}
}

func TestCrossTenantEncounterHidden(t *testing.T) {
	svc := newTestService()

	encounter, _ := svc.Create(testCtx(), CreateEncounterInput{})

	other := tenancy.WithTenant(context.Background(), "clinic-b")
	if _, err := svc.Get(other, encounter.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found across tenants, got %v", err)
	}
}
