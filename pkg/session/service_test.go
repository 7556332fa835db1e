package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinscribe-ai/platform/pkg/audit"
	"github.com/clinscribe-ai/platform/pkg/common/logger"
	"github.com/clinscribe-ai/platform/pkg/store"
	"github.com/clinscribe-ai/platform/pkg/tenancy"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newTestService() *Service {
	// No cache client: the store stays authoritative either way.
	return NewService(store.NewMemorySessionStore(), nil, time.Minute, audit.NewRecorder(nil, nil))
}

func testCtx() context.Context {
	return tenancy.WithTenant(context.Background(), "clinic-a")
}

func TestCreateAndGet(t *testing.T) {
	svc := newTestService()
	ctx := testCtx()

	created, err := svc.Create(ctx, "ward rounds")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Title != "ward rounds" {
		t.Fatalf("unexpected session %+v", got)
	}
}

func TestAttachJobIsIdempotent(t *testing.T) {
	svc := newTestService()
	ctx := testCtx()

	created, _ := svc.Create(ctx, "")
	jobID := uuid.New()

	if _, err := svc.AttachJob(ctx, created.ID, jobID); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	updated, err := svc.AttachJob(ctx, created.ID, jobID)
	if err != nil {
		t.Fatalf("repeat attach failed: %v", err)
	}
	if len(updated.TranscriptionJobIDs) != 1 {
		t.Fatalf("expected job attached once, got %d", len(updated.TranscriptionJobIDs))
	}
}

func TestGetScopedToTenant(t *testing.T) {
	svc := newTestService()

	created, _ := svc.Create(testCtx(), "rounds")

	other := tenancy.WithTenant(context.Background(), "clinic-b")
	if _, err := svc.Get(other, created.ID); err == nil {
		t.Fatal("expected cross-tenant read to fail")
	}
}
