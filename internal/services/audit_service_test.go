package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/events"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository/memory"
)

type failingAuditRepo struct {
	repository.AuditLogRepository
}

func (failingAuditRepo) Create(context.Context, *models.AuditLog) error {
	return errors.New("connection refused")
}

type recordingPublisher struct {
	events []events.AuditEvent
	err    error
}

func (p *recordingPublisher) PublishAudit(_ context.Context, e events.AuditEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func TestAuditRecordPublishes(t *testing.T) {
	store := memory.NewStore()
	pub := &recordingPublisher{}
	audit := NewAuditService(store.AuditLogs, pub)

	audit.Record(context.Background(), AuditEntry{
		EntityType: models.EntityTest,
		EntityID:   "t1",
		Action:     models.ActionCreated,
		UserEmail:  "simone@example.com",
		NewValue:   map[string]string{"name": "T1"},
	})

	logs, _ := audit.ForEntity(context.Background(), models.EntityTest, "t1")
	if len(logs) != 1 {
		t.Fatalf("expected 1 row, got %d", len(logs))
	}
	if logs[0].OldValue != nil || string(logs[0].NewValue) != `{"name":"T1"}` {
		t.Fatalf("unexpected snapshots old=%s new=%s", logs[0].OldValue, logs[0].NewValue)
	}
	if len(pub.events) != 1 || pub.events[0].ID != logs[0].ID.String() || pub.events[0].Action != "created" {
		t.Fatalf("unexpected published events %+v", pub.events)
	}
}

func TestAuditRecordIsBestEffort(t *testing.T) {
	pub := &recordingPublisher{}
	audit := NewAuditService(failingAuditRepo{}, pub)
	// must not panic or publish when the write fails
	audit.Record(context.Background(), AuditEntry{EntityType: models.EntityTest, EntityID: "t1", Action: models.ActionDeleted})
	if len(pub.events) != 0 {
		t.Fatal("nothing should be published for a failed write")
	}

	store := memory.NewStore()
	failingPub := &recordingPublisher{err: errors.New("nats: no servers available")}
	audit = NewAuditService(store.AuditLogs, failingPub)
	audit.Record(context.Background(), AuditEntry{EntityType: models.EntityMacroarea, EntityID: "m1", Action: models.ActionCreated, UserEmail: "anna@example.com"})
	if logs, _ := audit.ByUser(context.Background(), "anna@example.com"); len(logs) != 1 {
		t.Fatalf("row should be stored even when publishing fails, got %d", len(logs))
	}
}

func TestAuditReads(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		env.audit.Record(ctx, AuditEntry{EntityType: models.EntityTest, EntityID: "t1", Action: models.ActionUpdated, UserEmail: "marco@example.com"})
	}

	recent, err := env.audit.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 || !recent[0].Timestamp.After(recent[1].Timestamp) {
		t.Fatalf("expected 3 rows newest first, got %+v", recent)
	}
	if all, _ := env.audit.Recent(ctx, 0); len(all) != 5 {
		t.Fatalf("default limit should cover all 5 rows, got %d", len(all))
	}
	if _, err := env.audit.ForEntity(ctx, "bogus", "t1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
