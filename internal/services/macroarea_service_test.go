package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/google/uuid"
)

func TestMacroareaCreateRejectsDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.macroarea(t, "Preventivi", "Creazione nuovo preventivo")

	_, err := env.macroareas.Create(ctx, MacroareaInput{Name: "Preventivi"}, "anna@example.com")
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	list, _ := env.macroareas.List(ctx)
	if len(list) != 1 {
		t.Fatalf("expected 1 macroarea, got %d", len(list))
	}
	if n := env.auditCount(t); n != 1 {
		t.Fatalf("expected 1 audit row, got %d", n)
	}
}

func TestMacroareaCreateAssignsStandardTaskIDs(t *testing.T) {
	env := newTestEnv(t)
	m, err := env.macroareas.Create(context.Background(), MacroareaInput{
		Name: "Consensi",
		StandardTasks: []models.StandardTask{
			{ID: "cons-1", Title: "Firma consenso informato"},
			{Title: "Archiviazione consensi"},
		},
	}, "anna@example.com")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.StandardTasks[0].ID != "cons-1" {
		t.Fatalf("existing id overwritten: %q", m.StandardTasks[0].ID)
	}
	if m.StandardTasks[1].ID == "" {
		t.Fatal("expected generated id for second standard task")
	}

	_, err = env.macroareas.Create(context.Background(), MacroareaInput{
		Name:          "Broken",
		StandardTasks: []models.StandardTask{{ID: "x"}},
	}, "anna@example.com")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for untitled task, got %v", err)
	}
}

func TestMacroareaUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.macroarea(t, "Calendario", "Prenotazione appuntamento")
	env.macroarea(t, "Fatturazione", "Emissione fattura")

	if _, err := env.macroareas.Update(ctx, uuid.New(), MacroareaInput{Name: "X"}, "anna@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := env.macroareas.Update(ctx, m.ID, MacroareaInput{Name: "Fatturazione"}, "anna@example.com"); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName on rename collision, got %v", err)
	}

	updated, err := env.macroareas.Update(ctx, m.ID, MacroareaInput{
		Name:          "Agenda",
		Description:   "Gestione appuntamenti",
		StandardTasks: []models.StandardTask{{ID: "cal-1", Title: "Prenotazione"}, {ID: "cal-2", Title: "Modifica"}},
	}, "anna@example.com")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Agenda" || len(updated.StandardTasks) != 2 {
		t.Fatalf("unexpected macroarea %+v", updated)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Fatal("expected updated_at to advance")
	}

	logs := env.auditFor(t, models.EntityMacroarea, m.ID)
	if len(logs) != 2 {
		t.Fatalf("expected 2 audit rows, got %d", len(logs))
	}
	last := logs[0]
	if last.Action != models.ActionUpdated {
		t.Fatalf("expected newest action updated, got %s", last.Action)
	}
	var before, after models.Macroarea
	if err := json.Unmarshal(last.OldValue, &before); err != nil {
		t.Fatalf("decode old value: %v", err)
	}
	if err := json.Unmarshal(last.NewValue, &after); err != nil {
		t.Fatalf("decode new value: %v", err)
	}
	if before.Name != "Calendario" || after.Name != "Agenda" {
		t.Fatalf("unexpected snapshots old=%q new=%q", before.Name, after.Name)
	}
}

func TestMacroareaDeleteInUse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.macroarea(t, "Preventivi", "p1")
	b := env.macroarea(t, "Fatturazione", "f1")
	env.test(t, "T1", "simone@example.com", a)
	env.test(t, "T2", "marco@example.com", a, b)

	err := env.macroareas.Delete(ctx, a.ID, "anna@example.com")
	var inUse *InUseError
	if !errors.As(err, &inUse) || inUse.Count != 2 {
		t.Fatalf("expected InUseError{2}, got %v", err)
	}
	if !errors.Is(err, ErrInUse) {
		t.Fatal("expected errors.Is(err, ErrInUse)")
	}
	if _, err := env.macroareas.Get(ctx, a.ID); err != nil {
		t.Fatalf("macroarea should still exist: %v", err)
	}
	if logs := env.auditFor(t, models.EntityMacroarea, a.ID); len(logs) != 1 {
		t.Fatalf("failed delete must not be audited, got %d rows", len(logs))
	}
}

func TestMacroareaDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.macroarea(t, "Piani di Cura", "pc1", "pc2")

	if err := env.macroareas.Delete(ctx, m.ID, "anna@example.com"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := env.macroareas.Get(ctx, m.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := env.macroareas.Delete(ctx, m.ID, "anna@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}

	logs := env.auditFor(t, models.EntityMacroarea, m.ID)
	if len(logs) != 2 || logs[0].Action != models.ActionDeleted {
		t.Fatalf("unexpected audit trail %+v", logs)
	}
	if logs[0].OldValue == nil || logs[0].NewValue != nil {
		t.Fatal("delete audit must carry only the old value")
	}
}

func TestMacroareaStats(t *testing.T) {
	env := newTestEnv(t)
	a := env.macroarea(t, "Preventivi", "p1", "p2", "p3", "p4")
	b := env.macroarea(t, "Consensi", "c1", "c2")
	env.test(t, "T1", "simone@example.com", a)
	env.test(t, "T2", "simone@example.com", a, b)

	stats, err := env.macroareas.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(stats))
	}
	if stats[0].Macroarea.ID != a.ID || stats[0].TestsCount != 2 || stats[0].TasksCount != 4 {
		t.Fatalf("unexpected stats for %s: %+v", a.Name, stats[0])
	}
	if stats[1].TestsCount != 1 || stats[1].TasksCount != 2 {
		t.Fatalf("unexpected stats for %s: %+v", b.Name, stats[1])
	}
}
