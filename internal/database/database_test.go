package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"gearbot/internal/gear"
)

func openJournal(t *testing.T) *DatabaseManager {
	t.Helper()
	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	h := NewDatabaseManager(db, DriverSQLite, nil)
	t.Cleanup(func() { h.Close() })
	if err := h.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return h
}

func legendWeapon() gear.Item {
	return gear.Item{
		Metadata: gear.Metadata{
			Set:      gear.SetAttack,
			Rarity:   gear.RarityLegend,
			Type:     gear.TypeWeapon,
			Level:    15,
			MainProp: gear.MainAttackFlat,
			Score:    103,
		},
		Properties: gear.Properties{}.
			With(gear.FlatAttack, 515).
			With(gear.AttackPercent, 17).
			With(gear.Speed, 4),
	}
}

func TestSaveAndReadBack(t *testing.T) {
	h := openJournal(t)
	ctx := context.Background()
	cycle := uuid.New()
	raw := map[string]string{"score": "103"}

	rec := NewRecord(cycle, legendWeapon(), gear.Store, "score 103 >= 80", raw)
	id, err := h.SaveDecision(ctx, rec)
	if err != nil {
		t.Fatalf("SaveDecision: %v", err)
	}
	if id <= 0 {
		t.Fatalf("id: got %d", id)
	}

	got, err := h.RecentDecisions(ctx, 10)
	if err != nil {
		t.Fatalf("RecentDecisions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("records: got %d, want 1", len(got))
	}
	r := got[0]
	if r.ID != id || r.CycleID != cycle.String() || r.Decision != "STORE" || r.Set != "ATTACK" || r.Level != 15 {
		t.Errorf("record: got %+v", r)
	}
	// flat atk - основная характеристика, в расчетную оценку не входит
	if r.ComputedScore != 17+2*4 {
		t.Errorf("computed score: got %v, want 25", r.ComputedScore)
	}
	if r.Properties["flat_attack"] != 515 || len(r.Properties) != 3 {
		t.Errorf("properties: got %v", r.Properties)
	}
	if r.Raw["score"] != "103" || r.Reason != "score 103 >= 80" {
		t.Errorf("raw/reason: got %v %q", r.Raw, r.Reason)
	}
	if r.CreatedAt.UnixMilli() != rec.CreatedAt.UnixMilli() {
		t.Errorf("created_at: got %v, want %v", r.CreatedAt, rec.CreatedAt)
	}
}

func TestAsyncSavesAndCounts(t *testing.T) {
	h := openJournal(t)
	ctx := context.Background()
	cycle := uuid.New()

	decisions := []gear.Decision{gear.Sell, gear.Sell, gear.Upgrade, gear.Extract, gear.Sell}
	for _, d := range decisions {
		h.SaveDecisionAsync(NewRecord(cycle, legendWeapon(), d, "", nil))
	}
	h.WaitForAsyncOperations()

	counts, err := h.DecisionCounts(ctx)
	if err != nil {
		t.Fatalf("DecisionCounts: %v", err)
	}
	want := map[string]int{"SELL": 3, "UPGRADE": 1, "EXTRACT": 1}
	if len(counts) != len(want) {
		t.Fatalf("counts: got %v, want %v", counts, want)
	}
	for k, v := range want {
		if counts[k] != v {
			t.Errorf("%s: got %d, want %d", k, counts[k], v)
		}
	}

	recent, err := h.RecentDecisions(ctx, 2)
	if err != nil {
		t.Fatalf("RecentDecisions: %v", err)
	}
	if len(recent) != 2 || recent[0].ID <= recent[1].ID {
		t.Fatalf("recent should be newest first: got %+v", recent)
	}
	if recent[0].Raw != nil {
		t.Errorf("raw: got %v, want nil", recent[0].Raw)
	}
}

func TestUnsupportedDriver(t *testing.T) {
	if _, err := Open("postgres", "whatever"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
	if _, err := schemaFor("oracle"); err == nil {
		t.Fatal("expected error for unsupported dialect")
	}
	if ddl, err := schemaFor(DriverMySQL); err != nil || len(ddl) != 1 {
		t.Fatalf("mysql ddl: %v %v", ddl, err)
	}
}
