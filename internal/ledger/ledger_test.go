package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"cardclash/internal/combat"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "ledger.db"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func battle(seed int64) combat.SimResult {
	var p, o combat.Roster
	p.Front[0] = &combat.Card{ID: "a", Attack: 100, HP: 500, Rarity: combat.Common}
	o.Front[0] = &combat.Card{ID: "b", Attack: 50, HP: 1000, Rarity: combat.Common}
	return combat.Simulate(combat.SimInput{Player: p, Opponent: o, Seed: &seed})
}

func TestSaveAndLoad(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	res := battle(42)

	id, err := s.Save(ctx, "alice", res)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, res) {
		t.Fatal("loaded result differs from saved result")
	}
	if _, err := s.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecent(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	step := 0
	s.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	var ids []string
	for i := int64(0); i < 3; i++ {
		id, err := s.Save(ctx, "alice", battle(i))
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		ids = append(ids, id)
	}
	if _, err := s.Save(ctx, "bob", battle(9)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	recs, err := s.Recent(ctx, "alice", 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	if recs[0].BattleID != ids[2] || recs[1].BattleID != ids[1] {
		t.Fatalf("unexpected order: %+v", recs)
	}
	if recs[0].Seed != 2 || recs[0].Winner != combat.WinnerOpponent || recs[0].PlayerID != "alice" {
		t.Fatalf("unexpected record: %+v", recs[0])
	}
	if !recs[0].CreatedAt.Equal(base.Add(3 * time.Minute)) {
		t.Fatalf("CreatedAt = %v", recs[0].CreatedAt)
	}
}

func TestSaveValidation(t *testing.T) {
	s := openStore(t)
	if _, err := s.Save(context.Background(), " ", battle(1)); err == nil {
		t.Fatal("expected player id error")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Save(ctx, "alice", battle(1)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("", nil); err == nil {
		t.Fatal("expected error")
	}
}
