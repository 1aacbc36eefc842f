package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"cardclash/internal/anticheat"
	"cardclash/internal/combat"
	"cardclash/internal/ledger"
)

func sampleOptions(t *testing.T) options {
	return options{
		player:    "../../assets/decks/starter.yaml",
		opponent:  "../../assets/decks/rival.yaml",
		ownership: "../../assets/ownership.yaml",
		playerID:  "local",
		out:       filepath.Join(t.TempDir(), "out.json"),
		validate:  true,
		saveLog:   true,
		n:         1,
		workers:   2,
	}
}

func TestLoadInputSampleDecks(t *testing.T) {
	eng, err := loadEngine("")
	if err != nil {
		t.Fatalf("loadEngine: %v", err)
	}
	in, err := loadInput(context.Background(), eng, sampleOptions(t), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("loadInput: %v", err)
	}
	if in.Player.Count() != 5 || in.Opponent.Count() != 5 {
		t.Fatalf("counts = %d/%d, want 5/5", in.Player.Count(), in.Opponent.Count())
	}
	if in.Player.Front[2] != nil {
		t.Fatal("null slot should stay empty")
	}
}

func TestLoadInputForged(t *testing.T) {
	eng, _ := loadEngine("")
	o := sampleOptions(t)
	o.player = "../../assets/decks/forged.yaml"
	o.forge = true
	in, err := loadInput(context.Background(), eng, o, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("loadInput: %v", err)
	}
	c := in.Player.Front[0]
	if c == nil || c.Attack <= 0 || c.HP <= 0 || c.PlaytimeMinutes != 2400 {
		t.Fatalf("forged card = %+v", c)
	}

	o.forge = false
	if _, err := loadInput(context.Background(), eng, o, zaptest.NewLogger(t)); err == nil {
		t.Fatal("unforged zero-stat cards should not validate as a playable deck")
	}
}

func TestLoadInputRejectsUnownedCards(t *testing.T) {
	eng, _ := loadEngine("")
	o := sampleOptions(t)
	o.player = o.opponent
	_, err := loadInput(context.Background(), eng, o, zaptest.NewLogger(t))
	if !errors.Is(err, anticheat.ErrNotOwned) {
		t.Fatalf("expected ErrNotOwned, got %v", err)
	}
}

func TestRunSingleRecordsToLedger(t *testing.T) {
	dir := t.TempDir()
	o := sampleOptions(t)
	o.ledger = filepath.Join(dir, "ledger.db")
	o.seed = 42
	log := zaptest.NewLogger(t)

	if err := run(context.Background(), o, log); err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := os.ReadFile(o.out)
	if err != nil {
		t.Fatalf("read out: %v", err)
	}
	var res combat.SimResult
	if err := json.Unmarshal(b, &res); err != nil {
		t.Fatalf("decode out: %v", err)
	}
	if res.Seed != 42 || len(res.Log) == 0 {
		t.Fatalf("unexpected result: seed=%d log=%d", res.Seed, len(res.Log))
	}

	store, err := ledger.Open(o.ledger, log)
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	defer store.Close()
	recs, err := store.Recent(context.Background(), "local", 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != 1 || recs[0].Seed != 42 || recs[0].Winner != res.Winner {
		t.Fatalf("ledger records = %+v", recs)
	}
}

func TestRunHistoryNeedsLedger(t *testing.T) {
	o := sampleOptions(t)
	o.history = 3
	if err := run(context.Background(), o, zaptest.NewLogger(t)); err == nil {
		t.Fatal("expected error")
	}
}
