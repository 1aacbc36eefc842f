package main

import (
	"context"
	"reflect"
	"testing"

	"cardclash/internal/combat"
)

func batchInput() combat.SimInput {
	var in combat.SimInput
	in.Player.Front[0] = &combat.Card{ID: "p1", Attack: 120, HP: 600, Rarity: combat.Rare, Skills: []string{"critical", "dodge"}}
	in.Player.Back[1] = &combat.Card{ID: "p2", Attack: 80, HP: 400, Rarity: combat.Common, Skills: []string{"lifesteal"}}
	in.Opponent.Front[2] = &combat.Card{ID: "o1", Attack: 110, HP: 700, Rarity: combat.Uncommon, Skills: []string{"lucky", "armor"}}
	in.Opponent.Back[0] = &combat.Card{ID: "o2", Attack: 90, HP: 350, Rarity: combat.Common, Skills: []string{"reflect"}}
	return in
}

func TestRunBatchCounts(t *testing.T) {
	sum, err := runBatch(context.Background(), combat.Default(), batchInput(), 100, 40, 4)
	if err != nil {
		t.Fatalf("runBatch: %v", err)
	}
	if sum.Runs != 40 {
		t.Fatalf("Runs = %d, want 40", sum.Runs)
	}
	if sum.Wins+sum.Draws+sum.Losses != 40 {
		t.Fatalf("outcomes %d+%d+%d do not add to 40", sum.Wins, sum.Draws, sum.Losses)
	}
	if sum.BaseSeed != 100 {
		t.Errorf("BaseSeed = %d, want 100", sum.BaseSeed)
	}
	if sum.TotalDamage <= 0 || len(sum.TopCards) == 0 {
		t.Fatalf("expected damage totals, got %+v", sum)
	}
	for i := 1; i < len(sum.TopCards); i++ {
		if sum.ByCard[sum.TopCards[i-1]].Total < sum.ByCard[sum.TopCards[i]].Total {
			t.Fatalf("TopCards not sorted: %v", sum.TopCards)
		}
	}
}

func TestRunBatchIndependentOfWorkers(t *testing.T) {
	ctx := context.Background()
	one, err := runBatch(ctx, combat.Default(), batchInput(), 7, 25, 1)
	if err != nil {
		t.Fatalf("runBatch: %v", err)
	}
	many, err := runBatch(ctx, combat.Default(), batchInput(), 7, 25, 8)
	if err != nil {
		t.Fatalf("runBatch: %v", err)
	}
	if !reflect.DeepEqual(one, many) {
		t.Fatalf("summary depends on worker count:\n%+v\n%+v", one, many)
	}
}

func TestRunBatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := runBatch(ctx, combat.Default(), batchInput(), 1, 10, 2); err == nil {
		t.Fatal("expected error from canceled context")
	}
}
