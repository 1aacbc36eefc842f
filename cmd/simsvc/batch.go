package main

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"cardclash/internal/combat"
)

type share struct {
	Total int     `json:"total"`
	Ratio float64 `json:"ratio"`
}

type summary struct {
	Runs          int              `json:"runs"`
	BaseSeed      int64            `json:"base_seed"`
	Wins          int              `json:"wins"`
	Draws         int              `json:"draws"`
	Losses        int              `json:"losses"`
	WinRate       float64          `json:"win_rate"`
	DrawRate      float64          `json:"draw_rate"`
	AvgDurationMS float64          `json:"avg_duration_ms"`
	Timeouts      int              `json:"timeouts"`
	TotalDamage   int              `json:"total_damage"`
	ByCard        map[string]share `json:"by_card"`
	TopCards      []string         `json:"top_cards"`
}

type tally struct {
	mu       sync.Mutex
	runs     int
	wins     int
	draws    int
	losses   int
	timeouts int
	sumT     int
	byCard   map[string]int
}

func (t *tally) add(res combat.SimResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runs++
	switch res.Winner {
	case combat.WinnerPlayer:
		t.wins++
	case combat.WinnerOpponent:
		t.losses++
	default:
		t.draws++
	}
	if n := len(res.Log); n > 0 && res.Log[n-1].Kind == combat.EventTimeout {
		t.timeouts++
	}
	t.sumT += res.DurationMS
	for k, v := range res.DamageByCard {
		t.byCard[k] += v
	}
}

func (t *tally) summary(base int64) summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := summary{
		Runs:     t.runs,
		BaseSeed: base,
		Wins:     t.wins,
		Draws:    t.draws,
		Losses:   t.losses,
		Timeouts: t.timeouts,
		ByCard:   map[string]share{},
	}
	if t.runs == 0 {
		return s
	}
	n := float64(t.runs)
	s.WinRate = float64(t.wins) / n
	s.DrawRate = float64(t.draws) / n
	s.AvgDurationMS = float64(t.sumT) / n
	for _, v := range t.byCard {
		s.TotalDamage += v
	}
	for k, v := range t.byCard {
		ratio := 0.0
		if s.TotalDamage > 0 {
			ratio = float64(v) / float64(s.TotalDamage)
		}
		s.ByCard[k] = share{Total: v, Ratio: ratio}
		s.TopCards = append(s.TopCards, k)
	}
	sort.Slice(s.TopCards, func(i, j int) bool {
		a, b := t.byCard[s.TopCards[i]], t.byCard[s.TopCards[j]]
		if a != b {
			return a > b
		}
		return s.TopCards[i] < s.TopCards[j]
	})
	return s
}

// runBatch plays n battles with seeds base, base+1, ... on a bounded pool.
func runBatch(ctx context.Context, eng *combat.Engine, in combat.SimInput, seed int64, n, workers int) (summary, error) {
	base := batchSeed(seed)
	if workers <= 0 {
		workers = 1
	}
	t := &tally{byCard: map[string]int{}}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		s := base + int64(i)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			run := in
			run.Seed = &s
			t.add(eng.Simulate(run))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary{}, err
	}
	return t.summary(base), nil
}
