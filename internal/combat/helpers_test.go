package combat

import "testing"

// fixedRand replays vals in a loop.
type fixedRand struct {
	vals []float64
	i    int
}

func (f *fixedRand) Float64() float64 {
	v := f.vals[f.i%len(f.vals)]
	f.i++
	return v
}

func (f *fixedRand) Intn(n int) int {
	v := int(f.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

func always(v float64) *fixedRand { return &fixedRand{vals: []float64{v}} }

func testEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := defaultEngine()
	if err != nil {
		t.Fatalf("default engine: %v", err)
	}
	return e
}

func card(id string, atk, hp int, skills ...string) *Card {
	return &Card{ID: id, Name: id, Attack: atk, HP: hp, MaxHP: hp, Rarity: Common, Skills: skills}
}

func seed(v int64) *int64 { return &v }
