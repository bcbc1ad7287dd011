package agents

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-town/internal/events"
	"github.com/talgya/mini-town/internal/world"
)

type fakeActor struct {
	pos    world.Vec
	damage int
	hits   int
	vel    world.Vec
}

func (a *fakeActor) Position() world.Vec { return a.pos }
func (a *fakeActor) TakeDamage(n int) { a.damage += n; a.hits++ }
func (a *fakeActor) SetVelocity(v world.Vec) { a.vel = v }

type fakeReputation struct {
	infamy   float64
	bounties map[string]int
	currency int
}

func (r *fakeReputation) Infamy() float64 { return r.infamy }
func (r *fakeReputation) Bounty(loc string) int { return r.bounties[loc] }
func (r *fakeReputation) SetBounty(loc string, n int) { r.bounties[loc] = n }
func (r *fakeReputation) Currency() int { return r.currency }
func (r *fakeReputation) SetCurrency(n int) { r.currency = n }

type heatCall struct {
	amount float64
	source string
}

type fakeHeat struct{ calls []heatCall }

func (h *fakeHeat) AddHeat(amount float64, source string) {
	h.calls = append(h.calls, heatCall{amount, source})
}

// scripted replays fixed Intn and Float64 results, then returns zero.
type scripted struct {
	ints   []int
	floats []float64
}

func (s *scripted) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scripted) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

// junction is a 12x12 town with one four-way crossing in the middle.
var junction = []string{
	".....v^.....",
	".....v^.....",
	".....v^.....",
	".....v^.....",
	".....v^.....",
	"<<<<<++<<<<<",
	">>>>>++>>>>>",
	".....v^.....",
	".....v^.....",
	".....v^.....",
	".....v^.....",
	".....v^.....",
}

func parsedContext(t *testing.T, rows []string, rng world.Rand) *Context {
	t.Helper()
	g, err := world.ParseGrid(rows)
	require.NoError(t, err)
	return NewContext(&world.Town{Grid: g}, rng, newReputation(0), &fakeHeat{}, events.NewQueue(), "town")
}

func generatedContext(t *testing.T, seed int64) *Context {
	t.Helper()
	town, err := world.Generate(world.DefaultGenConfig(), rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return NewContext(town, rand.New(rand.NewSource(seed)), newReputation(0), &fakeHeat{}, events.NewQueue(), "town")
}

func newReputation(infamy float64) *fakeReputation {
	return &fakeReputation{infamy: infamy, bounties: map[string]int{}}
}

func tile(x, y int) world.Vec {
	return world.Point{X: x, Y: y}.Center()
}

func kinds(q *events.Queue) []events.Kind {
	var out []events.Kind
	for _, e := range q.Pending() {
		out = append(out, e.Kind)
	}
	return out
}
