// Package ledger is an in-memory stand-in for the reputation, bounty,
// currency and heat bookkeeping that the agents consult. All values are
// clamped: infamy and heat to [0,100], bounties and currency to >= 0.
package ledger

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/dustin/go-humanize"
)

// MaxHeat and MaxInfamy bound the two reputation scalars.
const (
	MaxHeat   = 100.0
	MaxInfamy = 100.0
)

// HeatEntry records one heat change.
type HeatEntry struct {
	Amount float64 `json:"amount"`
	Source string  `json:"source"`
}

// Ledger holds the player's standing. It is safe for concurrent use so the
// API can read it while the simulation writes.
type Ledger struct {
	mu       sync.RWMutex
	infamy   float64
	heat     float64
	currency int
	bounties map[string]int
	history  []HeatEntry
}

// New creates a ledger with the given starting infamy and currency.
func New(infamy float64, currency int) *Ledger {
	return &Ledger{
		infamy:   clamp(infamy, 0, MaxInfamy),
		currency: max(0, currency),
		bounties: make(map[string]int),
	}
}

func (l *Ledger) Infamy() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.infamy
}

// SetInfamy sets infamy, clamped to [0,100].
func (l *Ledger) SetInfamy(v float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infamy = clamp(v, 0, MaxInfamy)
}

func (l *Ledger) Bounty(location string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.bounties[location]
}

// SetBounty sets a location's outstanding bounty. Zero or negative clears it.
func (l *Ledger) SetBounty(location string, amount int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if amount <= 0 {
		delete(l.bounties, location)
		return
	}
	l.bounties[location] = amount
}

// AddBounty raises a location's bounty by amount.
func (l *Ledger) AddBounty(location string, amount int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if v := l.bounties[location] + amount; v > 0 {
		l.bounties[location] = v
	} else {
		delete(l.bounties, location)
	}
	slog.Debug("bounty changed", "location", location, "bounty", humanize.Comma(int64(l.bounties[location])))
}

// Bounties returns a copy of all outstanding bounties.
func (l *Ledger) Bounties() map[string]int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]int, len(l.bounties))
	for k, v := range l.bounties {
		out[k] = v
	}
	return out
}

// Locations returns the locations with an outstanding bounty, sorted.
func (l *Ledger) Locations() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.bounties))
	for k := range l.bounties {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (l *Ledger) Currency() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.currency
}

// SetCurrency sets the balance, never below zero.
func (l *Ledger) SetCurrency(amount int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.currency = max(0, amount)
}

// AddHeat raises (or with a negative amount lowers) heat, clamped to [0,100].
func (l *Ledger) AddHeat(amount float64, source string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.heat = clamp(l.heat+amount, 0, MaxHeat)
	l.history = append(l.history, HeatEntry{Amount: amount, Source: source})
}

func (l *Ledger) Heat() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.heat
}

// HeatHistory returns every recorded heat change in order.
func (l *Ledger) HeatHistory() []HeatEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]HeatEntry, len(l.history))
	copy(out, l.history)
	return out
}

// Snapshot is a point-in-time copy of the ledger.
type Snapshot struct {
	Infamy   float64        `json:"infamy"`
	Heat     float64        `json:"heat"`
	Currency int            `json:"currency"`
	Bounties map[string]int `json:"bounties"`
}

// Snapshot returns the current standing.
func (l *Ledger) Snapshot() Snapshot {
	bounties := l.Bounties()
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Snapshot{Infamy: l.infamy, Heat: l.heat, Currency: l.currency, Bounties: bounties}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
