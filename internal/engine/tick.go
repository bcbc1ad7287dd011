// Package engine provides the frame-stepped simulation loop and the driver
// that advances every agent in a documented order.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is one frame at roughly 60 frames per second.
const DefaultInterval = 16 * time.Millisecond

// Engine drives the simulation forward one fixed-delta frame at a time.
// Simulated time per frame is always Interval; Speed only scales how long
// the loop sleeps between frames.
type Engine struct {
	Frame     uint64        // Current frame counter (monotonic)
	Speed     float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval  time.Duration // Simulated time per frame
	MaxFrames uint64        // Stop after this many frames; 0 = unbounded

	// OnFrame runs once per frame with the frame number and delta in milliseconds.
	OnFrame func(frame uint64, deltaMS float64)

	mu      sync.Mutex
	running bool
}

// NewEngine creates an engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Speed:    1.0,
		Interval: DefaultInterval,
	}
}

// Run starts the loop. Blocks until Stop is called or MaxFrames is reached.
func (e *Engine) Run() {
	e.setRunning(true)
	slog.Info("simulation engine started", "frame", e.Frame, "speed", e.Speed, "interval", e.Interval)

	for e.Running() {
		speed := e.GetSpeed()
		if speed <= 0 {
			// Paused: sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()
		if !e.Step() {
			break
		}

		// Sleep for the remainder of the frame interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	e.setRunning(false)
	slog.Info("simulation engine stopped", "frame", e.Frame)
}

// Step advances exactly one frame. It returns false once MaxFrames is reached.
func (e *Engine) Step() bool {
	if e.MaxFrames > 0 && e.Frame >= e.MaxFrames {
		return false
	}
	e.Frame++
	if e.OnFrame != nil {
		e.OnFrame(e.Frame, float64(e.Interval)/float64(time.Millisecond))
	}
	return true
}

// Stop halts the loop after the current frame.
func (e *Engine) Stop() {
	e.setRunning(false)
}

// Running reports whether Run is looping.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// SetSpeed changes the pacing multiplier.
func (e *Engine) SetSpeed(speed float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Speed = speed
}

// GetSpeed returns the pacing multiplier.
func (e *Engine) GetSpeed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Speed
}

func (e *Engine) setRunning(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = v
}

// SimTime renders a frame count as elapsed simulated time, e.g. "2m05.3s".
func SimTime(frame uint64, interval time.Duration) string {
	d := time.Duration(frame) * interval
	minutes := int(d / time.Minute)
	seconds := (d % time.Minute).Seconds()
	return fmt.Sprintf("%dm%04.1fs", minutes, seconds)
}
