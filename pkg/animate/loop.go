package animate

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrStop ends a frame loop without error when returned by the callback.
var ErrStop = errors.New("animate: stop")

// Frame describes one tick.
type Frame struct {
	Index int     `json:"frame"`
	Time  float64 `json:"time"`  // seconds since the first frame
	Delta float64 `json:"delta"` // seconds since the previous frame
}

// Loop drives a callback at a fixed rate.
type Loop struct {
	FPS int
}

// Run calls fn once per tick until fn returns an error or ctx is done.
// Returning ErrStop ends the loop with a nil error; ctx cancellation
// returns ctx.Err(). Frame times follow the wall clock.
func (l Loop) Run(ctx context.Context, fn func(Frame) error) error {
	if l.FPS <= 0 {
		return fmt.Errorf("animate: fps must be positive, got %d", l.FPS)
	}
	ticker := time.NewTicker(time.Second / time.Duration(l.FPS))
	defer ticker.Stop()

	start := time.Now()
	last := start
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			f := Frame{Index: i, Time: now.Sub(start).Seconds(), Delta: now.Sub(last).Seconds()}
			last = now
			if err := fn(f); err != nil {
				if errors.Is(err, ErrStop) {
					return nil
				}
				return err
			}
		}
	}
}

// Sample calls fn for n frames spaced dt seconds apart, without waiting.
// Frame 0 has Time 0 and Delta 0.
func Sample(n int, dt float64, fn func(Frame) error) error {
	if n < 0 {
		return fmt.Errorf("animate: frame count must not be negative, got %d", n)
	}
	if !(dt > 0) {
		return fmt.Errorf("animate: frame interval must be positive, got %v", dt)
	}
	for i := 0; i < n; i++ {
		f := Frame{Index: i, Time: float64(i) * dt}
		if i > 0 {
			f.Delta = dt
		}
		if err := fn(f); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
	return nil
}
