package core

import "time"

// DefaultTickRate is the frame rate used when none is configured.
const DefaultTickRate = 60

// RuntimeConfig describes the host terminal and the frame clock. It belongs
// to the platform layer; the simulation never reads it.
type RuntimeConfig struct {
	ScreenW  int   // Terminal width in cells
	ScreenH  int   // Terminal height in cells
	TickRate int   // Frame callbacks per second
	Seed     int64 // 0 picks a seed from the clock
}

// Normalize fills unset fields: the default tick rate, and a seed taken
// from now when Seed is 0.
func (c RuntimeConfig) Normalize(now time.Time) RuntimeConfig {
	if c.TickRate <= 0 {
		c.TickRate = DefaultTickRate
	}
	if c.Seed == 0 {
		c.Seed = now.UnixNano()
	}
	c.ScreenW, c.ScreenH = Max(c.ScreenW, 0), Max(c.ScreenH, 0)
	return c
}

// FrameDT returns the nominal frame duration in seconds.
func (c RuntimeConfig) FrameDT() float64 {
	return 1 / float64(Max(c.TickRate, 1))
}
