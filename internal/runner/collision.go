package runner

import "github.com/vovakirdan/lane-runner/internal/core"

// Broad-phase collision helpers. The caller computes the player box once
// and runs the phases in order: coins, pickups, then obstacles. Each phase
// borrows the owner's slice and mutates it in place.

// collectCoins marks every uncollected coin overlapping box as collected
// and calls fn with it.
func collectCoins(box core.AABB, coins []Coin, fn func(*Coin)) {
	for i := range coins {
		c := &coins[i]
		if c.Collected || !box.Intersects(c.Box()) {
			continue
		}
		c.Collected = true
		fn(c)
	}
}

// collectPickups marks every uncollected pickup overlapping box as
// collected and calls fn with it.
func collectPickups(box core.AABB, pickups []Pickup, fn func(*Pickup)) {
	for i := range pickups {
		p := &pickups[i]
		if p.Collected || !box.Intersects(p.Box()) {
			continue
		}
		p.Collected = true
		fn(p)
	}
}

// firstObstacleHit returns the index of the first obstacle overlapping box.
func firstObstacleHit(box core.AABB, obstacles []Obstacle) (int, bool) {
	for i := range obstacles {
		if box.Intersects(obstacles[i].Box()) {
			return i, true
		}
	}
	return -1, false
}
