package tecs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeMaxSpeedFromDistance_ReducesToSqrtAccelLimitAsJerkGrowsLarge(t *testing.T) {
	// GIVEN a distance and accel limit, and an extremely large jerk limit
	distance, accel := 20.0, 2.0

	// WHEN computing the max approach speed
	v := computeMaxSpeedFromDistance(1e9, accel, distance)

	// THEN it converges to the pure accel-limited braking speed
	assert.InDelta(t, math.Sqrt(2*accel*distance), v, 1e-3)
}

func TestComputeMaxSpeedFromDistance_ZeroJerkFallsBackToAccelOnly(t *testing.T) {
	// GIVEN a zero jerk limit
	// WHEN computing the max speed over a distance
	v := computeMaxSpeedFromDistance(0, 3.0, 18.0)

	// THEN it uses the pure accel-limited formula directly
	assert.InDelta(t, math.Sqrt(2*3.0*18.0), v, 1e-9)
}

func TestComputeMaxSpeedFromDistance_ZeroDistanceIsZero(t *testing.T) {
	assert.Equal(t, 0.0, computeMaxSpeedFromDistance(8, 3, 0))
}

func TestPositionSmoother_TracksTowardTargetWithoutOvershoot(t *testing.T) {
	// GIVEN a position generator at rest at 100m with climb/sink limits
	var g positionSmoother
	g.setMaxJerk(8)
	g.setMaxAccel(3)
	g.setMaxVel(5)
	g.reset(100)

	// WHEN stepped toward a target 50m above for a long time
	for i := 0; i < 2000; i++ {
		delta := 150 - g.getCurrentPosition()
		target := signNoZero(delta) * computeMaxSpeedFromDistance(8, 3, math.Abs(delta))
		g.updateDurations(clampf(target, -5, 5))
		g.updateTraj(0.02)
	}

	// THEN the generator settles at the target without wild overshoot
	assert.InDelta(t, 150, g.getCurrentPosition(), 1.0)
}

func TestVelocitySmoother_UsesDownLimitsWhenDecelerating(t *testing.T) {
	// GIVEN a velocity generator moving upward at its up-limit
	var g velocitySmoother
	g.setMaxJerk(8)
	g.setMaxAccelUp(3)
	g.setMaxAccelDown(1)
	g.setMaxVelUp(5)
	g.setMaxVelDown(5)
	g.reset(0, 5, 0)

	// WHEN commanded to a lower velocity setpoint
	g.update(0.02, -5)

	// THEN it uses the (tighter) down-direction accel limit, so one step
	// can't move acceleration by more than maxAccelDown in 0.02s terms
	assert.LessOrEqual(t, math.Abs(g.acceleration), 1.0+1e-9)
}

func TestVelocitySmoother_ResetTracksSuppliedState(t *testing.T) {
	// GIVEN a velocity generator
	var g velocitySmoother

	// WHEN reset with explicit accel/vel/position
	g.reset(1.5, 2.5, 10.0)

	// THEN getters reflect the reset state
	assert.Equal(t, 2.5, g.getCurrentVelocity())
	assert.Equal(t, 10.0, g.getCurrentPosition())
}
