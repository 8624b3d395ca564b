package tecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setupThrottleState(c *Controller) {
	c.state.dt = 0.02
	c.state.throttleSetpointMax = 1.0
	c.state.throttleSetpointMin = 0.0
	c.state.throttleTrim = 0.5
	c.state.tasState = 18
	c.updateSTERateLimits()
}

func TestThrottleLaw_PositiveEnergyRateUsesClimbLeg(t *testing.T) {
	// GIVEN a controller demanding positive specific energy rate
	c := NewController(testConfig())
	setupThrottleState(c)
	c.state.speRateSetpoint = 5
	c.state.skeRateSetpoint = 0

	// WHEN the throttle law runs
	c.throttleLaw()

	// THEN throttle moves above trim toward max
	assert.Greater(t, c.state.lastThrottleSetpoint, c.state.throttleTrim)
}

func TestThrottleLaw_NegativeEnergyRateUsesDescentLeg(t *testing.T) {
	// GIVEN a controller demanding negative specific energy rate
	c := NewController(testConfig())
	setupThrottleState(c)
	c.state.speRateSetpoint = -5
	c.state.skeRateSetpoint = 0

	// WHEN the throttle law runs
	c.throttleLaw()

	// THEN throttle moves below trim toward min
	assert.Less(t, c.state.lastThrottleSetpoint, c.state.throttleTrim)
}

func TestThrottleLaw_OutputAlwaysWithinConfiguredBounds(t *testing.T) {
	// GIVEN a controller demanding an extreme energy rate request
	c := NewController(testConfig())
	setupThrottleState(c)
	c.state.speRateSetpoint = 1000
	c.state.skeRateSetpoint = 1000

	// WHEN the throttle law runs
	c.throttleLaw()

	// THEN the output clamps within [min, max] regardless of demand
	assert.GreaterOrEqual(t, c.state.lastThrottleSetpoint, c.state.throttleSetpointMin)
	assert.LessOrEqual(t, c.state.lastThrottleSetpoint, c.state.throttleSetpointMax)
}

func TestThrottleLaw_ClimboutForcesIntegratorToMax(t *testing.T) {
	// GIVEN a controller in climbout mode with the integrator enabled
	c := NewController(testConfig())
	setupThrottleState(c)
	c.state.climboutModeActive = true
	c.state.speRateSetpoint = 0
	c.state.skeRateSetpoint = 0

	// WHEN the throttle law runs
	c.throttleLaw()

	// THEN the integrator is forced to its saturating value, pinning
	// throttle at (or very near) its configured maximum
	assert.InDelta(t, 1.0, c.state.lastThrottleSetpoint, 1e-6)
}

func TestThrottleLaw_UnderspeedBlendsTowardMax(t *testing.T) {
	// GIVEN a controller fully underspeed
	c := NewController(testConfig())
	setupThrottleState(c)
	c.state.percentUndersped = 1.0
	c.state.speRateSetpoint = -5
	c.state.skeRateSetpoint = 0

	// WHEN the throttle law runs
	c.throttleLaw()

	// THEN the underspeed blend overrides the demand toward full throttle
	assert.InDelta(t, 1.0, c.state.lastThrottleSetpoint, 1e-6)
}

func TestThrottleLaw_SlewRateLimitsStepChange(t *testing.T) {
	// GIVEN a controller starting at trim with a tight slew rate
	c := NewController(testConfig())
	setupThrottleState(c)
	c.cfg.ThrottleSlewRate = 0.1 // 10%/s of range
	c.state.lastThrottleSetpoint = 0.5
	c.state.speRateSetpoint = 1000
	c.state.skeRateSetpoint = 1000

	// WHEN the throttle law runs for a single 20ms tick
	c.throttleLaw()

	// THEN the step is bounded by dt * range * slewrate
	limit := c.state.dt * (c.state.throttleSetpointMax - c.state.throttleSetpointMin) * c.cfg.ThrottleSlewRate
	assert.LessOrEqual(t, c.state.lastThrottleSetpoint-0.5, limit+1e-9)
}
