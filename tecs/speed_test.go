package tecs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateSpeedStates_FirstCallInitializesFromMeasuredEAS(t *testing.T) {
	// GIVEN a fresh controller
	c := NewController(testConfig())

	// WHEN the first speed-state update runs
	c.updateSpeedStates(20000, 18, 18, 1.0)

	// THEN tasState starts at the measured TAS, not ramped from zero
	assert.Equal(t, 18.0, c.state.tasState)
	assert.Equal(t, 0.0, c.state.tasRateState)
}

func TestUpdateSpeedStates_SensorDisabledLocksToTrim(t *testing.T) {
	// GIVEN airspeed sensing disabled
	c := NewController(testConfig())
	c.SetAirspeedEnabled(false)

	// WHEN updated with a NaN measured EAS
	c.updateSpeedStates(20000, 18, math.NaN(), 1.0)

	// THEN the controller substitutes the configured trim airspeed
	assert.Equal(t, c.cfg.EquivalentAirspeedTrim, c.eas)
}

func TestUpdateSpeedStates_NeverGoesNegative(t *testing.T) {
	// GIVEN a controller whose filter state is already near zero and a
	// large downward innovation
	c := NewController(testConfig())
	c.state.speedUpdateTS = 20000
	c.state.tasState = 0.5
	c.state.tasRateState = 0
	c.state.tasRateRaw = -1000

	// WHEN stepped forward with a much lower commanded TAS
	c.updateSpeedStates(40000, 0, 0.1, 1.0)

	// THEN tasState clips at zero rather than going negative
	assert.GreaterOrEqual(t, c.state.tasState, 0.0)
}

func TestUpdateSpeedSetpoint_UncommandedDescentForcesMinimumTAS(t *testing.T) {
	// GIVEN a controller latched into bad-descent recovery
	c := NewController(testConfig())
	c.state.uncommandedDescentRecovery = true
	c.state.tasMin = 12
	c.state.tasMax = 35
	c.state.tasSetpoint = 25
	c.state.tasState = 18
	c.state.steRateMax = 10
	c.state.steRateMin = -10

	// WHEN the setpoint is resolved
	c.updateSpeedSetpoint()

	// THEN the setpoint is pulled down to the minimum, not left at 25
	assert.Equal(t, 12.0, c.state.tasSetpointAdj)
}

func TestUpdateSpeedSetpoint_ClampsToConfiguredRange(t *testing.T) {
	// GIVEN a controller commanded well outside [tasMin, tasMax]
	c := NewController(testConfig())
	c.state.tasMin = 12
	c.state.tasMax = 35
	c.state.tasSetpoint = 1000
	c.state.tasState = 18
	c.state.steRateMax = 10
	c.state.steRateMin = -10

	// WHEN the setpoint is resolved
	c.updateSpeedSetpoint()

	// THEN it clamps to the configured maximum
	assert.Equal(t, 35.0, c.state.tasSetpointAdj)
}
