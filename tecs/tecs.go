// Package tecs implements the Total Energy Control System core: a
// longitudinal flight controller that jointly regulates airspeed and
// altitude by commanding throttle and pitch. Throttle changes total
// mechanical energy; pitch changes the distribution of that energy between
// speed and height, avoiding a mode-switch between separate climb/speed
// loops.
//
// A Controller is single-threaded, owns all of its state exclusively, and
// must be driven by one goroutine: call UpdateVehicleStateEstimates
// whenever new estimator data arrives, then UpdatePitchThrottle once per
// control tick, in that order.
package tecs

import "math"

// Controller is the TECS core. Its zero value is not ready for use — build
// one with NewController.
type Controller struct {
	cfg   Config
	state state

	eas                   float64
	airspeedSensorEnabled bool
	loadFactor            float64
	sebSetpointOverride   *float64
}

// NewController builds a Controller with the given tuning configuration.
// Airspeed sensing starts enabled and load factor starts neutral (1.0),
// matching the original's default member values (SPEC_FULL.md
// "SUPPLEMENTED FEATURES" #1-#2).
func NewController(cfg Config) *Controller {
	return &Controller{
		cfg:                   cfg,
		airspeedSensorEnabled: true,
		loadFactor:            1.0,
	}
}

// SetConfig replaces the tuning configuration. Safe to call between ticks
// only (spec.md §3: "none during [a step]").
func (c *Controller) SetConfig(cfg Config) { c.cfg = cfg }

// Config returns the current tuning configuration.
func (c *Controller) Config() Config { return c.cfg }

// SetAirspeedEnabled toggles whether airspeed measurements are trusted; see
// spec.md §4.2, §4.6-§4.9 and SPEC_FULL.md "SUPPLEMENTED FEATURES" #2.
func (c *Controller) SetAirspeedEnabled(enabled bool) { c.airspeedSensorEnabled = enabled }

// SetLoadFactor reports the current normal load factor (1/cos(bank)) used
// for turn compensation in the throttle law (spec.md §4.8 step 3). The host
// must call this every tick if it wants turn compensation to track the
// current bank angle; it otherwise remains at its last-set value
// (spec.md §9 Open Question).
func (c *Controller) SetLoadFactor(loadFactor float64) { c.loadFactor = loadFactor }

// SetSEBSetpointOverride overrides the specific energy balance setpoint
// (spec.md §9 Open Question). Pass nil to restore the default formula.
func (c *Controller) SetSEBSetpointOverride(override *float64) { c.sebSetpointOverride = override }

// UpdatePitchThrottle implements spec.md §4.1's main step, in the fixed
// stage order the spec mandates. now is the monotonic microsecond clock
// reading used to derive dt for this tick.
func (c *Controller) UpdatePitchThrottle(
	now uint64,
	pitch, baroAltitude, altSP, easSetpoint, eas, eas2tas float64,
	climbout bool,
	pitchMinClimbout, throttleMin, throttleMax, throttleTrim float64,
	pitchMin, pitchMax float64,
	targetClimbRate, targetSinkRate, heightRateSP float64,
) {
	s := &c.state

	// (1) dt.
	if s.pitchUpdateTS == 0 {
		s.dt = dtMin
	} else {
		s.dt = math.Max(float64(now-s.pitchUpdateTS)*1e-6, dtMin)
	}

	// (2) capture limits from arguments.
	s.throttleSetpointMax = throttleMax
	s.throttleSetpointMin = throttleMin
	s.pitchSetpointMax = pitchMax
	s.pitchSetpointMin = pitchMin
	s.climboutModeActive = climbout
	s.throttleTrim = throttleTrim

	// (3) initializer.
	c.initializeStates(pitch, throttleTrim, baroAltitude, pitchMinClimbout, eas2tas)

	// (4) trajectory-generator constraints.
	c.updateTrajectoryGenerationConstraints()

	// (5) speed-state filter.
	c.updateSpeedStates(now, easSetpoint, eas, eas2tas)

	// (6) STE_rate_min/max.
	c.updateSTERateLimits()

	// (7) underspeed ramp.
	c.detectUnderspeed()

	// (8) weight update.
	c.updateSpeedHeightWeights()

	// (9) uncommanded-descent detector (sees previous step's energies/throttle).
	c.detectUncommandedDescent()

	// (10) TAS setpoint resolution.
	c.updateSpeedSetpoint()

	// (11) height-rate setpoint via trajectory generators.
	c.calculateHeightRateSetpoint(altSP, heightRateSP, targetClimbRate, targetSinkRate, baroAltitude)

	// (12) energy estimates and setpoints.
	c.updateEnergyEstimates()

	// (13) throttle law.
	c.throttleLaw()

	// (14) pitch law.
	c.pitchLaw()

	// Update time stamp.
	s.pitchUpdateTS = now

	// (15) publish tecs_mode. Precedence: UNDERSPEED > BAD_DESCENT > CLIMBOUT > NORMAL.
	switch {
	case s.percentUndersped > epsilon:
		s.tecsMode = ModeUnderspeed
	case s.uncommandedDescentRecovery:
		s.tecsMode = ModeBadDescent
	case s.climboutModeActive:
		s.tecsMode = ModeClimbout
	default:
		s.tecsMode = ModeNormal
	}
}

// Throttle returns the last published throttle setpoint in [throttleMin, throttleMax].
func (c *Controller) Throttle() float64 { return c.state.lastThrottleSetpoint }

// Pitch returns the last published pitch setpoint in [pitchMin, pitchMax] (rad).
func (c *Controller) Pitch() float64 { return c.state.lastPitchSetpoint }

// Mode returns the mode published at the end of the last tick.
func (c *Controller) Mode() Mode { return c.state.tecsMode }

// STEError returns the last specific total energy error (m^2/s^2).
func (c *Controller) STEError() float64 { return c.state.steError }

// SEBError returns the last specific energy balance error (m^2/s^2).
func (c *Controller) SEBError() float64 { return c.state.sebError }

// TASState returns the filtered true airspeed estimate (m/s).
func (c *Controller) TASState() float64 { return c.state.tasState }

// HeightSetpoint returns the current altitude trajectory setpoint (m).
func (c *Controller) HeightSetpoint() float64 { return c.state.hgtSetpoint }

// PercentUndersped returns the current underspeed ramp value in [0,1].
func (c *Controller) PercentUndersped() float64 { return c.state.percentUndersped }

// UncommandedDescentRecovery reports the latched bad-descent flag.
func (c *Controller) UncommandedDescentRecovery() bool { return c.state.uncommandedDescentRecovery }
