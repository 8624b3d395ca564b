package tecs

import "math"

const sqrt2 = 1.4142135623730951

// UpdateVehicleStateEstimates implements spec.md §4.1's first entry point.
// The host calls this whenever new estimator data is available, prior to
// the main UpdatePitchThrottle step. now is the monotonic microsecond clock
// reading (§6 "Clock").
func (c *Controller) UpdateVehicleStateEstimates(now uint64, eas, accelFwd float64, altitudeLocked bool, altitude, vz float64) {
	s := &c.state

	var dt float64
	if s.stateUpdateTS == 0 {
		dt = dtMin
	} else {
		dt = math.Max(float64(now-s.stateUpdateTS)*1e-6, dtMin)
	}

	resetAltitude := false
	if s.stateUpdateTS == 0 || dt > dtMax {
		dt = dtDefault
		resetAltitude = true
	}
	if !altitudeLocked {
		resetAltitude = true
	}
	if resetAltitude {
		s.statesInitialized = false
	}

	s.stateUpdateTS = now
	c.eas = eas

	// Convention: vz positive down, altitude positive up.
	s.vertVelState = -vz
	s.vertPosState = altitude

	if isFinite(eas) && c.airspeedSensorEnabled {
		s.tasRateRaw = accelFwd
		s.tasRateFilter.update(accelFwd)
		s.tasRateFiltered = s.tasRateFilter.getState()
	} else {
		s.tasRateRaw = 0
		s.tasRateFiltered = 0
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// updateSpeedStates implements the second-order complementary TAS filter of
// spec.md §4.2, driven by now (monotonic microseconds).
func (c *Controller) updateSpeedStates(now uint64, easSetpoint, eas, eas2tas float64) {
	s := &c.state

	var dt float64
	if s.speedUpdateTS == 0 {
		dt = dtMin
	} else {
		dt = clampf(float64(now-s.speedUpdateTS)*1e-6, dtMin, dtMax)
	}

	s.easSetpoint = easSetpoint
	s.tasSetpoint = s.easSetpoint * eas2tas
	s.tasMax = c.cfg.EquivalentAirspeedMax * eas2tas
	s.tasMin = c.cfg.EquivalentAirspeedMin * eas2tas

	if !isFinite(eas) || !c.airspeedSensorEnabled {
		c.eas = c.cfg.EquivalentAirspeedTrim
	} else {
		c.eas = eas
	}

	if s.speedUpdateTS == 0 {
		s.tasRateState = 0
		s.tasState = c.eas * eas2tas
	}

	// Second-order complementary filter: nu = EAS*EAS2TAS - tas_state.
	s.tasInnov = c.eas*eas2tas - s.tasState
	omega := c.cfg.TASEstimateFreq

	tasRateStateInput := s.tasInnov * omega * omega
	s.tasRateState += tasRateStateInput * dt

	tasStateInput := s.tasRateState + s.tasRateRaw + s.tasInnov*omega*sqrt2
	newTASState := s.tasState + tasStateInput*dt

	if newTASState < 0 {
		tasStateInput = -s.tasState / dt
		s.tasRateState = tasStateInput - s.tasRateRaw - s.tasInnov*omega*sqrt2
		s.tasState = 0
	} else {
		s.tasState = newTASState
	}

	s.speedUpdateTS = now
}

// updateSpeedSetpoint implements spec.md §4.7.
func (c *Controller) updateSpeedSetpoint() {
	s := &c.state

	if s.uncommandedDescentRecovery {
		s.tasSetpoint = s.tasMin
	} else if s.percentUndersped > epsilon {
		s.tasSetpoint = s.tasMin*s.percentUndersped + (1-s.percentUndersped)*s.tasSetpoint
	}

	s.tasSetpoint = clampf(s.tasSetpoint, s.tasMin, s.tasMax)

	maxTASRateSP := 0.5 * s.steRateMax / maxf(s.tasState, epsilon)
	minTASRateSP := 0.5 * s.steRateMin / maxf(s.tasState, epsilon)

	s.tasSetpointAdj = clampf(s.tasSetpoint, s.tasMin, s.tasMax)

	if c.airspeedSensorEnabled {
		s.tasRateSetpoint = clampf((s.tasSetpointAdj-s.tasState)*c.cfg.AirspeedErrorGain, minTASRateSP, maxTASRateSP)
	} else {
		s.tasRateSetpoint = 0
	}
}

// epsilon mirrors FLT_EPSILON's role as a division guard in the original;
// float64's machine epsilon is tighter but serves the same purpose here.
const epsilon = 1.1920929e-7
