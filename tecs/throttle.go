package tecs

import "math"

// throttleLaw implements spec.md §4.8. It reads the previously-computed
// energy rates/setpoints and publishes state.lastThrottleSetpoint.
func (c *Controller) throttleLaw() {
	s := &c.state

	s.steRateSetpoint = s.speRateSetpoint + s.skeRateSetpoint

	s.steRateErrorFilter.update(-s.speRate - s.skeRate + s.speRateSetpoint + s.skeRateSetpoint)
	s.steRateError = s.steRateErrorFilter.getState()

	// Turn compensation: induced drag scales linearly with normal load factor.
	s.steRateSetpoint += c.cfg.LoadFactorCorrection * (c.loadFactor - 1)

	s.steRateSetpoint = clampf(s.steRateSetpoint, s.steRateMin, s.steRateMax)

	var throttlePredicted float64
	if s.steRateSetpoint >= 0 {
		throttlePredicted = s.throttleTrim + s.steRateSetpoint/s.steRateMax*(s.throttleSetpointMax-s.throttleTrim)
	} else {
		throttlePredicted = s.throttleTrim + s.steRateSetpoint/s.steRateMin*(s.throttleSetpointMin-s.throttleTrim)
	}

	steRateToThrottle := 1.0 / (s.steRateMax - s.steRateMin)

	throttleSetpoint := (s.steRateError*c.cfg.ThrottleDampingGain)*steRateToThrottle + throttlePredicted
	throttleSetpoint = clampf(throttleSetpoint, s.throttleSetpointMin, s.throttleSetpointMax)

	if c.airspeedSensorEnabled {
		if c.cfg.IntegratorGainThrottle > 0 {
			integStateMax := s.throttleSetpointMax - throttleSetpoint
			integStateMin := s.throttleSetpointMin - throttleSetpoint

			throttleIntegInput := (s.steRateError * c.cfg.IntegratorGainThrottle) * s.dt *
				steRateToThrottle * (1 - s.percentUndersped)

			// Anti-windup: only allow propagation in the direction that
			// unsaturates throttle.
			if s.throttleIntegState > integStateMax {
				throttleIntegInput = minf(0, throttleIntegInput)
			} else if s.throttleIntegState < integStateMin {
				throttleIntegInput = maxf(0, throttleIntegInput)
			}

			s.throttleIntegState += throttleIntegInput

			if s.climboutModeActive {
				// Forced value overrides the clamped input above
				// (spec.md §9 ordering note).
				s.throttleIntegState = integStateMax
			}
		} else {
			s.throttleIntegState = 0
		}
	}

	if c.airspeedSensorEnabled {
		throttleSetpoint += s.throttleIntegState
	} else {
		throttleSetpoint = throttlePredicted
	}

	throttleSetpoint = s.percentUndersped*s.throttleSetpointMax + (1-s.percentUndersped)*throttleSetpoint

	if math.Abs(c.cfg.ThrottleSlewRate) > 0.01 {
		throttleIncrementLimit := s.dt * (s.throttleSetpointMax - s.throttleSetpointMin) * c.cfg.ThrottleSlewRate
		throttleSetpoint = clampf(throttleSetpoint,
			s.lastThrottleSetpoint-throttleIncrementLimit,
			s.lastThrottleSetpoint+throttleIncrementLimit)
	}

	s.lastThrottleSetpoint = clampf(throttleSetpoint, s.throttleSetpointMin, s.throttleSetpointMax)
}
