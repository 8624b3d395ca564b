package tecs

// pitchLaw implements spec.md §4.9, publishing state.lastPitchSetpoint.
func (c *Controller) pitchLaw() {
	s := &c.state

	sebRateSetpoint := s.speRateSetpoint*s.speWeighting - s.skeRateSetpoint*s.skeWeighting
	s.sebRateError = sebRateSetpoint - (s.speRate*s.speWeighting - s.skeRate*s.skeWeighting)

	climbAngleToSEBRate := s.tasState * gravityMPS2

	if c.cfg.IntegratorGainPitch > 0 {
		pitchIntegInput := s.sebRateError * c.cfg.IntegratorGainPitch

		// Anti-windup against the *previous* unclamped setpoint.
		if s.pitchSetpointUnc > s.pitchSetpointMax {
			pitchIntegInput = minf(pitchIntegInput, 0)
		} else if s.pitchSetpointUnc < s.pitchSetpointMin {
			pitchIntegInput = maxf(pitchIntegInput, 0)
		}

		s.pitchIntegState += pitchIntegInput * s.dt
	} else {
		s.pitchIntegState = 0
	}

	sebRateCorrection := s.sebRateError*c.cfg.PitchDampingGain + s.pitchIntegState + c.cfg.SEBRateFF*sebRateSetpoint

	if s.climboutModeActive {
		sebRateCorrection += s.pitchSetpointMin * climbAngleToSEBRate
	}

	s.pitchSetpointUnc = sebRateCorrection / climbAngleToSEBRate

	pitchSetpoint := clampf(s.pitchSetpointUnc, s.pitchSetpointMin, s.pitchSetpointMax)

	// Comply with the vertical acceleration limit via a pitch rate limit.
	// At zero airspeed the increment is unbounded, matching the original.
	pitchIncrement := s.dt * c.cfg.VertAccelLimit / s.tasState
	s.lastPitchSetpoint = clampf(pitchSetpoint, s.lastPitchSetpoint-pitchIncrement, s.lastPitchSetpoint+pitchIncrement)
}
