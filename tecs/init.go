package tecs

// initializeStates implements spec.md §4.10. It is called at the top of
// every UpdatePitchThrottle, before any other stage, with dt already
// computed from the pitch-update clock.
func (c *Controller) initializeStates(pitch, throttleTrim, baroAltitude, pitchMinClimbout, eas2tas float64) {
	s := &c.state

	if s.pitchUpdateTS == 0 || s.dt > dtMax || !s.statesInitialized {
		s.vertVelState = 0
		s.vertPosState = baroAltitude
		s.tasRateState = 0
		s.tasState = c.eas * eas2tas
		s.lastThrottleSetpoint = throttleTrim
		s.lastPitchSetpoint = clampf(pitch, s.pitchSetpointMin, s.pitchSetpointMax)
		s.pitchSetpointUnc = s.lastPitchSetpoint
		s.tasSetpoint = c.eas * eas2tas
		s.tasSetpointAdj = s.tasSetpoint
		s.uncommandedDescentRecovery = false
		s.steRateError = 0
		s.hgtSetpoint = baroAltitude

		s.resetIntegrals()

		if s.dt > dtMax || s.dt < dtMin {
			s.dt = dtDefault
		}

		s.resetTrajectoryGenerators(baroAltitude)

	} else if s.climboutModeActive {
		s.pitchSetpointMin = pitchMinClimbout
		s.throttleSetpointMin = s.throttleSetpointMax - 0.01

		s.tasSetpoint = c.eas * eas2tas
		s.tasSetpointAdj = c.eas * eas2tas

		s.hgtSetpoint = baroAltitude

		s.uncommandedDescentRecovery = false
	}

	// Filter specific energy rate error using a first order filter with the
	// configured time constant (refreshed at every init, as in the original).
	s.steRateErrorFilter.setParameters(dtDefault, c.cfg.STERateTimeConst)
	s.steRateErrorFilter.reset(0)

	s.tasRateFilter.setParameters(dtDefault, c.cfg.SpeedDerivativeTimeConst)
	s.tasRateFilter.reset(0)

	s.statesInitialized = true
}

func (s *state) resetIntegrals() {
	s.throttleIntegState = 0
	s.pitchIntegState = 0
}

func (s *state) resetTrajectoryGenerators(baroAltitude float64) {
	s.altTrajGenerator.reset(baroAltitude)
	s.velTrajGenerator.reset(0, 0, baroAltitude)
}

// updateTrajectoryGenerationConstraints implements spec.md §4.3's constraint
// wiring, called every tick after the initializer.
func (c *Controller) updateTrajectoryGenerationConstraints() {
	s := &c.state

	s.altTrajGenerator.setMaxJerk(c.cfg.JerkMax)
	s.altTrajGenerator.setMaxAccel(c.cfg.VertAccelLimit)
	s.altTrajGenerator.setMaxVel(maxf(c.cfg.MaxClimbRate, c.cfg.MaxSinkRate))

	s.velTrajGenerator.setMaxJerk(c.cfg.JerkMax)
	s.velTrajGenerator.setMaxAccelUp(c.cfg.VertAccelLimit)
	s.velTrajGenerator.setMaxAccelDown(c.cfg.VertAccelLimit)
	// Convention swap is intentional: fixed-wing climb-rate limits braking
	// from a sink, sink-rate limits braking from a climb (spec.md §4.3).
	s.velTrajGenerator.setMaxVelUp(c.cfg.MaxSinkRate)
	s.velTrajGenerator.setMaxVelDown(c.cfg.MaxClimbRate)
}
