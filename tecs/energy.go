package tecs

// updateSTERateLimits implements spec.md §4.1 step 6.
func (c *Controller) updateSTERateLimits() {
	s := &c.state
	s.steRateMax = maxf(c.cfg.MaxClimbRate, epsilon) * gravityMPS2
	s.steRateMin = -maxf(c.cfg.MinSinkRate, epsilon) * gravityMPS2
}

// detectUnderspeed implements spec.md §4.4's underspeed ramp.
func (c *Controller) detectUnderspeed() {
	s := &c.state

	if !c.cfg.DetectUnderspeedEnabled {
		s.percentUndersped = 0
		return
	}

	tasErrorBound := kTASErrorPercentage * c.cfg.EquivalentAirspeedTrim
	tasUnderspeedSoftBound := kTASErrorPercentage * c.cfg.EquivalentAirspeedTrim

	tasFullyUndersped := maxf(s.tasMin-tasErrorBound-tasUnderspeedSoftBound, 0)
	tasStartingToUnderspeed := maxf(s.tasMin-tasErrorBound, tasFullyUndersped)

	denom := maxf(tasStartingToUnderspeed-tasFullyUndersped, epsilon)
	s.percentUndersped = 1 - clampf((s.tasState-tasFullyUndersped)/denom, 0, 1)
}

// updateSpeedHeightWeights implements spec.md §4.6.
func (c *Controller) updateSpeedHeightWeights() {
	s := &c.state

	w := clampf(c.cfg.PitchSpeedWeight, 0, 2)

	if s.climboutModeActive && c.airspeedSensorEnabled {
		w = 2
	} else if s.percentUndersped > epsilon && c.airspeedSensorEnabled {
		w = 2*s.percentUndersped + (1-s.percentUndersped)*w
	} else if !c.airspeedSensorEnabled {
		w = 0
	}

	s.speWeighting = clampf(2-w, 0, 1)
	s.skeWeighting = clampf(w, 0, 1)
}

// detectUncommandedDescent implements spec.md §4.4's latched bad-descent
// detector. It reads the *previous* step's energies and throttle, so it
// must run before updateEnergyEstimates recomputes them (spec.md §4.1
// ordering note).
func (c *Controller) detectUncommandedDescent() {
	s := &c.state

	steRate := s.speRate + s.skeRate
	underspeedDetected := s.percentUndersped > epsilon

	enterMode := !s.uncommandedDescentRecovery && !underspeedDetected &&
		s.steError > 200 && steRate < 0 &&
		s.lastThrottleSetpoint >= s.throttleSetpointMax*0.9

	exitMode := s.uncommandedDescentRecovery && (underspeedDetected || s.steError < 0)

	if enterMode {
		s.uncommandedDescentRecovery = true
	} else if exitMode {
		s.uncommandedDescentRecovery = false
	}
}

// sebSetpoint implements the Open Question in spec.md §9: the host may
// override the specific energy balance setpoint via
// Controller.SetSEBSetpointOverride; the default matches the original's
// SEB_setpoint() method body.
func (c *Controller) sebSetpoint() float64 {
	if c.sebSetpointOverride != nil {
		return *c.sebSetpointOverride
	}
	s := &c.state
	return s.speSetpoint*s.speWeighting - s.skeSetpoint*s.skeWeighting
}

// updateEnergyEstimates implements spec.md §4.5. It must run after the TAS
// and height setpoints are resolved and must see the *current* tas_state /
// hgt_setpoint (spec.md §4.1 ordering note).
func (c *Controller) updateEnergyEstimates() {
	s := &c.state

	s.speSetpoint = s.hgtSetpoint * gravityMPS2
	s.skeSetpoint = 0.5 * s.tasSetpointAdj * s.tasSetpointAdj

	s.steError = s.speSetpoint - s.speEstimate + s.skeSetpoint - s.skeEstimate

	s.sebError = c.sebSetpoint() - (s.speEstimate*s.speWeighting - s.skeEstimate*s.skeWeighting)

	s.speRateSetpoint = s.hgtRateSetpoint * gravityMPS2
	s.skeRateSetpoint = s.tasState * s.tasRateSetpoint

	s.speEstimate = s.vertPosState * gravityMPS2
	s.skeEstimate = 0.5 * s.tasState * s.tasState

	s.speRate = s.vertVelState * gravityMPS2
	s.skeRate = s.tasState * s.tasRateFiltered
}
