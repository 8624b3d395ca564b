package tecs

import "math"

// runAltitudeControllerSmoothVelocity implements spec.md §4.3's altitude
// generator: it computes the maximum signed velocity that still permits
// braking to zero by altSP, clamps it to the target climb/sink rates, and
// steps the jerk-limited S-curve by one dt.
func (c *Controller) runAltitudeControllerSmoothVelocity(altSP, targetClimbRate, targetSinkRate, baroAltitude float64) {
	s := &c.state

	targetClimbRate = minf(targetClimbRate, c.cfg.MaxClimbRate)
	targetSinkRate = minf(targetSinkRate, c.cfg.MaxSinkRate)

	deltaToTarget := altSP - s.altTrajGenerator.getCurrentPosition()

	heightRateTarget := signNoZero(deltaToTarget) *
		computeMaxSpeedFromDistance(c.cfg.JerkMax, c.cfg.VertAccelLimit, math.Abs(deltaToTarget))

	heightRateTarget = clampf(heightRateTarget, -targetSinkRate, targetClimbRate)

	s.altTrajGenerator.updateDurations(heightRateTarget)
	s.altTrajGenerator.updateTraj(s.dt)

	s.hgtSetpoint = s.altTrajGenerator.getCurrentPosition()
	s.hgtRateSetpoint = (s.hgtSetpoint-baroAltitude)*c.cfg.HeightErrorGain +
		c.cfg.HeightSetpointGainFF*s.altTrajGenerator.getCurrentVelocity()
	s.hgtRateSetpoint = clampf(s.hgtRateSetpoint, -c.cfg.MaxSinkRate, c.cfg.MaxClimbRate)
}

// calculateHeightRateSetpoint implements spec.md §4.3's dispatch between the
// velocity generator and the altitude generator, and spec.md §4.1 step 11.
func (c *Controller) calculateHeightRateSetpoint(altSP, heightRateSP, targetClimbRate, targetSinkRate, baroAltitude float64) {
	s := &c.state

	controlAltitude := true
	inputIsHeightRate := isFinite(heightRateSP)

	s.velTrajGenerator.setVelSpFeedback(s.hgtRateSetpoint)

	if inputIsHeightRate {
		s.velTrajGenerator.setCurrentPositionEstimate(baroAltitude)
		s.velTrajGenerator.update(s.dt, heightRateSP)
		s.hgtRateSetpoint = s.velTrajGenerator.getCurrentVelocity()
		altSP = s.velTrajGenerator.getCurrentPosition()
		controlAltitude = isFinite(altSP)
	} else {
		s.velTrajGenerator.reset(0, s.hgtRateSetpoint, s.hgtSetpoint)
	}

	if controlAltitude {
		c.runAltitudeControllerSmoothVelocity(altSP, targetClimbRate, targetSinkRate, baroAltitude)
	} else {
		s.altTrajGenerator.setCurrentVelocity(s.hgtRateSetpoint)
		s.altTrajGenerator.setCurrentPosition(baroAltitude)
		s.hgtSetpoint = baroAltitude
	}
}
