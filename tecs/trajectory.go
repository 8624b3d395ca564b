package tecs

import "math"

// computeMaxSpeedFromDistance returns the largest speed magnitude that can
// still be bled off to zero over the given distance without exceeding
// maxAccel, accounting for the extra stopping distance consumed while jerk
// ramps acceleration up to and back down from maxAccel. This is a jerk-
// refined braking-distance relation (not a byte-for-byte port of PX4's
// VelocitySmoothing library, which sits outside TECS.cpp and wasn't
// retrieved): solving d = v^2/(2a) + a*v/(2*j) for v >= 0 gives
//
//	v = ( -a^2/j + sqrt((a^2/j)^2 + 8*a*d) ) / 2
//
// which reduces to the pure accel-limited sqrt(2*a*d) as j -> infinity.
func computeMaxSpeedFromDistance(maxJerk, maxAccel, distance float64) float64 {
	distance = math.Abs(distance)
	if distance <= 0 || maxAccel <= 0 {
		return 0
	}
	if maxJerk <= 0 {
		return math.Sqrt(2 * maxAccel * distance)
	}
	k := maxAccel * maxAccel / maxJerk
	disc := k*k + 8*maxAccel*distance
	return (-k + math.Sqrt(disc)) / 2
}

// jerkLimitedApproach advances (velocity, acceleration) by one dt step
// toward targetVelocity, bounding the acceleration magnitude by maxAccel and
// its rate of change by maxJerk. The commanded acceleration is also capped at
// sqrt(2*maxJerk*|velocity error|), so it can be ramped back to zero by the
// time the velocity error closes. This is the shared S-curve integration step
// used by both trajectory generators (spec.md §4.3, §9 "filter objects"
// design note: each generator is a value type owning its own triple, no
// shared mutable borrow).
func jerkLimitedApproach(velocity, acceleration, targetVelocity, maxAccel, maxJerk, dt float64) (newVel, newAccel float64) {
	if dt <= 0 {
		return velocity, acceleration
	}
	velError := targetVelocity - velocity
	desiredAccel := velError / dt
	if maxJerk > 0 {
		brakeAccel := math.Sqrt(2 * maxJerk * math.Abs(velError))
		desiredAccel = clampf(desiredAccel, -brakeAccel, brakeAccel)
	}
	if maxAccel > 0 {
		desiredAccel = clampf(desiredAccel, -maxAccel, maxAccel)
	}
	if maxJerk > 0 {
		maxDeltaAccel := maxJerk * dt
		accelDelta := clampf(desiredAccel-acceleration, -maxDeltaAccel, maxDeltaAccel)
		newAccel = acceleration + accelDelta
	} else {
		newAccel = desiredAccel
	}
	if maxAccel > 0 {
		newAccel = clampf(newAccel, -maxAccel, maxAccel)
	}
	newVel = velocity + newAccel*dt
	return newVel, newAccel
}

// positionSmoother is the jerk-limited, position-controlled altitude
// generator of spec.md §4.3: given a target position it computes the
// maximum signed velocity that still permits braking to zero by the target,
// then integrates an S-curve toward it.
type positionSmoother struct {
	maxJerk  float64
	maxAccel float64
	maxVel   float64

	targetVelocity float64

	position     float64
	velocity     float64
	acceleration float64
}

func (g *positionSmoother) setMaxJerk(v float64)  { g.maxJerk = v }
func (g *positionSmoother) setMaxAccel(v float64) { g.maxAccel = v }
func (g *positionSmoother) setMaxVel(v float64)   { g.maxVel = v }

func (g *positionSmoother) setCurrentPosition(p float64) { g.position = p }
func (g *positionSmoother) setCurrentVelocity(v float64) { g.velocity = v }

func (g *positionSmoother) getCurrentPosition() float64 { return g.position }
func (g *positionSmoother) getCurrentVelocity() float64 { return g.velocity }

// reset clears the generator to a rest state at the given position, as the
// initializer does on every (re)init (spec.md §4.10).
func (g *positionSmoother) reset(position float64) {
	g.position = position
	g.velocity = 0
	g.acceleration = 0
	g.targetVelocity = 0
}

// updateDurations stores the caller's signed target velocity, clamped to the
// generator's configured max velocity. The caller derives it from the
// distance to target and clamps it to the [-sinkrate, climbrate] band
// (spec.md §4.3).
func (g *positionSmoother) updateDurations(heightRateTarget float64) {
	g.targetVelocity = clampf(heightRateTarget, -g.maxVel, g.maxVel)
}

// updateTraj steps the S-curve by dt.
func (g *positionSmoother) updateTraj(dt float64) {
	g.velocity, g.acceleration = jerkLimitedApproach(g.velocity, g.acceleration, g.targetVelocity, g.maxAccel, g.maxJerk, dt)
	g.position += g.velocity*dt + 0.5*g.acceleration*dt*dt
}

// velocitySmoother is the jerk-limited, rate-controlled generator of
// spec.md §4.3, with asymmetric up/down acceleration and velocity limits
// (the convention swap between climb-rate and sink-rate limits is
// intentional — see spec.md §4.3 parenthetical).
type velocitySmoother struct {
	maxJerk     float64
	maxAccelUp  float64
	maxAccelDown float64
	maxVelUp    float64
	maxVelDown  float64

	velSpFeedback float64

	position     float64
	velocity     float64
	acceleration float64
}

func (g *velocitySmoother) setMaxJerk(v float64)      { g.maxJerk = v }
func (g *velocitySmoother) setMaxAccelUp(v float64)   { g.maxAccelUp = v }
func (g *velocitySmoother) setMaxAccelDown(v float64) { g.maxAccelDown = v }
func (g *velocitySmoother) setMaxVelUp(v float64)     { g.maxVelUp = v }
func (g *velocitySmoother) setMaxVelDown(v float64)   { g.maxVelDown = v }

func (g *velocitySmoother) setVelSpFeedback(v float64)         { g.velSpFeedback = v }
func (g *velocitySmoother) setCurrentPositionEstimate(p float64) { g.position = p }

func (g *velocitySmoother) getCurrentPosition() float64 { return g.position }
func (g *velocitySmoother) getCurrentVelocity() float64 { return g.velocity }

// reset mirrors the original's reset(accel, vel, pos) call used when no
// height-rate setpoint is supplied, so the generator tracks the altitude
// loop's height-rate setpoint and height setpoint continuously (spec.md §4.3
// dispatch).
func (g *velocitySmoother) reset(acceleration, velocity, position float64) {
	g.acceleration = acceleration
	g.velocity = velocity
	g.position = position
}

// update advances the generator by dt toward velocitySetpoint, using the
// down-direction limits when the setpoint is below the current velocity and
// the up-direction limits otherwise.
func (g *velocitySmoother) update(dt, velocitySetpoint float64) {
	maxAccel := g.maxAccelUp
	maxVel := g.maxVelUp
	if velocitySetpoint < g.velocity {
		maxAccel = g.maxAccelDown
		maxVel = g.maxVelDown
	}
	velocitySetpoint = clampf(velocitySetpoint, -maxVel, maxVel)
	g.velocity, g.acceleration = jerkLimitedApproach(g.velocity, g.acceleration, velocitySetpoint, maxAccel, g.maxJerk, dt)
	g.position += g.velocity*dt + 0.5*g.acceleration*dt*dt
}
