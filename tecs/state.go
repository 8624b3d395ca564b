package tecs

// Mode is the tagged variant published once per tick, precedence
// UNDERSPEED > BAD_DESCENT > CLIMBOUT > NORMAL.
type Mode int

const (
	ModeNormal Mode = iota
	ModeClimbout
	ModeUnderspeed
	ModeBadDescent
)

func (m Mode) String() string {
	switch m {
	case ModeClimbout:
		return "CLIMBOUT"
	case ModeUnderspeed:
		return "UNDERSPEED"
	case ModeBadDescent:
		return "BAD_DESCENT"
	default:
		return "NORMAL"
	}
}

// state holds every runtime field threaded through the stage functions, in
// the grouping spec.md §3 lays out. It is owned exclusively by one
// Controller and never shared across steps or goroutines.
type state struct {
	// Clocks (monotonic microseconds; zero means "never set").
	stateUpdateTS uint64
	speedUpdateTS uint64
	pitchUpdateTS uint64

	// Inertial.
	vertPosState float64
	vertVelState float64

	// Speed filter.
	tasState        float64
	tasRateState    float64
	tasInnov        float64
	tasRateRaw      float64
	tasRateFiltered float64

	// Speed setpoints (derived).
	tasSetpoint    float64
	tasSetpointAdj float64
	tasRateSetpoint float64
	hgtSetpoint     float64
	hgtRateSetpoint float64
	easSetpoint     float64

	tasMin float64
	tasMax float64

	// Energies.
	speEstimate     float64
	skeEstimate     float64
	speRate         float64
	skeRate         float64
	speSetpoint     float64
	skeSetpoint     float64
	speRateSetpoint float64
	skeRateSetpoint float64
	steError        float64
	steRateError    float64
	steRateMin      float64
	steRateMax      float64
	steRateSetpoint float64
	sebError        float64
	sebRateError    float64

	// Weights.
	speWeighting float64
	skeWeighting float64

	// Integrators.
	throttleIntegState float64
	pitchIntegState    float64

	// Outputs.
	lastThrottleSetpoint float64
	lastPitchSetpoint    float64
	pitchSetpointUnc     float64

	// Mode flags.
	statesInitialized          bool
	climboutModeActive         bool
	uncommandedDescentRecovery bool
	percentUndersped           float64
	tecsMode                   Mode

	// Filters.
	tasRateFilter      firstOrderLPF
	steRateErrorFilter firstOrderLPF

	// Generators.
	altTrajGenerator positionSmoother
	velTrajGenerator velocitySmoother

	// Per-tick limits captured from the caller's arguments (spec.md §4.1 step 2).
	throttleSetpointMax float64
	throttleSetpointMin float64
	pitchSetpointMax    float64
	pitchSetpointMin    float64
	throttleTrim        float64

	dt float64
}
