package tecs

// Config holds the tuning parameters for a Controller. Every field may be
// changed between ticks; none may be changed during one (the Controller
// reads its fields throughout UpdatePitchThrottle).
//
// Config is populated by the host, typically via internal/tecsconfig, which
// binds it from a YAML file — parameter storage itself is an external
// collaborator, not a concern of this package.
type Config struct {
	EquivalentAirspeedMin  float64 `mapstructure:"equivalent_airspeed_min"`
	EquivalentAirspeedMax  float64 `mapstructure:"equivalent_airspeed_max"`
	EquivalentAirspeedTrim float64 `mapstructure:"equivalent_airspeed_trim"`

	MaxClimbRate float64 `mapstructure:"max_climb_rate"`
	MaxSinkRate  float64 `mapstructure:"max_sink_rate"`
	MinSinkRate  float64 `mapstructure:"min_sink_rate"`

	VertAccelLimit float64 `mapstructure:"vert_accel_limit"`
	JerkMax        float64 `mapstructure:"jerk_max"`

	PitchDampingGain    float64 `mapstructure:"pitch_damping_gain"`
	ThrottleDampingGain float64 `mapstructure:"throttle_damping_gain"`

	IntegratorGainPitch    float64 `mapstructure:"integrator_gain_pitch"`
	IntegratorGainThrottle float64 `mapstructure:"integrator_gain_throttle"`

	AirspeedErrorGain float64 `mapstructure:"airspeed_error_gain"`

	HeightErrorGain      float64 `mapstructure:"height_error_gain"`
	HeightSetpointGainFF float64 `mapstructure:"height_setpoint_gain_ff"`

	// PitchSpeedWeight in [0,2]. 0 = pitch controls altitude exclusively,
	// 1 = balanced, 2 = pitch controls speed exclusively.
	PitchSpeedWeight float64 `mapstructure:"pitch_speed_weight"`

	LoadFactorCorrection float64 `mapstructure:"load_factor_correction"`

	ThrottleSlewRate float64 `mapstructure:"throttle_slewrate"`

	TASEstimateFreq          float64 `mapstructure:"tas_estimate_freq"`
	SpeedDerivativeTimeConst float64 `mapstructure:"speed_derivative_time_const"`
	STERateTimeConst         float64 `mapstructure:"ste_rate_time_const"`
	SEBRateFF                float64 `mapstructure:"seb_rate_ff"`

	// DetectUnderspeedEnabled toggles the underspeed ramp of spec.md §4.4.
	DetectUnderspeedEnabled bool `mapstructure:"detect_underspeed_enabled"`
}

// kTASErrorPercentage is a named constant in the original (not a tuning
// field): the fraction of trim EAS defining the underspeed ramp's width.
const kTASErrorPercentage = 0.1

// gravityMPS2 mirrors the original's CONSTANTS_ONE_G (m/s^2).
const gravityMPS2 = 9.80665

const (
	dtMin     = 0.001 // DT_MIN
	dtMax     = 1.0   // DT_MAX
	dtDefault = 0.02  // DT_DEFAULT
)

// DefaultConfig returns a Config with the original's sane defaults applied:
// underspeed detection enabled, balanced pitch speed weight, and 0.5 for the
// TAS estimate frequency and filter time constants. Airspeed sensing and
// load factor are not Config fields; NewController sets their defaults.
func DefaultConfig() Config {
	return Config{
		DetectUnderspeedEnabled:  true,
		PitchSpeedWeight:         1.0,
		TASEstimateFreq:          0.5,
		SpeedDerivativeTimeConst: 0.5,
		STERateTimeConst:         0.5,
	}
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func signNoZero(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
