// Package tecsconfig binds the on-disk configuration file to the in-memory
// structures the host and the tecs package need: controller tuning, vehicle
// limits, and the CAN/scenario wiring for the demo runner.
package tecsconfig

import (
	"fmt"

	"github.com/spf13/viper"

	"tecs-core/tecs"
)

// VehicleLimits carries the per-airframe throttle/pitch bounds the original
// TECS source takes as call arguments rather than tuning fields (spec.md
// §4.1 step 2).
type VehicleLimits struct {
	ThrottleMin  float64 `mapstructure:"throttle_min"`
	ThrottleMax  float64 `mapstructure:"throttle_max"`
	ThrottleTrim float64 `mapstructure:"throttle_trim"`

	PitchMin         float64 `mapstructure:"pitch_min"`
	PitchMax         float64 `mapstructure:"pitch_max"`
	PitchMinClimbout float64 `mapstructure:"pitch_min_climbout"`

	TargetClimbRate float64 `mapstructure:"target_climb_rate"`
	TargetSinkRate  float64 `mapstructure:"target_sink_rate"`
}

// RunnerConfig carries the demo host's wiring: which SocketCAN interface to
// use, where the signal map and scenario files live, and which frames carry
// inbound estimator state and outbound TECS commands.
type RunnerConfig struct {
	Interface     string `mapstructure:"interface"`
	MapPath       string `mapstructure:"map_path"`
	ScenarioPath  string `mapstructure:"scenario_path"`
	EstFrameName  string `mapstructure:"estimator_frame"`
	AltFrameName  string `mapstructure:"altitude_frame"`
	EASFrameName  string `mapstructure:"eas_setpoint_frame"`
	CmdFrameName  string `mapstructure:"command_frame"`
	LogPath       string `mapstructure:"log_path"`
	LogLevel      string `mapstructure:"log_level"`
}

// Configuration is the root of the YAML config file viper reads.
type Configuration struct {
	TECS    tecs.Config   `mapstructure:"tecs"`
	Vehicle VehicleLimits `mapstructure:"vehicle"`
	Runner  RunnerConfig  `mapstructure:"runner"`
}

// CurrentConfig is the process-wide loaded configuration, populated by Load.
var CurrentConfig Configuration

func setDefaultValues(v *viper.Viper) {
	def := tecs.DefaultConfig()

	v.SetDefault("tecs.equivalent_airspeed_min", 12.0)
	v.SetDefault("tecs.equivalent_airspeed_max", 35.0)
	v.SetDefault("tecs.equivalent_airspeed_trim", 18.0)
	v.SetDefault("tecs.max_climb_rate", 5.0)
	v.SetDefault("tecs.max_sink_rate", 5.0)
	v.SetDefault("tecs.min_sink_rate", 2.0)
	v.SetDefault("tecs.vert_accel_limit", 3.0)
	v.SetDefault("tecs.jerk_max", 8.0)
	v.SetDefault("tecs.pitch_damping_gain", 0.1)
	v.SetDefault("tecs.throttle_damping_gain", 0.1)
	v.SetDefault("tecs.integrator_gain_pitch", 0.08)
	v.SetDefault("tecs.integrator_gain_throttle", 0.1)
	v.SetDefault("tecs.airspeed_error_gain", 0.2)
	v.SetDefault("tecs.height_error_gain", 0.2)
	v.SetDefault("tecs.height_setpoint_gain_ff", 0.0)
	v.SetDefault("tecs.pitch_speed_weight", def.PitchSpeedWeight)
	v.SetDefault("tecs.load_factor_correction", 10.0)
	v.SetDefault("tecs.throttle_slewrate", 0.0)
	v.SetDefault("tecs.tas_estimate_freq", def.TASEstimateFreq)
	v.SetDefault("tecs.speed_derivative_time_const", def.SpeedDerivativeTimeConst)
	v.SetDefault("tecs.ste_rate_time_const", def.STERateTimeConst)
	v.SetDefault("tecs.seb_rate_ff", 1.0)
	v.SetDefault("tecs.detect_underspeed_enabled", def.DetectUnderspeedEnabled)

	v.SetDefault("vehicle.throttle_min", 0.0)
	v.SetDefault("vehicle.throttle_max", 1.0)
	v.SetDefault("vehicle.throttle_trim", 0.5)
	v.SetDefault("vehicle.pitch_min", -0.35)
	v.SetDefault("vehicle.pitch_max", 0.35)
	v.SetDefault("vehicle.pitch_min_climbout", 0.09)
	v.SetDefault("vehicle.target_climb_rate", 3.0)
	v.SetDefault("vehicle.target_sink_rate", 3.0)

	v.SetDefault("runner.interface", "vcan0")
	v.SetDefault("runner.map_path", "config/can/tecs_map.csv")
	v.SetDefault("runner.scenario_path", "internal/host/testdata/climb_and_cruise.json")
	v.SetDefault("runner.estimator_frame", "ESTIMATOR_STATE")
	v.SetDefault("runner.altitude_frame", "ALT_SETPOINT")
	v.SetDefault("runner.eas_setpoint_frame", "EAS_SETPOINT")
	v.SetDefault("runner.command_frame", "TECS_CMD")
	v.SetDefault("runner.log_path", "tecsdemo.log")
	v.SetDefault("runner.log_level", "info")
}

// Load reads the named config file, or searches the default paths for
// one, parsing it as YAML whatever its extension, and falls back to
// built-in defaults for anything the file omits.
func Load(cfgFile string) (Configuration, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	setDefaultValues(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("tecsdemo")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/tecsdemo/")
		v.AddConfigPath("$HOME/.tecsdemo")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Configuration{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return Configuration{}, fmt.Errorf("decode config: %w", err)
	}

	CurrentConfig = cfg
	return cfg, nil
}
