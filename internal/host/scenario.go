package host

import (
	"encoding/json"
	"fmt"
	"os"
)

// Scenario describes a time-segmented flight profile for the demo runner:
// a sequence of altitude/airspeed setpoints the TECS controller is asked to
// track, plus optional climbout windows.
type Scenario struct {
	Meta     ScenarioMeta      `json:"meta"`
	Timing   ScenarioTiming    `json:"timing"`
	Defaults SetpointCmd       `json:"defaults"`
	Segments []ScenarioSegment `json:"segments"`
}

// ScenarioMeta carries scenario identification.
type ScenarioMeta struct {
	Name        string `json:"name"`
	Version     int    `json:"version"`
	Description string `json:"description"`
}

// ScenarioTiming defines the playback window. The runner ticks at the
// command frame's cycle time; LogHz is parsed but not used by the runner.
type ScenarioTiming struct {
	DurationS float64 `json:"duration_s"`
	LogHz     float64 `json:"log_hz"`
}

// SetpointCmd is the setpoint set a segment applies in place of the
// defaults; fields a segment leaves out take their zero value, not the
// default's.
// HeightRateSP is a pointer because its zero value (0 m/s) is a valid
// commanded rate and must be distinguishable from "not set, control
// altitude directly" (spec.md §4.3's dispatch reads NaN as "not set").
type SetpointCmd struct {
	AltitudeM    float64  `json:"altitude_m"`
	EASMPS       float64  `json:"eas_mps"`
	Climbout     bool     `json:"climbout"`
	TargetClimb  float64  `json:"target_climb_rate,omitempty"`
	TargetSink   float64  `json:"target_sink_rate,omitempty"`
	HeightRateSP *float64 `json:"height_rate_sp_mps,omitempty"`
	Comment      string   `json:"comment,omitempty"`
}

// ScenarioSegment applies its SetpointCmd over [T0, T1); a negative T1 runs
// to the end of the scenario.
type ScenarioSegment struct {
	T0 float64 `json:"t0"`
	T1 float64 `json:"t1"`
	SetpointCmd
}

// LoadScenario reads and validates a scenario JSON file.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}

	var scen Scenario
	if err := json.Unmarshal(data, &scen); err != nil {
		return Scenario{}, fmt.Errorf("unmarshal scenario: %w", err)
	}

	if scen.Timing.DurationS <= 0 {
		return Scenario{}, fmt.Errorf("invalid duration_s: %f", scen.Timing.DurationS)
	}

	return scen, nil
}

// EvalSetpoint returns the setpoint command active at time t (seconds since
// scenario start), falling back to the scenario defaults outside any
// segment window.
func EvalSetpoint(scen *Scenario, t float64) SetpointCmd {
	cmd := scen.Defaults

	for _, seg := range scen.Segments {
		t1 := seg.T1
		if t1 < 0 {
			t1 = scen.Timing.DurationS
		}
		if t >= seg.T0 && t < t1 {
			cmd = seg.SetpointCmd
			break
		}
	}

	return cmd
}
