package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMap(t *testing.T) *CANMap {
	t.Helper()
	m, err := LoadCANMap("../config/can/tecs_map.csv")
	require.NoError(t, err)
	return m
}

func TestLoadCANMap_ResolvesTECSCommandFrame(t *testing.T) {
	// GIVEN the tecs_map.csv asset
	m := testMap(t)

	// WHEN looking up the command frame by name
	fd, err := m.FrameByName("TECS_CMD")

	// THEN it resolves with the expected id and cycle time
	require.NoError(t, err)
	assert.Equal(t, uint32(0x300), fd.ID)
	assert.Equal(t, 20, fd.CycleMS)
}

func TestEncodeDecodeFrame_TECSCmdRoundTrips(t *testing.T) {
	// GIVEN the loaded map and a set of physical values for TECS_CMD
	m := testMap(t)
	values := map[string]float64{
		"throttle":                0.62,
		"pitch_rad_x1000":         -0.123,
		"tecs_mode":               2,
		"percent_undersped_x1000": 0.75,
	}

	// WHEN the frame is encoded then decoded
	payload, id, err := m.EncodeFrame("TECS_CMD", values)
	require.NoError(t, err)

	decoded, err := m.DecodeFrame(id, payload)
	require.NoError(t, err)

	// THEN every signal round-trips within its quantization step
	assert.InDelta(t, values["throttle"], decoded["throttle"], 0.001)
	assert.InDelta(t, values["pitch_rad_x1000"], decoded["pitch_rad_x1000"], 0.001)
	assert.InDelta(t, values["tecs_mode"], decoded["tecs_mode"], 1e-9)
	assert.InDelta(t, values["percent_undersped_x1000"], decoded["percent_undersped_x1000"], 0.001)
}

func TestEncodeFrame_ClampsOutOfRangeValues(t *testing.T) {
	// GIVEN a throttle value far outside [min, max]
	m := testMap(t)
	values := map[string]float64{"throttle": 5.0}

	// WHEN the frame is encoded then decoded
	payload, id, err := m.EncodeFrame("TECS_CMD", values)
	require.NoError(t, err)
	decoded, err := m.DecodeFrame(id, payload)
	require.NoError(t, err)

	// THEN the encoded value is clamped to the signal's max
	assert.InDelta(t, 1.0, decoded["throttle"], 0.001)
}

func TestDecodeFrame_UnknownIDReturnsError(t *testing.T) {
	// GIVEN the loaded map
	m := testMap(t)

	// WHEN decoding an id not present in the map
	_, err := m.DecodeFrame(0xDEAD, make([]byte, 8))

	// THEN it reports an error rather than panicking
	assert.Error(t, err)
}

func TestEncodeFrame_EstimatorStateDefaultsMissingSignals(t *testing.T) {
	// GIVEN the estimator-state frame and a values map missing some signals
	m := testMap(t)

	// WHEN encoding with only eas_mps supplied
	payload, id, err := m.EncodeFrame("ESTIMATOR_STATE", map[string]float64{"eas_mps": 20})
	require.NoError(t, err)

	decoded, err := m.DecodeFrame(id, payload)
	require.NoError(t, err)

	// THEN the omitted signals fall back to their configured defaults
	assert.InDelta(t, 20.0, decoded["eas_mps"], 0.01)
	assert.InDelta(t, 0.0, decoded["accel_fwd_mps2"], 0.01)
}
