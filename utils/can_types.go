package utils

import "sort"

// SignalDef is one bit-packed field within a CAN frame, as loaded from a
// signal map CSV (see config/can/tecs_map.csv).
type SignalDef struct {
	Name       string
	StartBit   int
	BitLength  int
	Signed     bool
	Factor     float64
	Offset     float64
	Min        float64
	Max        float64
	Default    float64
	Unit       string
	Comment    string
	Endianness string // only "little" supported
}

// FrameDef is one CAN frame ID and the signals packed into its payload.
// Direction is "rx" or "tx" from the runner's point of view.
type FrameDef struct {
	ID        uint32
	Name      string
	DLC       int
	Direction string
	CycleMS   int
	Signals   []SignalDef
}

// CANMap indexes a signal map by both frame ID (for decoding inbound
// frames) and frame name (for encoding outbound ones by intent).
type CANMap struct {
	ByID   map[uint32]*FrameDef
	ByName map[string]*FrameDef
}

// FrameNames returns every frame name in the map, sorted for stable output.
func (m *CANMap) FrameNames() []string {
	out := make([]string, 0, len(m.ByName))
	for k := range m.ByName {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
