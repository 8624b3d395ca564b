package host

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"tecs-core/internal/tecsconfig"
	"tecs-core/tecs"
	"tecs-core/utils"
)

// snapshotData holds the latest decoded sensor/setpoint values, written by
// the RX goroutine and read once per tick by the TX goroutine.
type snapshotData struct {
	eas            float64
	accelFwd       float64
	altitude       float64
	vz             float64
	altitudeLocked bool
	easSetpoint    float64
	eas2tas        float64
	altSetpoint    float64
	climbout       bool
	pitch          float64
	have           bool
	lastUpdate     time.Time
}

// estimatorSnapshot guards snapshotData behind a mutex so the RX goroutine
// can publish updates while the TX goroutine reads a consistent copy.
type estimatorSnapshot struct {
	mu   sync.Mutex
	data snapshotData
}

func (s *estimatorSnapshot) setEstimator(eas, accelFwd, altitude, vz float64, locked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.eas, s.data.accelFwd, s.data.altitude, s.data.vz, s.data.altitudeLocked = eas, accelFwd, altitude, vz, locked
	s.data.have = true
	s.data.lastUpdate = time.Now()
}

func (s *estimatorSnapshot) setEASSetpoint(eas, eas2tas float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.easSetpoint, s.data.eas2tas = eas, eas2tas
}

func (s *estimatorSnapshot) setAltSetpoint(alt float64, climbout bool, pitch float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.altSetpoint, s.data.climbout, s.data.pitch = alt, climbout, pitch
}

func (s *estimatorSnapshot) snapshot() snapshotData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Runner drives a Controller from SocketCAN traffic: it decodes estimator
// state frames as they arrive, evaluates a scenario for commanded
// altitude/airspeed, steps the controller once per command-frame cycle, and
// transmits the resulting throttle/pitch command.
type Runner struct {
	cfg  tecsconfig.Configuration
	log  *utils.Logger
	cmap *utils.CANMap
	scen Scenario

	reader utils.CANReader
	writer utils.CANWriter

	estFD, altFD, easFD, cmdFD *utils.FrameDef

	controller *tecs.Controller
	snap       estimatorSnapshot
}

// NewRunner wires a Runner from configuration: loads the CAN signal map and
// scenario file, resolves the frames the runner reads and writes, and opens
// the SocketCAN reader/writer pair.
func NewRunner(ctx context.Context, cfg tecsconfig.Configuration, log *utils.Logger) (*Runner, error) {
	cmap, err := utils.LoadCANMap(cfg.Runner.MapPath)
	if err != nil {
		return nil, fmt.Errorf("load can map: %w", err)
	}

	scen, err := LoadScenario(cfg.Runner.ScenarioPath)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}

	estFD, err := cmap.FrameByName(cfg.Runner.EstFrameName)
	if err != nil {
		return nil, fmt.Errorf("estimator frame: %w", err)
	}
	altFD, err := cmap.FrameByName(cfg.Runner.AltFrameName)
	if err != nil {
		return nil, fmt.Errorf("altitude frame: %w", err)
	}
	easFD, err := cmap.FrameByName(cfg.Runner.EASFrameName)
	if err != nil {
		return nil, fmt.Errorf("eas setpoint frame: %w", err)
	}
	cmdFD, err := cmap.FrameByName(cfg.Runner.CmdFrameName)
	if err != nil {
		return nil, fmt.Errorf("command frame: %w", err)
	}
	if cmdFD.CycleMS <= 0 {
		return nil, fmt.Errorf("frame %s has invalid cycle_ms %d", cmdFD.Name, cmdFD.CycleMS)
	}

	writer, err := utils.NewSocketCANWriter(ctx, cfg.Runner.Interface)
	if err != nil {
		return nil, err
	}
	reader, err := utils.NewSocketCANReader(ctx, cfg.Runner.Interface)
	if err != nil {
		_ = writer.Close()
		return nil, err
	}

	controller := tecs.NewController(cfg.TECS)

	return &Runner{
		cfg:        cfg,
		log:        log,
		cmap:       cmap,
		scen:       scen,
		reader:     reader,
		writer:     writer,
		estFD:      estFD,
		altFD:      altFD,
		easFD:      easFD,
		cmdFD:      cmdFD,
		controller: controller,
	}, nil
}

// Close releases the Runner's CAN sockets.
func (r *Runner) Close() {
	if r.reader != nil {
		_ = r.reader.Close()
	}
	if r.writer != nil {
		_ = r.writer.Close()
	}
}

// Run plays the scenario for its configured duration, supervising the RX
// decode loop and the TX tick loop together; either goroutine returning an
// error cancels the other via the shared errgroup context.
func (r *Runner) Run(ctx context.Context) error {
	r.log.Info("Starting TECS demo: iface=%s scenario=%s duration=%.1fs cmd_frame=%s cycle_ms=%d",
		r.cfg.Runner.Interface, r.scen.Meta.Name, r.scen.Timing.DurationS, r.cmdFD.Name, r.cmdFD.CycleMS)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.receiveLoop(gctx)
	})
	g.Go(func() error {
		return r.tickLoop(gctx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (r *Runner) receiveLoop(ctx context.Context) error {
	r.log.Debug("RX loop started")
	defer r.log.Debug("RX loop stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		frame, err := r.reader.ReadFrame(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.log.Error("RX error: %v", err)
			continue
		}

		id := uint32(frame.ID)
		data := frame.Data[:frame.Length]

		switch id {
		case r.estFD.ID:
			values, err := r.cmap.DecodeFrame(id, data)
			if err != nil {
				r.log.Error("decode %s: %v", r.estFD.Name, err)
				continue
			}
			r.snap.setEstimator(values["eas_mps"], values["accel_fwd_mps2"], values["altitude_m"],
				values["vz_mps"], values["altitude_locked"] > 0.5)

		case r.easFD.ID:
			values, err := r.cmap.DecodeFrame(id, data)
			if err != nil {
				r.log.Error("decode %s: %v", r.easFD.Name, err)
				continue
			}
			r.snap.setEASSetpoint(values["eas_setpoint_mps"], values["eas2tas"])

		case r.altFD.ID:
			values, err := r.cmap.DecodeFrame(id, data)
			if err != nil {
				r.log.Error("decode %s: %v", r.altFD.Name, err)
				continue
			}
			r.snap.setAltSetpoint(values["altitude_setpoint_m"], values["climbout"] > 0.5, values["pitch_rad_x1000"])
		}

		r.log.Trace("RX id=0x%X len=%d data=% X", id, frame.Length, data)
	}
}

func (r *Runner) tickLoop(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(r.cmdFD.CycleMS) * time.Millisecond)
	defer ticker.Stop()

	start := time.Now()
	endAfter := time.Duration(r.scen.Timing.DurationS * float64(time.Second))
	var now uint64
	var sent uint64

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case tick := <-ticker.C:
			elapsed := tick.Sub(start)
			if elapsed > endAfter {
				r.log.Info("Scenario complete. commands_sent=%d", sent)
				return context.Canceled
			}

			t := elapsed.Seconds()
			now += uint64(r.cmdFD.CycleMS) * 1000

			cmd := EvalSetpoint(&r.scen, t)
			snap := r.snap.snapshot()

			easSetpoint := snap.easSetpoint
			eas2tas := snap.eas2tas
			if eas2tas <= 0 {
				eas2tas = 1.0
			}
			if cmd.EASMPS > 0 {
				easSetpoint = cmd.EASMPS
			}

			targetClimb := cmd.TargetClimb
			if targetClimb <= 0 {
				targetClimb = r.cfg.Vehicle.TargetClimbRate
			}
			targetSink := cmd.TargetSink
			if targetSink <= 0 {
				targetSink = r.cfg.Vehicle.TargetSinkRate
			}

			heightRateSP := math.NaN()
			if cmd.HeightRateSP != nil {
				heightRateSP = *cmd.HeightRateSP
			}

			r.controller.UpdateVehicleStateEstimates(now, snap.eas, snap.accelFwd, snap.altitudeLocked, snap.altitude, snap.vz)

			r.controller.UpdatePitchThrottle(
				now,
				snap.pitch, snap.altitude, cmd.AltitudeM, easSetpoint, snap.eas, eas2tas,
				cmd.Climbout,
				r.cfg.Vehicle.PitchMinClimbout, r.cfg.Vehicle.ThrottleMin, r.cfg.Vehicle.ThrottleMax, r.cfg.Vehicle.ThrottleTrim,
				r.cfg.Vehicle.PitchMin, r.cfg.Vehicle.PitchMax,
				targetClimb, targetSink,
				heightRateSP,
			)

			if err := r.publish(ctx, t); err != nil {
				return err
			}
			sent++
		}
	}
}

func (r *Runner) publish(ctx context.Context, t float64) error {
	values := map[string]float64{
		"throttle":                 r.controller.Throttle(),
		"pitch_rad_x1000":          r.controller.Pitch(),
		"tecs_mode":                float64(r.controller.Mode()),
		"percent_undersped_x1000":  r.controller.PercentUndersped(),
	}

	frame, err := r.cmap.EncodeEinrideFrame(r.cmdFD.Name, values)
	if err != nil {
		return fmt.Errorf("encode %s at t=%.3f: %w", r.cmdFD.Name, t, err)
	}

	if err := r.writer.WriteFrame(ctx, frame); err != nil {
		return fmt.Errorf("transmit %s at t=%.3f: %w", r.cmdFD.Name, t, err)
	}

	r.log.Trace("TX t=%.3f throttle=%.3f pitch=%.4f mode=%s undersped=%.2f",
		t, r.controller.Throttle(), r.controller.Pitch(), r.controller.Mode(), r.controller.PercentUndersped())
	return nil
}
