package daemon

import (
	"context"
	"fmt"
	"time"

	"numpadd/internal/backlight"
	"numpadd/internal/config"
	"numpadd/internal/device"
	"numpadd/internal/ipc"
	"numpadd/internal/layout"
	"numpadd/internal/logging"
	"numpadd/internal/power"
	"numpadd/internal/tap"
	"numpadd/internal/vkbd"
)

// Setup builds the full hardware stack from configuration and returns
// a ready daemon. The returned cleanup releases every device and must
// run after the daemon stops.
func Setup(ctx context.Context, cfg *config.Config, log *logging.Logger, version string) (*Daemon, func(), error) {
	model, err := resolveModel(cfg)
	if err != nil {
		return nil, nil, err
	}

	info, err := resolveDevice(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	log.Info("touchpad found", "name", info.Name, "path", info.EventPath)

	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	fail := func(err error) (*Daemon, func(), error) {
		cleanup()
		return nil, nil, err
	}

	pad, err := device.Open(info)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, func() { pad.Close() })

	rng, err := pad.AbsRange()
	if err != nil {
		return fail(err)
	}

	lay, err := layout.New(model, rng.MinX, rng.MaxX, rng.MinY, rng.MaxY)
	if err != nil {
		return fail(fmt.Errorf("layout %s: %w", model.Name, err))
	}

	keys, err := vkbd.New("numpadd virtual keypad", lay.Keys())
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, func() { keys.Close() })

	bus := info.I2CBus
	if cfg.Device.I2CBus >= 0 {
		bus = cfg.Device.I2CBus
	}
	if bus < 0 {
		return fail(fmt.Errorf("touchpad %s exposes no i2c bus; set device.i2c_bus", info.Name))
	}
	light, err := backlight.Open(bus)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, func() { light.Close() })

	level, err := backlight.ParseLevel(cfg.Backlight.DefaultLevel)
	if err != nil {
		return fail(err)
	}
	hold := time.Duration(cfg.Input.HoldDurationMs) * time.Millisecond
	machine := tap.NewMachine(lay, hold, level)

	events := make(chan tap.Event, 64)
	fatal := make(chan error, 1)
	go func() {
		if err := pad.Stream(ctx, events); err != nil && ctx.Err() == nil {
			fatal <- err
		}
	}()

	var powerCh <-chan bool
	if mon, err := power.NewMonitor(); err != nil {
		log.Warn("suspend handling disabled", "error", err)
	} else {
		cleanups = append(cleanups, func() { mon.Close() })
		go func() {
			if err := mon.Run(ctx); err != nil && ctx.Err() == nil {
				log.Warn("power monitor stopped", "error", err)
			}
		}()
		powerCh = mon.Events()
	}

	d := New(Options{
		Log:        log,
		Machine:    machine,
		Keys:       keys,
		Light:      light,
		Pad:        pad,
		Events:     events,
		Fatal:      fatal,
		Power:      powerCh,
		LayoutName: model.Name,
		DeviceName: info.Name,
		I2CBus:     bus,
		Version:    version,
	})
	return d, cleanup, nil
}

// StartIPC brings up the control socket if enabled. The returned stop
// function is a no-op when IPC is disabled.
func StartIPC(cfg *config.Config, d *Daemon, shutdown context.CancelFunc, log *logging.Logger) (func(), error) {
	if !cfg.IPC.Enabled {
		return func() {}, nil
	}
	srv := ipc.NewServer(ipc.ServerConfig{
		SocketPath: cfg.IPC.SocketPath,
		Timeout:    time.Duration(cfg.IPC.TimeoutSec) * time.Second,
	}, NewHandler(d, shutdown))
	if err := srv.Start(); err != nil {
		return nil, fmt.Errorf("start control socket: %w", err)
	}
	log.Info("control socket listening", "path", srv.SocketPath())
	return func() { srv.Stop() }, nil
}

func resolveModel(cfg *config.Config) (layout.Model, error) {
	if cfg.Input.LayoutFile != "" {
		return layout.LoadModel(cfg.Input.LayoutFile)
	}
	model, ok := layout.Lookup(cfg.Input.Layout)
	if !ok {
		return layout.Model{}, fmt.Errorf("unknown layout %q (have: %v)", cfg.Input.Layout, layout.Names())
	}
	return model, nil
}

func resolveDevice(ctx context.Context, cfg *config.Config, log *logging.Logger) (device.Info, error) {
	if cfg.Device.EventPath != "" {
		return device.Info{
			Name:      cfg.Device.EventPath,
			EventPath: cfg.Device.EventPath,
			I2CBus:    cfg.Device.I2CBus,
		}, nil
	}
	wait := time.Duration(cfg.Device.WaitSec) * time.Second
	log.Info("waiting for touchpad", "timeout", wait)
	return device.Wait(ctx, wait)
}
