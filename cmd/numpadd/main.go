// numpadd - Touchpad numpad daemon for ASUS laptops
//
//	numpadd run             Run the daemon
//	numpadd list-devices    List input devices
//	numpadd status          Query a running daemon
//	numpadd version         Print the version
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"numpadd/internal/config"
	"numpadd/internal/daemon"
	"numpadd/internal/device"
	"numpadd/internal/ipc"
	"numpadd/internal/layout"
	"numpadd/internal/logging"
)

var version = "0.3.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		cmdRun()
	case "list-devices":
		cmdListDevices()
	case "status":
		cmdStatus()
	case "version":
		fmt.Printf("numpadd %s\n", version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`numpadd - Touchpad numpad daemon for ASUS laptops

USAGE:
    numpadd <command> [options]

COMMANDS:
    run             Run the daemon (needs access to /dev/input,
                    /dev/uinput, and the touchpad's i2c bus)
    list-devices    List input devices and which one would be used
    status          Query a running daemon over its control socket
    version         Print the version
    help            Show this help message

Hold the top-right corner of the touchpad for 750ms to toggle the
numpad. While the numpad is on, taps on the printed grid type digits
and the pointer stays put.

Control a running daemon with numpadctl.`)
}

func cmdRun() {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path (default: XDG config dir)")
	layoutName := fs.String("layout", "", "override the keypad layout")
	devicePath := fs.String("device", "", "override the touchpad event node")
	fs.Parse(os.Args[2:])

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("load config: %v", err)
	}
	if *layoutName != "" {
		cfg.Input.Layout = *layoutName
	}
	if *devicePath != "" {
		cfg.Device.EventPath = *devicePath
	}
	if err := cfg.Validate(); err != nil {
		fatal("invalid config: %v", err)
	}

	level, _ := logging.ParseLevel(cfg.Logging.Level)
	format, _ := logging.ParseFormat(cfg.Logging.Format)
	log, err := logging.New(&logging.Config{
		Level:     level,
		Format:    format,
		Output:    cfg.Logging.Output,
		FilePath:  cfg.Logging.FilePath,
		Component: "numpadd",
	})
	if err != nil {
		fatal("init logging: %v", err)
	}
	logging.SetDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("signal received", "signal", sig.String())
		cancel()
	}()

	d, cleanup, err := daemon.Setup(ctx, cfg, log, version)
	if err != nil {
		fatal("%v", err)
	}
	defer cleanup()

	stopIPC, err := daemon.StartIPC(cfg, d, cancel, log)
	if err != nil {
		fatal("%v", err)
	}
	defer stopIPC()

	if err := d.Run(ctx); err != nil {
		log.Error("daemon exited", "error", err)
		os.Exit(1)
	}
}

func cmdListDevices() {
	devices, err := device.List()
	if err != nil {
		fatal("%v", err)
	}

	selected, selErr := device.Detect()
	for _, d := range devices {
		marker := "  "
		if selErr == nil && d.EventPath == selected.EventPath {
			marker = "* "
		}
		fmt.Printf("%s%-22s %s\n", marker, d.EventPath, d.Name)
	}
	if selErr != nil {
		fmt.Println("\nno supported touchpad found")
		return
	}
	fmt.Printf("\n* would be used (i2c bus %d)\n", selected.I2CBus)
	fmt.Printf("built-in layouts: %v\n", layout.Names())
}

func cmdStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	socket := fs.String("socket", "", "control socket path (default: XDG runtime dir)")
	fs.Parse(os.Args[2:])

	path := *socket
	if path == "" {
		path = config.DefaultConfig().IPC.SocketPath
	}

	client, err := ipc.Dial(path, 5*time.Second)
	if err != nil {
		fatal("%v", err)
	}
	defer client.Close()

	st, err := client.Status()
	if err != nil {
		fatal("%v", err)
	}
	printStatus(st)
}

func printStatus(st *ipc.StatusResponse) {
	mode := "pointing"
	if st.KeypadOn {
		mode = "numpad"
	}
	fmt.Printf("numpadd %s\n", st.Version)
	fmt.Printf("  mode:        %s\n", mode)
	fmt.Printf("  brightness:  %s\n", st.Brightness)
	fmt.Printf("  layout:      %s\n", st.Layout)
	fmt.Printf("  device:      %s (i2c bus %d)\n", st.Device, st.I2CBus)
	fmt.Printf("  uptime:      %s\n", (time.Duration(st.UptimeSec) * time.Second).String())
	fmt.Printf("  taps:        %d\n", st.Taps)
	fmt.Printf("  toggles:     %d\n", st.Toggles)
	fmt.Printf("  key presses: %d\n", st.KeyPresses)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "numpadd: "+format+"\n", args...)
	os.Exit(1)
}
