// numpadctl - Control a running numpadd daemon
//
//	numpadctl status            Show daemon state
//	numpadctl on|off|toggle     Switch the numpad mode
//	numpadctl brightness <lvl>  Set the backlight level
//	numpadctl ping              Check the daemon is alive
//	numpadctl shutdown          Ask the daemon to exit
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"numpadd/internal/config"
	"numpadd/internal/ipc"
)

func main() {
	socket := flag.String("socket", "", "control socket path (default: XDG runtime dir)")
	timeout := flag.Duration("timeout", 5*time.Second, "request timeout")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	path := *socket
	if path == "" {
		path = config.DefaultConfig().IPC.SocketPath
	}

	client, err := ipc.Dial(path, *timeout)
	if err != nil {
		fatal("%v", err)
	}
	defer client.Close()

	switch cmd := flag.Arg(0); cmd {
	case "status":
		st, err := client.Status()
		if err != nil {
			fatal("%v", err)
		}
		mode := "pointing"
		if st.KeypadOn {
			mode = "numpad"
		}
		fmt.Printf("mode=%s brightness=%s layout=%s uptime=%s\n",
			mode, st.Brightness, st.Layout,
			(time.Duration(st.UptimeSec) * time.Second).String())

	case "on", "off", "toggle":
		on, err := client.SetMode(cmd)
		if err != nil {
			fatal("%v", err)
		}
		if on {
			fmt.Println("numpad on")
		} else {
			fmt.Println("numpad off")
		}

	case "brightness":
		if flag.NArg() < 2 {
			fatal("brightness needs a level: off, low, half, or full")
		}
		level, err := client.SetBrightness(flag.Arg(1))
		if err != nil {
			fatal("%v", err)
		}
		fmt.Printf("brightness %s\n", level)

	case "ping":
		if err := client.Ping(); err != nil {
			fatal("%v", err)
		}
		fmt.Println("pong")

	case "shutdown":
		if err := client.Shutdown(); err != nil {
			fatal("%v", err)
		}
		fmt.Println("daemon shutting down")

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`numpadctl - Control a running numpadd daemon

USAGE:
    numpadctl [options] <command>

COMMANDS:
    status              Show daemon state
    on | off | toggle   Switch the numpad mode
    brightness <level>  Set the backlight level (off, low, half, full)
    ping                Check the daemon is alive
    shutdown            Ask the daemon to exit

OPTIONS:
    -socket <path>      Control socket path
    -timeout <dur>      Request timeout (default 5s)`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "numpadctl: "+format+"\n", args...)
	os.Exit(1)
}
