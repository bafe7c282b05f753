package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/echoaio/aio"
)

func main() {
	var (
		library string
		probe   bool
	)

	flag.StringVar(&library, "library", "", "Path to the EchoAIOInterface shared library.")
	flag.BoolVar(&probe, "probe", false, "Only probe the USB bus for an attached unit, without loading the library.")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "\nOptions:")
		for _, name := range []string{"library", "probe"} {
			f := flag.Lookup(name)
			if f != nil {
				fmt.Fprintf(os.Stderr, "  --%s\n    \t%v (default %q)\n", f.Name, f.Usage, f.DefValue)
			}
		}
	}

	flag.Parse()

	if probe {
		attached, err := aio.DetectUSB()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error probing USB bus: %v\n", err)
			os.Exit(1)
		}

		if !attached {
			fmt.Println("No Echo AIO unit found on the USB bus.")
			os.Exit(1)
		}

		fmt.Println("Echo AIO unit attached.")

		return
	}

	dev, err := aio.OpenPath(library)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening device: %v\n", err)
		os.Exit(1)
	}
	defer dev.Close()

	connected, err := dev.Connected()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error querying connection state: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Unit:      %s\n", dev.Product())
	fmt.Printf("Serial:    %s\n", dev.SerialNumber())
	fmt.Printf("Firmware:  %s\n", dev.FirmwareVersion())
	fmt.Printf("Connected: %v\n", connected)
	fmt.Printf("Channels:  %d in, %d out\n", dev.NumInputs(), dev.NumOutputs())
	fmt.Println("---------------------------------------")

	for _, in := range dev.Inputs() {
		printInput(in)
	}

	for _, out := range dev.Outputs() {
		printOutput(out)
	}
}

// printInput prints one line per input channel with gain, CCP and TEDS state.
func printInput(in *aio.InputChannel) {
	gain, err := in.Gain()
	if err != nil {
		fmt.Printf("Input %d (%s): <error: %v>\n", in.Index(), in.Module(), err)

		return
	}

	min, max := in.GainRange()
	line := fmt.Sprintf("Input %d (%s): gain %d [%d, %d]", in.Index(), in.Module(), gain, min, max)

	if in.Module().SupportsConstantCurrent() {
		if ccp, err := in.ConstantCurrent(); err == nil {
			line += fmt.Sprintf(", CCP %s", onOff(ccp))
		}
	}

	if in.Module().SupportsTEDS() {
		if present, err := in.TEDSPresent(); err == nil && present {
			if teds, err := in.TEDS(); err == nil {
				line += fmt.Sprintf(", TEDS [%s]", teds)
			} else {
				line += ", TEDS present"
			}
		}
	}

	fmt.Println(line)
}

// printOutput prints one line per output channel.
func printOutput(out *aio.OutputChannel) {
	gain, err := out.Gain()
	if err != nil {
		fmt.Printf("Output %d: <error: %v>\n", out.Index(), err)

		return
	}

	min, max := out.GainRange()
	fmt.Printf("Output %d: gain %d [%d, %d]\n", out.Index(), gain, min, max)
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}

	return "off"
}
