package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/echoaio/aio"
)

func main() {
	var (
		library string
		output  bool
	)

	flag.StringVar(&library, "library", "", "Path to the EchoAIOInterface shared library.")
	flag.BoolVar(&output, "output", false, "Address an output channel instead of an input channel.")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <channel> [gain]\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "\nOptions:")
		for _, name := range []string{"library", "output"} {
			f := flag.Lookup(name)
			if f != nil {
				fmt.Fprintf(os.Stderr, "  --%s\n    \t%v (default %q)\n", f.Name, f.Usage, f.DefValue)
			}
		}
		fmt.Fprintln(os.Stderr, "\nWithout a gain argument, the current gain is printed.")
		fmt.Fprintln(os.Stderr, "A gain with a '%' suffix is mapped onto the channel's gain range.")
	}

	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		os.Exit(1)
	}

	channel, err := strconv.Atoi(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid channel '%s'\n", flag.Arg(0))
		os.Exit(1)
	}

	dev, err := aio.OpenPath(library)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening device: %v\n", err)
		os.Exit(1)
	}
	defer dev.Close()

	if output {
		runOutput(dev, channel)
	} else {
		runInput(dev, channel)
	}
}

func runInput(dev *aio.Device, channel int) {
	in, err := dev.Input(channel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flag.NArg() == 1 {
		gain, err := in.Gain()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading gain: %v\n", err)
			os.Exit(1)
		}

		min, max := in.GainRange()
		fmt.Printf("Input %d (%s): gain %d [%d, %d]\n", in.Index(), in.Module(), gain, min, max)

		return
	}

	if err := setGain(flag.Arg(1), in.SetGain, in.SetGainPercent); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting gain: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set input %d gain to %s.\n", channel, flag.Arg(1))
}

func runOutput(dev *aio.Device, channel int) {
	out, err := dev.Output(channel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flag.NArg() == 1 {
		gain, err := out.Gain()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading gain: %v\n", err)
			os.Exit(1)
		}

		min, max := out.GainRange()
		fmt.Printf("Output %d: gain %d [%d, %d]\n", out.Index(), gain, min, max)

		return
	}

	if err := setGain(flag.Arg(1), out.SetGain, out.SetGainPercent); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting gain: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set output %d gain to %s.\n", channel, flag.Arg(1))
}

// setGain parses a plain or percentage gain argument and applies it.
func setGain(value string, set func(int) error, setPercent func(int) error) error {
	if strings.HasSuffix(value, "%") {
		pct, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
		if err != nil {
			return fmt.Errorf("invalid percentage value '%s'", value)
		}

		return setPercent(pct)
	}

	gain, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid gain value '%s'", value)
	}

	return set(gain)
}
