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
	var library string

	flag.StringVar(&library, "library", "", "Path to the EchoAIOInterface shared library.")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <channel> [on|off]\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "\nOptions:")
		if f := flag.Lookup("library"); f != nil {
			fmt.Fprintf(os.Stderr, "  --%s\n    \t%v (default %q)\n", f.Name, f.Usage, f.DefValue)
		}
		fmt.Fprintln(os.Stderr, "\nWithout a state argument, the current constant-current state is printed.")
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

	in, err := dev.Input(channel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flag.NArg() == 1 {
		enabled, err := in.ConstantCurrent()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading constant-current state: %v\n", err)
			os.Exit(1)
		}

		state := "off"
		if enabled {
			state = "on"
		}

		fmt.Printf("Input %d (%s): CCP %s\n", in.Index(), in.Module(), state)

		return
	}

	enable, err := parseBool(flag.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := in.SetConstantCurrent(enable); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting constant-current state: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set input %d CCP to %s.\n", channel, flag.Arg(1))
}

// parseBool is a helper to interpret various string representations of a boolean.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "on", "true", "yes":
		return true, nil
	case "0", "off", "false", "no":
		return false, nil
	}

	return false, fmt.Errorf("invalid boolean value '%s'", s)
}
