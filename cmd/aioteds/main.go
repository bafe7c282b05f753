package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/echoaio/aio"
)

func main() {
	var (
		library string
		raw     bool
	)

	flag.StringVar(&library, "library", "", "Path to the EchoAIOInterface shared library.")
	flag.BoolVar(&raw, "raw", false, "Dump the raw TEDS block as hex instead of parsing it.")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <channel>\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "\nOptions:")
		for _, name := range []string{"library", "raw"} {
			f := flag.Lookup(name)
			if f != nil {
				fmt.Fprintf(os.Stderr, "  --%s\n    \t%v (default %q)\n", f.Name, f.Usage, f.DefValue)
			}
		}
	}

	flag.Parse()

	if flag.NArg() != 1 {
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

	data, err := in.ReadTEDSData()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading TEDS: %v\n", err)
		os.Exit(1)
	}

	if raw {
		fmt.Printf("Input %d: %d TEDS bytes\n", channel, len(data))
		for i := 0; i < len(data); i += 16 {
			end := i + 16
			if end > len(data) {
				end = len(data)
			}

			fmt.Printf("  %04x: % x\n", i, data[i:end])
		}

		return
	}

	info, err := aio.ParseBasicTEDS(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing TEDS: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Input %d: %s\n", channel, info)
}
