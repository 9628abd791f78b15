// Command udc computes deal-level tax, structure, and disclosures for a
// cash, finance, or lease vehicle deal.
package main

import (
	"fmt"
	"os"
)

const (
	exitOK       = 0
	exitWarnings = 1
	exitError    = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		usage()
		return exitError
	}

	switch os.Args[1] {
	case "calculate":
		return runCalculate(os.Args[2:])
	case "batch":
		return runBatch(os.Args[2:])
	case "version":
		return runVersion(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", os.Args[1])
		usage()
		return exitError
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: udc <command> [options]

Commands:
  calculate   Run the deal pipeline for a single deal
  batch       Run the deal pipeline for a newline-delimited-JSON batch
  version     Print engine version information

Use "udc <command> --help" for more information about a command.
`)
}
