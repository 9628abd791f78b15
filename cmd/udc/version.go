package main

import (
	"flag"
	"fmt"
	"os"

	udc "github.com/dealcipher/udc"
)

func runVersion(args []string) int {
	flags := flag.NewFlagSet("version", flag.ExitOnError)
	flags.Usage = func() { fmt.Fprintf(os.Stderr, "Usage: udc version\n") }
	_ = flags.Parse(args)

	fmt.Printf("udc engine %s\n", udc.EngineVersion)
	return exitOK
}
