package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	udc "github.com/dealcipher/udc"
	"github.com/dealcipher/udc/corpus"
)

func runCalculate(args []string) int {
	flags := flag.NewFlagSet("calculate", flag.ExitOnError)
	format := flags.String("format", "json", "Output format: json, xml, text")
	strict := flags.Bool("strict", false, "Promote validation warnings to errors")
	configPath := flags.String("config", "", "Path to a YAML config file")
	flags.Usage = calculateUsage
	_ = flags.Parse(args)

	if flags.NArg() != 1 {
		calculateUsage()
		return exitError
	}

	input, err := readDealInput(flags.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}

	cfg := udc.DefaultConfig()
	if *configPath != "" {
		cfg, err = udc.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
			return exitError
		}
	}
	cfg.StrictMode = cfg.StrictMode || *strict

	engine := udc.NewEngine(defaultRepository(), cfg, nil)
	output, err := engine.Run(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}

	switch *format {
	case "json":
		if err := writeJSON(os.Stdout, output); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitError
		}
	case "xml":
		if err := udc.WriteXML(output, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitError
		}
	case "text":
		printText(output)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q (use 'json', 'xml', or 'text')\n", *format)
		return exitError
	}

	if len(output.Validation.Warnings) > 0 {
		return exitWarnings
	}
	return exitOK
}

func readDealInput(path string) (udc.DealInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return udc.DealInput{}, fmt.Errorf("reading input: %w", err)
	}
	defer f.Close()

	var input udc.DealInput
	if err := json.NewDecoder(f).Decode(&input); err != nil {
		return udc.DealInput{}, fmt.Errorf("parsing input: %w", err)
	}
	return input, nil
}

func writeJSON(w *os.File, output udc.UdcOutput) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func defaultRepository() corpus.Repository {
	return corpus.NewStaticRepository(corpus.BuiltinProfiles(), nil, corpus.DefaultProfile)
}

func calculateUsage() {
	fmt.Fprintf(os.Stderr, `Usage: udc calculate [options] <deal.json>

Runs the pipeline for a single deal, described as JSON matching DealInput.

Options:
  --format string   Output format: json, xml, text (default "json")
  --strict          Promote validation warnings to errors
  --config string   Path to a YAML config file
  --help            Show this help message

Exit codes:
  0  Deal calculated with no warnings
  1  Deal calculated with warnings
  2  Error occurred (file not found, parse error, calculation failure)
`)
}
