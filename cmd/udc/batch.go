package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	udc "github.com/dealcipher/udc"
)

func runBatch(args []string) int {
	flags := flag.NewFlagSet("batch", flag.ExitOnError)
	concurrency := flags.Int("concurrency", 0, "Max concurrent deals (0 = unbounded)")
	configPath := flags.String("config", "", "Path to a YAML config file")
	flags.Usage = batchUsage
	_ = flags.Parse(args)

	if flags.NArg() != 1 {
		batchUsage()
		return exitError
	}

	inputs, err := readBatchInputs(flags.Arg(0))
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

	engine := udc.NewEngine(defaultRepository(), cfg, nil)
	results, err := engine.BatchProcess(context.Background(), inputs, *concurrency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}

	enc := json.NewEncoder(os.Stdout)
	failed := false
	for _, r := range results {
		if r.Err != nil {
			failed = true
			fmt.Fprintf(os.Stderr, "deal %d: %v\n", r.Index, r.Err)
			continue
		}
		if err := enc.Encode(r.Output); err != nil {
			fmt.Fprintf(os.Stderr, "deal %d: encoding output: %v\n", r.Index, err)
			failed = true
		}
	}

	if failed {
		return exitError
	}
	return exitOK
}

// readBatchInputs reads one DealInput per line (newline-delimited JSON),
// the usual shape for a batch produced by another system's export step.
func readBatchInputs(path string) ([]udc.DealInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}
	defer f.Close()

	var inputs []udc.DealInput
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var input udc.DealInput
		if err := json.Unmarshal(line, &input); err != nil {
			return nil, fmt.Errorf("parsing batch line: %w", err)
		}
		inputs = append(inputs, input)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}
	return inputs, nil
}

func batchUsage() {
	fmt.Fprintf(os.Stderr, `Usage: udc batch [options] <deals.ndjson>

Runs the pipeline for a newline-delimited-JSON batch of deals, writing one
JSON UdcOutput per line to stdout. A deal's failure is reported on stderr
and does not abort the rest of the batch.

Options:
  --concurrency int   Max concurrent deals, 0 for unbounded (default 0)
  --config string     Path to a YAML config file
  --help              Show this help message
`)
}
