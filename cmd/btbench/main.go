// Package main
//
// (C) Copyright Alex Gaetano Padula
//
// Licensed under the Mozilla Public License, v. 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
)

// config holds the command line settings of one benchmark run
type config struct {
	rows    int    // Number of distinct keys
	fanout  int    // Tree fanout, 0 for the default
	keys    string // Key type, int or string
	seed    int64  // Seed for key shuffling and scan positions
	scans   int    // Number of bounded range scans
	span    int    // Keys per bounded range scan
	pebble  bool   // Also run the pebble baseline
	csvPath string // CSV output file, empty to skip
	plot    string // Chart output file (.png or .svg), empty to skip
	verbose bool   // Print index log messages
}

func main() {
	cfg := config{}

	flag.IntVar(&cfg.rows, "rows", 100000, "number of distinct keys")
	flag.IntVar(&cfg.fanout, "fanout", 0, "tree fanout, must be odd (0 uses the default)")
	flag.StringVar(&cfg.keys, "keys", "int", "key type: int or string")
	flag.Int64Var(&cfg.seed, "seed", 1, "random seed")
	flag.IntVar(&cfg.scans, "scans", 1000, "number of bounded range scans")
	flag.IntVar(&cfg.span, "span", 100, "keys covered by each bounded range scan")
	flag.BoolVar(&cfg.pebble, "pebble", false, "also benchmark an in-memory pebble store")
	flag.StringVar(&cfg.csvPath, "csv", "", "write results as CSV to this file")
	flag.StringVar(&cfg.plot, "plot", "", "write a latency chart to this file (.png or .svg)")
	flag.BoolVar(&cfg.verbose, "verbose", false, "print index log messages")
	flag.Parse()

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "btbench: %v\n", err)
		os.Exit(1)
	}
}

// run executes every workload selected by cfg and writes the reports
func run(cfg config) error {
	if cfg.rows <= 0 {
		return errors.Newf("rows must be positive, got %d", cfg.rows)
	}
	if cfg.span <= 0 || cfg.span > cfg.rows {
		cfg.span = cfg.rows
	}

	var logs chan string
	var wg sync.WaitGroup
	if cfg.verbose {
		logs = make(chan string, 64)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for msg := range logs {
				fmt.Fprintln(os.Stderr, msg)
			}
		}()
	}

	var (
		results []result
		err     error
	)

	switch cfg.keys {
	case "int":
		results, err = benchmark(cfg, intKeys(cfg.rows, cfg.seed), encodeInt, logs)
	case "string":
		results, err = benchmark(cfg, stringKeys(cfg.rows, cfg.seed), encodeString, logs)
	default:
		err = errors.Newf("unknown key type %q", cfg.keys)
	}

	if logs != nil {
		close(logs)
		wg.Wait()
	}

	if err != nil {
		return err
	}

	printResults(results)

	if peak, ok := peakRSS(); ok {
		fmt.Printf("\npeak RSS: %.1f MB\n", float64(peak)/(1<<20))
	}

	if cfg.csvPath != "" {
		if err := writeCSV(cfg.csvPath, results); err != nil {
			return err
		}
	}

	if cfg.plot != "" {
		if err := writePlot(cfg.plot, results); err != nil {
			return err
		}
	}

	return nil
}

// printResults writes a table of results to stdout
func printResults(results []result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STRUCTURE\tCONFIG\tOPERATION\tNS/OP\tMEM MB\tHEAP OBJECTS")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n", r.Structure, r.Config, r.Operation, r.LatencyNs, r.MemMB, r.Objects)
	}
	_ = w.Flush()
}
