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
	"cmp"
	"encoding/binary"
	"fmt"
	"math/rand"
	"runtime"
	"slices"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/wildcatdb/btindex/keyrange"
	"github.com/wildcatdb/btindex/tree"
)

// result is one measured operation
type result struct {
	Structure string
	Config    string
	Operation string
	LatencyNs int64  // Mean latency per operation
	MemMB     uint64 // Live heap after the operation
	Objects   uint64 // Live heap objects after the operation
}

// memoryStats is a post-GC heap sample
type memoryStats struct {
	AllocMB     uint64
	HeapObjects uint64
}

// readMemory forces a collection and samples the live heap
func readMemory() memoryStats {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return memoryStats{
		AllocMB:     m.Alloc / 1024 / 1024,
		HeapObjects: m.HeapObjects,
	}
}

// recorder appends timed results for one structure
type recorder struct {
	structure string
	config    string
	results   []result
}

// record closes the measurement started at start, averaged over ops operations
func (r *recorder) record(op string, start time.Time, ops int) {
	elapsed := time.Since(start).Nanoseconds()
	mem := readMemory()
	r.results = append(r.results, result{
		Structure: r.structure,
		Config:    r.config,
		Operation: op,
		LatencyNs: elapsed / int64(max(ops, 1)),
		MemMB:     mem.AllocMB,
		Objects:   mem.HeapObjects,
	})
}

// intKeys returns 0..n-1 shuffled
func intKeys(n int, seed int64) []int {
	return rand.New(rand.NewSource(seed)).Perm(n)
}

// stringKeys returns n distinct fixed width string keys, shuffled
func stringKeys(n int, seed int64) []string {
	keys := make([]string, n)
	for i, v := range rand.New(rand.NewSource(seed)).Perm(n) {
		keys[i] = fmt.Sprintf("user%010d", v)
	}
	return keys
}

// encodeInt maps an int to bytes whose lexical order matches numeric order
func encodeInt(k int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(k)^(1<<63))
	return b
}

func encodeString(k string) []byte {
	return []byte(k)
}

// benchmark runs the index workloads, and the pebble baseline when enabled
func benchmark[K cmp.Ordered](cfg config, keys []K, encode func(K) []byte, logs chan string) ([]result, error) {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)

	rng := rand.New(rand.NewSource(cfg.seed))
	starts := make([]int, cfg.scans)
	for i := range starts {
		starts[i] = rng.Intn(len(sorted) - cfg.span + 1)
	}

	results, err := indexSuite(cfg, keys, sorted, starts, logs)
	if err != nil {
		return nil, err
	}

	if cfg.pebble {
		baseline, err := pebbleSuite(keys, sorted, starts, cfg.span, encode)
		if err != nil {
			return nil, err
		}
		results = append(results, baseline...)
	}

	return results, nil
}

// indexSuite measures repeated inserts, lookups, scans, removal, bulk loading and export
func indexSuite[K cmp.Ordered](cfg config, keys, sorted []K, starts []int, logs chan string) ([]result, error) {
	opts := &tree.Options{Fanout: cfg.fanout, LogChannel: logs}

	idx, err := tree.New[K, int]("btbench", true, opts)
	if err != nil {
		return nil, err
	}

	rec := &recorder{structure: "btindex", config: "fanout=" + strconv.Itoa(idx.Fanout())}

	start := time.Now()
	for i, k := range keys {
		if err := idx.Add(k, i); err != nil {
			return nil, errors.Wrapf(err, "add key %v", k)
		}
	}
	rec.record("insert", start, len(keys))

	start = time.Now()
	for _, k := range keys {
		if len(idx.Get(k)) != 1 {
			return nil, errors.Newf("key %v lost after insert", k)
		}
	}
	rec.record("get", start, len(keys))

	start = time.Now()
	if got := len(idx.GetRange()); got != len(keys) {
		return nil, errors.Newf("full scan returned %d of %d rows", got, len(keys))
	}
	rec.record("scan_full", start, 1)

	start = time.Now()
	for _, s := range starts {
		idx.GetRange(keyrange.Bound(sorted[s], sorted[s+cfg.span-1], false, false))
	}
	rec.record("scan_range", start, len(starts))

	start = time.Now()
	for _, k := range keys {
		idx.Remove(k)
	}
	rec.record("remove", start, len(keys))

	if idx.Len() != 0 {
		return nil, errors.Newf("%d keys left after removing all", idx.Len())
	}

	pairs := make([]tree.Pair[K, int], len(sorted))
	for i, k := range sorted {
		pairs[i] = tree.Pair[K, int]{Key: k, Value: i}
	}

	start = time.Now()
	bulk, err := tree.NewFromSorted("btbench_bulk", true, pairs, opts)
	if err != nil {
		return nil, errors.Wrap(err, "bulk load")
	}
	rec.record("bulk_load", start, len(pairs))

	start = time.Now()
	data, err := bulk.Export()
	if err != nil {
		return nil, err
	}
	rec.record("export", start, 1)

	start = time.Now()
	restored, err := tree.Import[K, int](data, opts)
	if err != nil {
		return nil, err
	}
	rec.record("import", start, 1)

	if restored.Len() != bulk.Len() {
		return nil, errors.Newf("import restored %d of %d keys", restored.Len(), bulk.Len())
	}

	if cfg.verbose {
		shape := bulk.Shape()
		fmt.Printf("bulk tree: height %d, %d leaves, %d internal nodes, export %d bytes\n",
			shape.Height, shape.Leaves, shape.Internal, len(data))
	}

	return rec.results, nil
}
