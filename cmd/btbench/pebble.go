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
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

// pebbleSuite runs the same workloads against an in-memory pebble store
func pebbleSuite[K cmp.Ordered](keys, sorted []K, starts []int, span int, encode func(K) []byte) ([]result, error) {
	db, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	if err != nil {
		return nil, errors.Wrap(err, "open pebble")
	}
	defer func() {
		_ = db.Close()
	}()

	rec := &recorder{structure: "pebble", config: "memfs"}
	value := make([]byte, 8)

	start := time.Now()
	for i, k := range keys {
		binary.BigEndian.PutUint64(value, uint64(i))
		if err := db.Set(encode(k), value, pebble.NoSync); err != nil {
			return nil, errors.Wrap(err, "pebble set")
		}
	}
	rec.record("insert", start, len(keys))

	start = time.Now()
	for _, k := range keys {
		_, closer, err := db.Get(encode(k))
		if err != nil {
			return nil, errors.Wrapf(err, "pebble get %v", k)
		}
		_ = closer.Close()
	}
	rec.record("get", start, len(keys))

	start = time.Now()
	if _, err := scan(db, nil); err != nil {
		return nil, err
	}
	rec.record("scan_full", start, 1)

	start = time.Now()
	for _, s := range starts {
		opts := &pebble.IterOptions{
			LowerBound: encode(sorted[s]),
			UpperBound: successor(encode(sorted[s+span-1])),
		}
		if _, err := scan(db, opts); err != nil {
			return nil, err
		}
	}
	rec.record("scan_range", start, len(starts))

	start = time.Now()
	for _, k := range keys {
		if err := db.Delete(encode(k), pebble.NoSync); err != nil {
			return nil, errors.Wrap(err, "pebble delete")
		}
	}
	rec.record("remove", start, len(keys))

	return rec.results, nil
}

// scan reads every value visible through opts and returns how many it saw
func scan(db *pebble.DB, opts *pebble.IterOptions) (int, error) {
	iter, err := db.NewIter(opts)
	if err != nil {
		return 0, errors.Wrap(err, "pebble iterator")
	}

	n := 0
	for iter.First(); iter.Valid(); iter.Next() {
		_ = iter.Value()
		n++
	}

	return n, iter.Close()
}

// successor returns the smallest key sorting after k, turning an inclusive
// bound into pebble's exclusive UpperBound
func successor(k []byte) []byte {
	return append(k[:len(k):len(k)], 0)
}
