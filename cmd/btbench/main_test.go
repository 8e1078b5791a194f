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
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfg := config{
		rows:    2000,
		fanout:  7,
		keys:    "int",
		seed:    3,
		scans:   20,
		span:    50,
		pebble:  true,
		csvPath: filepath.Join(dir, "results.csv"),
		plot:    filepath.Join(dir, "results.png"),
		verbose: true,
	}

	require.NoError(t, run(cfg))

	f, err := os.Open(cfg.csvPath)
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Equal(t, csvHeader, rows[0])

	var btindexRows, pebbleRows int
	for _, row := range rows[1:] {
		switch row[0] {
		case "btindex":
			btindexRows++
			require.Equal(t, "fanout=7", row[1])
		case "pebble":
			pebbleRows++
		}
	}
	require.Equal(t, 8, btindexRows)
	require.Equal(t, 5, pebbleRows)

	info, err := os.Stat(cfg.plot)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestRunStringKeys(t *testing.T) {
	require.NoError(t, run(config{rows: 500, keys: "string", seed: 1, scans: 5, span: 10, pebble: true}))
}

func TestRunErrors(t *testing.T) {
	require.Error(t, run(config{rows: 0, keys: "int"}))
	require.Error(t, run(config{rows: 10, keys: "float"}))
	require.Error(t, run(config{rows: 10, keys: "int", fanout: 4}))
}

func TestEncodeIntKeepsOrder(t *testing.T) {
	keys := []int{-1 << 40, -5, -1, 0, 1, 7, 1 << 40}
	for i := 1; i < len(keys); i++ {
		require.Negative(t, bytes.Compare(encodeInt(keys[i-1]), encodeInt(keys[i])))
	}
}

func TestSuccessor(t *testing.T) {
	k := []byte("abc")
	s := successor(k)

	require.Equal(t, []byte("abc\x00"), s)
	require.Equal(t, []byte("abc"), k)
	require.Positive(t, bytes.Compare(s, k))
	require.Negative(t, bytes.Compare(s, []byte("abd")))
}

func TestStringKeysDistinct(t *testing.T) {
	keys := stringKeys(1000, 9)
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		seen[k] = struct{}{}
	}
	require.Len(t, seen, 1000)
}
