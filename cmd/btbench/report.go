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
	"encoding/csv"
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var csvHeader = []string{"Structure", "Config", "Operation", "LatencyNs", "MemMB", "HeapObjects"}

// writeCSV writes one row per result
func writeCSV(path string, results []result) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create csv")
	}
	defer func() {
		_ = f.Close()
	}()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range results {
		row := []string{
			r.Structure,
			r.Config,
			r.Operation,
			strconv.FormatInt(r.LatencyNs, 10),
			strconv.FormatUint(r.MemMB, 10),
			strconv.FormatUint(r.Objects, 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "write csv")
	}
	return f.Sync()
}

// writePlot draws a grouped bar chart of latency per operation, one bar per structure.
// The image format follows the file extension.
func writePlot(path string, results []result) error {
	var operations, structures []string
	latency := make(map[string]map[string]float64)

	for _, r := range results {
		if latency[r.Structure] == nil {
			latency[r.Structure] = make(map[string]float64)
			structures = append(structures, r.Structure)
		}
		if !contains(operations, r.Operation) {
			operations = append(operations, r.Operation)
		}
		latency[r.Structure][r.Operation] = float64(r.LatencyNs)
	}

	p := plot.New()
	p.Title.Text = "btbench"
	p.Y.Label.Text = "ns/op"
	p.Legend.Top = true

	width := vg.Points(14)
	for i, s := range structures {
		values := make(plotter.Values, len(operations))
		for j, op := range operations {
			values[j] = latency[s][op]
		}

		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return errors.Wrapf(err, "bars for %s", s)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = width * vg.Length(float64(i)-float64(len(structures)-1)/2)

		p.Add(bars)
		p.Legend.Add(s, bars)
	}

	p.NominalX(operations...)

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrap(err, "save plot")
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
