/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/ademuri/song-dashboard/internal/analysis"
	"github.com/ademuri/song-dashboard/internal/dataset"
)

type Analysis struct {
	results [][]string
	summary string
}

type Analyser interface {
	GetResults(agg *analysis.Aggregator, start time.Time, end time.Time) (Analysis, error)

	GetName() string
}

type Configurable interface {
	Configure(params map[string]string) error
}

func (a Analysis) String() string {
	out := new(bytes.Buffer)
	if len(a.results) > 1 {
		table := tablewriter.NewWriter(out)
		table.Header(a.results[0])
		for _, row := range a.results[1:] {
			if err := table.Append(row); err != nil {
				return fmt.Sprintf("Error rendering table: %v", err)
			}
		}
		if err := table.Render(); err != nil {
			return fmt.Sprintf("Error rendering table: %v", err)
		}
	}
	fmt.Fprintf(out, "%s\n", a.summary)
	return out.String()
}

// configurePlatform reads the "platform" parameter shared by the playlist
// analysers.
func configurePlatform(params map[string]string, p *dataset.Platform) error {
	v, ok := params["platform"]
	if !ok {
		return nil
	}
	platform, err := dataset.ParsePlatform(v)
	if err != nil {
		return err
	}
	*p = platform
	return nil
}

func formatCount(n int64) string {
	return strconv.FormatInt(n, 10)
}
