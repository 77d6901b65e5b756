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
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestGetImplicitDateRange_year(t *testing.T) {
	doTestGetImplicitDateRange(t, "2020", "2021", "2006")
}

func TestGetImplicitDateRange_month(t *testing.T) {
	doTestGetImplicitDateRange(t, "2020-01", "2020-02", "2006-01")
}

func TestGetImplicitDateRange_day(t *testing.T) {
	doTestGetImplicitDateRange(t, "2020-01-01", "2020-01-02", "2006-01-02")
}

func TestGetImplicitDateRange_invalid(t *testing.T) {
	tooMany := "2020-01-0123"
	_, _, err := getImplicitDateRange(tooMany)
	if err == nil {
		t.Fatalf("Expected error parsing %q", tooMany)
	}
	if !strings.Contains(err.Error(), "Invalid format") {
		t.Fatalf("Should have error with invalid format: %v", err)
	}

	letters := "not_real"
	_, _, err = getImplicitDateRange(letters)
	if err == nil {
		t.Fatalf("Expected error parsing %q", letters)
	}
	if !strings.Contains(err.Error(), "Invalid format") {
		t.Fatalf("Should have error with invalid format: %v", err)
	}
}

func doTestGetImplicitDateRange(t *testing.T, startString string, endString string, format string) {
	start, end, err := getImplicitDateRange(startString)
	if err != nil {
		t.Fatalf("Parsing year string: %v", err)
	}

	expectedStart, err := time.Parse(format, startString)
	if err != nil {
		t.Fatalf("Constructing expectedStart: %v", err)
	}

	expectedEnd, err := time.Parse(format, endString)
	if err != nil {
		t.Fatalf("Constructing expectedEnd: %v", err)
	}

	if start != expectedStart {
		t.Fatalf("Expected start to be %q, got %q", expectedStart, start)
	}

	if end != expectedEnd {
		t.Fatalf("Expected end to be %q, got %q", expectedEnd, end)
	}
}

func TestGetExplicitDateRange_valid(t *testing.T) {
	tests := []struct {
		start, end       string
		wantStart, wantEnd time.Time
	}{
		{"2020", "2020-02-01", date(2020, 1, 1), date(2020, 2, 1)},
		{"2020", "2020-02", date(2020, 1, 1), date(2020, 2, 29)},
		{"2019-06", "2021", date(2019, 6, 1), date(2021, 12, 31)},
	}

	for _, test := range tests {
		start, end, err := getExplicitDateRange(test.start, test.end)
		if err != nil {
			t.Fatalf("getExplicitDateRange(%q, %q): %v", test.start, test.end, err)
		}
		if start != test.wantStart {
			t.Errorf("getExplicitDateRange(%q, %q) start = %v, want %v", test.start, test.end, start, test.wantStart)
		}
		if end != test.wantEnd {
			t.Errorf("getExplicitDateRange(%q, %q) end = %v, want %v", test.start, test.end, end, test.wantEnd)
		}
	}
}

func TestGetExplicitDateRange_invalid(t *testing.T) {
	_, _, err := getExplicitDateRange("2020", "abc")
	if err == nil {
		t.Fatalf("Expected error when parsing invalid datestring")
	}

	_, _, err = getExplicitDateRange("2021", "2020-12")
	if err == nil {
		t.Fatalf("Expected error when end is before start")
	}
}

func TestParseDateRangeFromArgs(t *testing.T) {
	first, last := date(2019, 3, 4), date(2023, 7, 14)

	tests := []struct {
		args               []string
		wantStart, wantEnd time.Time
	}{
		{nil, first, last},
		{[]string{"2022"}, date(2022, 1, 1), date(2022, 12, 31)},
		{[]string{"2022-02"}, date(2022, 2, 1), date(2022, 2, 28)},
		{[]string{"2022-02-03"}, date(2022, 2, 3), date(2022, 2, 3)},
		{[]string{"2021-05", "2022-01-10"}, date(2021, 5, 1), date(2022, 1, 10)},
	}

	for _, test := range tests {
		start, end, err := parseDateRangeFromArgs(test.args, first, last)
		if err != nil {
			t.Fatalf("parseDateRangeFromArgs(%q): %v", test.args, err)
		}
		if start != test.wantStart || end != test.wantEnd {
			t.Errorf("parseDateRangeFromArgs(%q) = %v, %v, want %v, %v", test.args, start, end, test.wantStart, test.wantEnd)
		}
	}

	if _, _, err := parseDateRangeFromArgs([]string{"2020", "2021", "2022"}, first, last); err == nil {
		t.Errorf("Expected error with three date arguments")
	}
}

func TestSplitDateArgs(t *testing.T) {
	tests := []struct {
		args      []string
		wantRest  []string
		wantDates []string
	}{
		{[]string{"streams", "keys"}, []string{"streams", "keys"}, nil},
		{[]string{"streams", "2022"}, []string{"streams"}, []string{"2022"}},
		{[]string{"streams", "2022", "2023-01"}, []string{"streams"}, []string{"2022", "2023-01"}},
		{[]string{"2021", "2022", "2023"}, []string{"2021"}, []string{"2022", "2023"}},
	}

	for _, test := range tests {
		rest, dates := splitDateArgs(test.args)
		if !reflect.DeepEqual(rest, test.wantRest) || !reflect.DeepEqual(dates, test.wantDates) {
			t.Errorf("splitDateArgs(%q) = %q, %q, want %q, %q", test.args, rest, dates, test.wantRest, test.wantDates)
		}
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
