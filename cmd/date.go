package cmd

import (
	"fmt"
	"regexp"
	"time"
)

// ParsedDate is a date argument along with the precision it was given in.
type ParsedDate struct {
	Date time.Time

	Year  bool
	Month bool
	Day   bool
}

// parseDateRangeFromArgs turns zero, one or two date arguments into an
// inclusive range of days. With no arguments the range is [first, last].
func parseDateRangeFromArgs(args []string, first, last time.Time) (start time.Time, end time.Time, err error) {
	switch len(args) {
	case 0:
		start, end = first, last

	case 1:
		start, end, err = getImplicitDateRange(args[0])
		end = end.AddDate(0, 0, -1)

	case 2:
		start, end, err = getExplicitDateRange(args[0], args[1])

	default:
		err = fmt.Errorf("Expected at most two date arguments")
	}
	return
}

// getImplicitDateRange returns the period covered by ds. end is exclusive.
func getImplicitDateRange(ds string) (start time.Time, end time.Time, err error) {
	date, err := parseSingleDatestring(ds)
	if err != nil {
		return
	}

	start = date.Date
	switch {
	case date.Year:
		end = start.AddDate(1, 0, 0)

	case date.Month:
		end = start.AddDate(0, 1, 0)

	case date.Day:
		end = start.AddDate(0, 0, 1)

	default:
		err = fmt.Errorf("Invalid format: %q", ds)
	}

	return
}

// getExplicitDateRange returns the first day of startString through the last
// day of endString, so "2020 2021-03" ends on 2021-03-31.
func getExplicitDateRange(startString, endString string) (start time.Time, end time.Time, err error) {
	startParsed, err := parseSingleDatestring(startString)
	if err != nil {
		return
	}
	start = startParsed.Date

	_, endExclusive, err := getImplicitDateRange(endString)
	if err != nil {
		return
	}
	end = endExclusive.AddDate(0, 0, -1)

	if end.Before(start) {
		err = fmt.Errorf("End date %s is before start date %s", endString, startString)
	}
	return
}

func parseSingleDatestring(ds string) (date ParsedDate, err error) {
	matched, err := regexp.Match(`^\d{4}$`, []byte(ds))
	if err != nil {
		err = fmt.Errorf("Parsing datestring as year: %w", err)
		return
	}
	if matched {
		date.Date, err = time.Parse("2006", ds)
		if err != nil {
			err = fmt.Errorf("Parsing datestring as year: %w", err)
			return
		}
		date.Year = true
		return
	}

	matched, err = regexp.Match(`^\d{4}-\d{2}$`, []byte(ds))
	if err != nil {
		err = fmt.Errorf("Parsing datestring as month: %w", err)
		return
	}
	if matched {
		date.Date, err = time.Parse("2006-01", ds)
		if err != nil {
			err = fmt.Errorf("Parsing datestring as month: %w", err)
			return
		}
		date.Month = true
		return
	}

	matched, err = regexp.Match(`^\d{4}-\d{2}-\d{2}$`, []byte(ds))
	if err != nil {
		err = fmt.Errorf("Parsing datestring as day: %w", err)
		return
	}
	if matched {
		date.Date, err = time.Parse("2006-01-02", ds)
		if err != nil {
			err = fmt.Errorf("Parsing datestring as day: %w", err)
			return
		}
		date.Day = true
		return
	}

	err = fmt.Errorf("Invalid format: %q", ds)
	return
}

// splitDateArgs peels up to two trailing date arguments off args.
func splitDateArgs(args []string) (rest []string, dates []string) {
	rest = args
	for i := 0; i < 2 && len(rest) > 0; i++ {
		if _, err := parseSingleDatestring(rest[len(rest)-1]); err != nil {
			break
		}
		dates = append([]string{rest[len(rest)-1]}, dates...)
		rest = rest[:len(rest)-1]
	}
	return
}
