package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"invoicing/internal/report"
)

const dateLayout = "2006-01-02"

// parseDate parses a YYYY-MM-DD flag value in local time. An empty value yields nil.
func parseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q. Use YYYY-MM-DD: %w", value, err)
	}
	return &t, nil
}

// parseEndDate parses an inclusive end date: the result is the last instant of that day.
func parseEndDate(value string) (*time.Time, error) {
	t, err := parseDate(value)
	if err != nil || t == nil {
		return t, err
	}
	end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return &end, nil
}

// dateRange resolves optional bounds. A missing start is the zero time and a
// missing end stays open up to report.MaxTime.
func dateRange(from, to *time.Time) (time.Time, time.Time) {
	start, end := time.Time{}, report.MaxTime
	if from != nil {
		start = *from
	}
	if to != nil {
		end = *to
	}
	return start, end
}

// parseAmount parses a decimal flag value, accepting a comma as decimal separator.
func parseAmount(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(value), ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", name, value, err)
	}
	return d, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
