package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadCSV reads a price table from a CSV file with a header row of
// "date,TICKER1,TICKER2,...". Dates accept YYYY-MM-DD or RFC3339. Empty
// cells become NaN (no price for that ticker on that date).
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses a price table from r. See LoadCSV for the expected format.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 2 || !strings.EqualFold(strings.TrimSpace(header[0]), "date") {
		return nil, fmt.Errorf("bad header (want date,TICKER,...): %v", header)
	}

	tickers := make([]string, 0, len(header)-1)
	for _, h := range header[1:] {
		ticker := strings.TrimSpace(h)
		if ticker == "" {
			return nil, fmt.Errorf("empty ticker name in header: %v", header)
		}
		tickers = append(tickers, ticker)
	}

	var dates []time.Time
	cols := make(map[string][]float64, len(tickers))
	for _, ticker := range tickers {
		cols[ticker] = nil
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}
		if len(row) != len(tickers)+1 {
			return nil, fmt.Errorf("row %d has %d columns, want %d", len(dates)+1, len(row), len(tickers)+1)
		}

		t, err := parseDate(row[0])
		if err != nil {
			return nil, err
		}
		dates = append(dates, t)

		for i, ticker := range tickers {
			cell := strings.TrimSpace(row[i+1])
			if cell == "" {
				cols[ticker] = append(cols[ticker], math.NaN())
				continue
			}
			px, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("bad price %q for %s on %s: %w", cell, ticker, row[0], err)
			}
			cols[ticker] = append(cols[ticker], px)
		}
	}

	return New(dates, cols)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	t, err2 := time.Parse(time.RFC3339, s)
	if err2 == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("bad date %q: %w", s, err)
}
