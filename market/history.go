package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/xyproto/unzip"
)

// LoadHistoryCSV reads pre-closed OHLCV candles from a CSV file with a
// datetime,open,high,low,close,volume header. Plain .csv, .csv.xz and .zip
// archives (containing a single CSV) are supported. Rows with unparsable
// fields are skipped; the result is sorted by time ascending.
func LoadHistoryCSV(path string) ([]Candle, error) {
	switch {
	case strings.HasSuffix(path, ".xz"):
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open history %s: %w", path, err)
		}
		defer f.Close()
		r, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("xz reader %s: %w", path, err)
		}
		return parseHistory(r)

	case strings.HasSuffix(path, ".zip"):
		dir, err := os.MkdirTemp("", "paperbot-history-*")
		if err != nil {
			return nil, err
		}
		defer os.RemoveAll(dir)
		if err := unzip.Extract(path, dir); err != nil {
			return nil, fmt.Errorf("unzip %s: %w", path, err)
		}
		csvPath, err := findCSV(dir)
		if err != nil {
			return nil, fmt.Errorf("archive %s: %w", path, err)
		}
		f, err := os.Open(csvPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return parseHistory(f)

	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open history %s: %w", path, err)
		}
		defer f.Close()
		return parseHistory(f)
	}
}

func findCSV(dir string) (string, error) {
	var found string
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".csv") && found == "" {
			found = p
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("no CSV file inside archive")
	}
	return found, nil
}

func parseHistory(r io.Reader) ([]Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"datetime", "open", "high", "low", "close", "volume"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var out []Candle
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) < len(header) {
			continue
		}

		ts, err := parseTime(row[col["datetime"]])
		if err != nil {
			continue
		}
		c := Candle{Time: ts}
		ok := true
		for _, f := range []struct {
			name string
			dst  *float64
		}{
			{"open", &c.Open},
			{"high", &c.High},
			{"low", &c.Low},
			{"close", &c.Close},
			{"volume", &c.Volume},
		} {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[col[f.name]]), 64)
			if err != nil {
				ok = false
				break
			}
			*f.dst = v
		}
		if !ok {
			continue
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
