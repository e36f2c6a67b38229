
package ioformats

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"docsite-frame-checker/internal/models"
)

// ReadPaths reads site paths from a CSV (header with "path" or "url") or
// NDJSON file. If ext cannot be determined, tries CSV first then NDJSON.
func ReadPaths(path string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return readCSV(path)
	case ".ndjson", ".jsonl":
		return readNDJSON(path)
	default:
		// try csv then ndjson
		if paths, err := readCSV(path); err == nil && len(paths) > 0 {
			return paths, nil
		}
		return readNDJSON(path)
	}
}

func readCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty csv")
	}
	// find "path" column, "url" as a fallback
	col := -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "path":
			col = i
		case "url":
			if col == -1 {
				col = i
			}
		}
	}
	if col == -1 {
		return nil, errors.New("csv must contain a 'path' or 'url' header column")
	}
	var out []string
	for _, row := range rows[1:] {
		if col < len(row) {
			p := strings.TrimSpace(row[col])
			if p != "" {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func readNDJSON(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		// allow raw string or {"path": "..."}
		if strings.HasPrefix(line, "{") {
			var obj map[string]any
			if err := json.Unmarshal([]byte(line), &obj); err == nil {
				if p := firstString(obj, "path", "url"); p != "" {
					out = append(out, p)
					continue
				}
			}
		}
		// fallback: treat whole line as a path
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("no paths found in ndjson")
	}
	return out, nil
}

func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// WriteNDJSON writes any JSON-marshalable items as NDJSON to w.
func WriteNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}

var resultHeader = []string{"suite", "name", "lang", "version", "status", "duration_ms", "error", "skip_reason"}

// WriteResultsCSV writes check results with a header row.
func WriteResultsCSV(w io.Writer, results []models.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultHeader); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.Suite, r.Name, r.Lang, r.Version, string(r.Status),
			strconv.FormatInt(r.DurationMs, 10), r.Error, r.SkipReason,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
