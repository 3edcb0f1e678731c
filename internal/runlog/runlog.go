// Package runlog keeps a CSV history of pipeline runs alongside the dataset.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp    time.Time
	Fetched      int // statement documents downloaded
	Extracted    int // records extracted from them
	DatasetSize  int // dataset rows after merge
	ReportPeriod string
	Status       string // "ok", "no-data", "failed"
	Details      string
}

// Header is the CSV header for runs.csv.
const Header = "timestamp,fetched,extracted,dataset_size,report_period,status,details"

const (
	numFields  = 7
	logFile    = "runs.csv"
	colTime    = 0
	colFetched = 1
	colExtract = 2
	colDataset = 3
	colPeriod  = 4
	colStatus  = 5
	colDetails = 6
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colFetched] = strconv.Itoa(e.Fetched)
	row[colExtract] = strconv.Itoa(e.Extracted)
	row[colDataset] = strconv.Itoa(e.DatasetSize)
	row[colPeriod] = e.ReportPeriod
	row[colStatus] = e.Status
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}
	fetched, err := strconv.Atoi(record[colFetched])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing fetched %q: %w", record[colFetched], err)
	}
	extracted, err := strconv.Atoi(record[colExtract])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing extracted %q: %w", record[colExtract], err)
	}
	size, err := strconv.Atoi(record[colDataset])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing dataset_size %q: %w", record[colDataset], err)
	}

	return Entry{
		Timestamp:    ts,
		Fetched:      fetched,
		Extracted:    extracted,
		DatasetSize:  size,
		ReportPeriod: record[colPeriod],
		Status:       record[colStatus],
		Details:      record[colDetails],
	}, nil
}

// Append writes an entry to <dataDir>/runs.csv, creating the file and header
// if needed.
func Append(dataDir string, e Entry) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	path := filepath.Join(dataDir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return writeEntry(f, needsHeader, e)
}

func writeEntry(w io.Writer, withHeader bool, e Entry) error {
	cw := csv.NewWriter(w)

	if withHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := cw.Write(MarshalEntry(e)); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}

	// Flush before checking the error so buffered write failures are not lost.
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dataDir>/runs.csv. A missing file yields an
// empty slice.
func Read(dataDir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dataDir, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
