// Package source reads raw holdings tables from where providers publish them:
// an HTTP endpoint, an S3 bucket or local files.
package source

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/etnz/exposure"
)

// Fetcher retrieves a single holdings table.
type Fetcher struct {
	HTTP     *http.Client
	S3       ObjectGetter // created on first use when nil
	JSONPath string       // location of the records in JSON payloads
}

// Fetch reads the table at location: an http(s) URL, an s3://bucket/key
// location or a local file path. Errors wrap exposure.ErrSourceRead.
func (f *Fetcher) Fetch(ctx context.Context, location string) (*exposure.RawTable, error) {
	var (
		body        []byte
		contentType string
		err         error
	)
	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		client := f.HTTP
		if client == nil {
			client = http.DefaultClient
		}
		body, contentType, err = wget(ctx, client, location)
	case strings.HasPrefix(location, "s3://"):
		if f.S3 == nil {
			if f.S3, err = newS3Client(ctx); err != nil {
				break
			}
		}
		body, contentType, err = s3get(ctx, f.S3, location)
	default:
		body, err = os.ReadFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", exposure.ErrSourceRead, err)
	}
	return exposure.Decode(location, contentType, bytes.NewReader(body), f.JSONPath)
}

// Discover lists the CSV files of dir, sorted by name, leaving out the file
// at path exclude (the report output) when it lies in dir.
func Discover(dir, exclude string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot list %q: %w", dir, err)
	}
	if exclude != "" {
		if exclude, err = filepath.Abs(exclude); err != nil {
			return nil, fmt.Errorf("cannot resolve %q: %w", exclude, err)
		}
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(name), ".csv") {
			continue
		}
		if exclude != "" {
			if path, err := filepath.Abs(filepath.Join(dir, name)); err == nil && path == exclude {
				continue
			}
		}
		files = append(files, name)
	}
	slices.Sort(files)
	return files, nil
}

// ReadCSVFiles decodes the named files of dir. Files that cannot be read are
// reported to diag and skipped. Tables are identified by their file name.
func ReadCSVFiles(dir string, names []string, diag exposure.Collector) []*exposure.RawTable {
	var tables []*exposure.RawTable
	for _, name := range names {
		t, err := readCSV(filepath.Join(dir, name), name)
		if err != nil {
			diag.Skip(name, err)
			continue
		}
		tables = append(tables, t)
	}
	return tables
}

func readCSV(path, name string) (*exposure.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", exposure.ErrSourceRead, err)
	}
	defer f.Close()
	t, err := exposure.DecodeCSV(name, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", exposure.ErrSourceRead, err)
	}
	return t, nil
}
