package exposure

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// RawTable is a holdings table as published by a fund provider: an ordered list
// of column labels and the rows of cells aligned on them. Nothing is assumed
// about the labels.
type RawTable struct {
	Source  string     // file name or URL the table was read from
	Columns []string   // labels, in declared order
	Rows    [][]string // cells, aligned on Columns
}

// Cell returns the trimmed value of the cell in row at column index col, or ""
// if the row is too short.
func (t *RawTable) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// Index returns the position of the label in Columns, or -1.
func (t *RawTable) Index(label string) int {
	for i, c := range t.Columns {
		if c == label {
			return i
		}
	}
	return -1
}

// DecodeCSV reads a CSV holdings table. The first record is the header.
func DecodeCSV(source string, r io.Reader) (*RawTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // providers append footers with fewer fields

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header of %q: %w", source, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := &RawTable{Source: source, Columns: header}
	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d of %q: failed to read CSV record: %w", rowNum+1, source, err)
		}
		rowNum++
		t.Rows = append(t.Rows, record)
	}
	return t, nil
}

// DecodeJSON reads a JSON holdings table. The document is either an array of
// objects, or any document from which the JSONPath expression selects such an
// array. An empty path means "$".
//
// Columns are the union of the object keys, in order of first appearance, the
// keys of each object being visited in sorted order.
func DecodeJSON(source string, r io.Reader, jpath string) (*RawTable, error) {
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode JSON %q: %w", source, err)
	}
	if jpath == "" {
		jpath = "$"
	}
	val, err := jsonpath.Get(jpath, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to select %q in %q: %w", jpath, source, err)
	}
	// jsonpath wraps wildcard results in a list: unwrap a list containing the single array.
	if list, ok := val.([]any); ok && len(list) == 1 {
		if inner, ok := list[0].([]any); ok {
			val = inner
		}
	}
	items, ok := val.([]any)
	if !ok {
		return nil, fmt.Errorf("%q in %q is not an array of records", jpath, source)
	}

	t := &RawTable{Source: source}
	index := make(map[string]int)
	records := make([]map[string]any, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %d of %q is not an object", i, source)
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, exists := index[k]; !exists {
				index[k] = len(t.Columns)
				t.Columns = append(t.Columns, k)
			}
		}
		records = append(records, obj)
	}
	for _, obj := range records {
		row := make([]string, len(t.Columns))
		for k, v := range obj {
			row[index[k]] = scalar(v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// scalar formats a decoded JSON value as a cell.
func scalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}

// IsCSV tells whether a payload should be parsed as CSV: the content type
// mentions csv or the source name ends with ".csv".
func IsCSV(source, contentType string) bool {
	if strings.Contains(strings.ToLower(contentType), "csv") {
		return true
	}
	// drop any query string before looking at the extension
	name, _, _ := strings.Cut(source, "?")
	return strings.EqualFold(path.Ext(name), ".csv")
}

// Decode sniffs the payload format and decodes the table accordingly.
func Decode(source, contentType string, r io.Reader, jpath string) (*RawTable, error) {
	var (
		t   *RawTable
		err error
	)
	if IsCSV(source, contentType) {
		t, err = DecodeCSV(source, r)
	} else {
		t, err = DecodeJSON(source, r, jpath)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceRead, err)
	}
	return t, nil
}
