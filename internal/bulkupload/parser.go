package bulkupload

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseExcel reads the first sheet of an uploaded workbook. The header row
// holds dot-notation field paths; each following non-empty row becomes one
// JSON record.
func ParseExcel(r io.Reader) ([]json.RawMessage, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read spreadsheet: %v", ErrInvalidBatch, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: spreadsheet has no sheets", ErrInvalidBatch)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBatch, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: spreadsheet needs a header row and at least one record", ErrInvalidBatch)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		h = strings.TrimSpace(strings.TrimSuffix(h, "*"))
		headers[i] = h
	}

	var out []json.RawMessage
	for _, row := range rows[1:] {
		rec := make(map[string]interface{})
		for i, cell := range row {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			setPath(rec, strings.Split(headers[i], "."), cell)
		}
		if len(rec) == 0 {
			continue
		}
		data, err := json.Marshal(arrayify(rec))
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}

// setPath stores value under a nested path. A path that collides with an
// existing scalar is dropped.
func setPath(m map[string]interface{}, path []string, value string) {
	for i, seg := range path {
		if i == len(path)-1 {
			if _, exists := m[seg]; !exists {
				m[seg] = value
			}
			return
		}
		next, ok := m[seg].(map[string]interface{})
		if !ok {
			if _, exists := m[seg]; exists {
				return
			}
			next = make(map[string]interface{})
			m[seg] = next
		}
		m = next
	}
}

// arrayify converts maps whose keys are all indexes ("0", "1") into slices.
func arrayify(v interface{}) interface{} {
	m, ok := v.(map[string]interface{})
	if !ok {
		return v
	}
	for k, child := range m {
		m[k] = arrayify(child)
	}

	idxs := make([]int, 0, len(m))
	for k := range m {
		n, err := strconv.Atoi(k)
		if err != nil || n < 0 {
			return m
		}
		idxs = append(idxs, n)
	}
	if len(idxs) == 0 {
		return m
	}
	sort.Ints(idxs)
	list := make([]interface{}, 0, len(idxs))
	for _, n := range idxs {
		list = append(list, m[strconv.Itoa(n)])
	}
	return list
}
