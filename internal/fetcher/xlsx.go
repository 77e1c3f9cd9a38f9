package fetcher

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadXLSXRows reads the first sheet of an XLSX workbook, treating the first
// row as a header and returning following rows as header-keyed maps, the
// same shape ReadCSV produces so the organization loader can take either.
func ReadXLSXRows(path string) (header []string, rows []map[string]string, err error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "xlsx: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, nil, eris.Errorf("xlsx: %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		if i == 0 {
			header = cells
			continue
		}
		mapped := make(map[string]string, len(header))
		for j, key := range header {
			if j < len(cells) {
				mapped[key] = cells[j]
			}
		}
		rows = append(rows, mapped)
	}
	if header == nil {
		return nil, nil, eris.Errorf("xlsx: %s first sheet is empty", path)
	}
	return header, rows, nil
}
