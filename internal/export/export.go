// Package export writes discovery results to CSV, JSON, or XLSX files and
// renders terminal summaries.
package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/contact-cli/internal/model"
)

// contactColumns defines the ordered output columns shared by every format.
var contactColumns = []string{
	"org_ein",
	"org_name",
	"name",
	"title",
	"email",
	"phone",
	"confidence",
	"sources",
}

// WriteFile writes records to path, picking the format from the extension.
func WriteFile(records []model.ContactRecord, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return WriteCSV(records, path)
	case ".json":
		return WriteJSON(records, path)
	case ".xlsx":
		return WriteXLSX(records, path)
	default:
		return eris.Errorf("export: unsupported output format %q", filepath.Ext(path))
	}
}

// WriteCSV writes records as a headered CSV file.
func WriteCSV(records []model.ContactRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(contactColumns); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, r := range records {
		if err := w.Write(buildRow(r, ";")); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush")
	}
	return nil
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(records []model.ContactRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if records == nil {
		records = []model.ContactRecord{}
	}
	if err := enc.Encode(records); err != nil {
		return eris.Wrap(err, "export: encode json")
	}
	return nil
}

// WriteXLSX writes records to a single-sheet workbook. Sources join with a
// comma here; spreadsheet consumers split on it downstream.
func WriteXLSX(records []model.ContactRecord, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Contacts")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range contactColumns {
		header.AddCell().SetString(col)
	}
	for _, r := range records {
		row := sheet.AddRow()
		for _, cell := range buildRow(r, ",") {
			row.AddCell().SetString(cell)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "export: save workbook")
	}
	return nil
}

// buildRow maps a ContactRecord onto the shared column order.
func buildRow(r model.ContactRecord, sourceSep string) []string {
	sources := make([]string, len(r.Sources))
	for i, s := range r.Sources {
		sources[i] = string(s)
	}
	return []string{
		strconv.FormatInt(r.OrgEIN, 10),
		r.OrgName,
		r.Name,
		r.Title,
		r.Email,
		r.Phone,
		strconv.FormatFloat(r.Confidence, 'f', 2, 64),
		strings.Join(sources, sourceSep),
	}
}
