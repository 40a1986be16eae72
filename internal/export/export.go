// Package export writes task lists as CSV or XLSX files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"smart-tasks/internal/client"
	"smart-tasks/internal/dates"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	sheetName = "Tasks"
)

var Header = []string{"Title", "Description", "Category", "Due Date", "Status", "Priority"}

// Record returns the export row for t.
func Record(t client.Task) []string {
	due := ""
	if t.DueDate != nil {
		due = t.DueDate.UTC().Format(dates.DayLayout)
	}
	return []string{t.Title, t.Description, t.Category, due, t.Status, t.Priority}
}

// Write dispatches on format.
func Write(w io.Writer, format string, tasks []client.Task) error {
	switch strings.ToLower(format) {
	case FormatCSV:
		return WriteCSV(w, tasks)
	case FormatXLSX:
		return WriteXLSX(w, tasks)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

func WriteCSV(w io.Writer, tasks []client.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range tasks {
		if err := cw.Write(Record(t)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteXLSX(w io.Writer, tasks []client.Task) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &Header); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}
	for i, t := range tasks {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := Record(t)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
