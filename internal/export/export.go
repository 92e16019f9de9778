// Package export renders bookings as spreadsheets and calendars.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"salon-booking-backend/internal/model"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Bookings"

var headers = []string{"Date", "Time", "End", "Minutes", "Service", "Category", "Name", "Phone", "Email", "Source", "Status", "Booked at"}

// Bookings writes bookings, in the given order, to a single-sheet workbook.
func Bookings(bookings []model.Booking) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}
	last, _ := excelize.ColumnNumberToName(len(headers))
	f.SetCellStyle(sheetName, "A1", last+"1", headerStyle)
	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "E", "E", 28)
	f.SetColWidth(sheetName, "G", "I", 22)
	f.SetColWidth(sheetName, "L", "L", 20)
	f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for r, b := range bookings {
		row := []any{
			b.Date, b.Time, b.EndTime, b.DurationMinutes,
			b.ServiceName, b.ServiceCategory,
			b.Name, b.Phone, b.Email,
			string(b.Source), string(b.Status),
			b.CreatedAt.UTC().Format("2006-01-02 15:04"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

// Filename names the export for bookings dated from onward.
func Filename(from string) string {
	if from == "" {
		return "bookings.xlsx"
	}
	return "bookings-from-" + from + ".xlsx"
}
