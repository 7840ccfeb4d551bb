package export

import (
	"fmt"
	"io"

	"carcare/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Bookings"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var headers = []string{"Booking ID", "Status", "Customer", "Email", "Service", "Vehicle Type", "Date", "Message", "Created At"}

var statusFill = map[models.BookingStatus]string{
	models.BookingStatusPending:   "#FFF2CC",
	models.BookingStatusConfirmed: "#DDEBF7",
	models.BookingStatusCompleted: "#E2EFDA",
	models.BookingStatusCancelled: "#F8CBAD",
}

// WriteBookings writes bookings as a single-sheet workbook in the given order.
// User and Service are read when preloaded and left blank otherwise.
func WriteBookings(w io.Writer, bookings []models.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("error renaming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9D9D9"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("error creating header style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle)

	styles := make(map[models.BookingStatus]int, len(statusFill))
	for status, color := range statusFill {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return fmt.Errorf("error creating status style: %w", err)
		}
		styles[status] = id
	}

	for i := range bookings {
		b := &bookings[i]
		row := i + 2

		var customer, email, service string
		if b.User != nil {
			customer, email = b.User.Name, b.User.Email
		}
		if b.Service != nil {
			service = b.Service.Title
		}

		values := []interface{}{
			b.ShortID(),
			string(b.Status),
			customer,
			email,
			service,
			b.VehicleType,
			b.Date.UTC().Format("2006-01-02 15:04"),
			b.Message,
			b.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetName, start, &values); err != nil {
			return fmt.Errorf("error writing row %d: %w", row, err)
		}

		if id, ok := styles[b.Status]; ok {
			cell, _ := excelize.CoordinatesToCellName(2, row)
			_ = f.SetCellStyle(SheetName, cell, cell, id)
		}
	}

	_ = f.SetColWidth(SheetName, "A", "B", 14)
	_ = f.SetColWidth(SheetName, "C", "G", 22)
	_ = f.SetColWidth(SheetName, "H", "H", 40)
	_ = f.SetColWidth(SheetName, "I", "I", 22)
	_ = f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}
