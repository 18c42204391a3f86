package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
)

// handleExport streams all bookings as an XLSX attachment for offline use.
func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	bookings, err := s.coordinator.GetAllBookings(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		s.log.Error().Err(err).Msg("create export sheet")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	f.SetActiveSheet(index)

	headers := []string{"Booking ID", "Room ID", "User", "Start", "End", "Total Price", "Status", "Created At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	_ = f.SetCellStyle(sheetName, "A1", "H1", headerStyle)

	for rowIdx, booking := range bookings {
		values := []any{
			booking.BookingID,
			booking.RoomID,
			booking.UserName,
			booking.StartTime.Format(time.RFC3339),
			booking.EndTime.Format(time.RFC3339),
			booking.TotalPrice,
			booking.Status,
			booking.CreatedAt.Format(time.RFC3339),
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			_ = f.SetCellValue(sheetName, cell, value)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "H", 22)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))

	if err := f.Write(w); err != nil {
		s.log.Error().Err(err).Msg("write export file")
	}
}
