package services

import (
	"context"
	"fmt"
	"time"

	"maintlog/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/xuri/excelize/v2"
)

const (
	ExportSheetName   = "Maintenance"
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportTimeLayout  = "2006-01-02 15:04:05"
)

var (
	ticketExportHeaders = []string{
		"ID", "Created", "Factory", "Location", "Status", "Personnel", "Description",
	}
	ticketExportWidths = []float64{16, 20, 14, 24, 12, 14, 48}
)

type ExportService struct {
	log logger.Logger
	now func() time.Time
}

func NewExportService() *ExportService {
	return &ExportService{
		log: logger.New("ExportService"),
		now: time.Now,
	}
}

// ExportTickets renders tickets as a single-sheet workbook in the given order
// and returns it with a timestamped file name. The caller closes the file.
func (s *ExportService) ExportTickets(
	ctx context.Context,
	tickets []*models.MaintenanceTicket,
) (*excelize.File, string, error) {
	log := s.log.TraceFromContext(ctx).Function("ExportTickets")

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ExportSheetName); err != nil {
		_ = f.Close()
		return nil, "", log.Err("failed to name sheet", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		_ = f.Close()
		return nil, "", log.Err("failed to create header style", err)
	}

	for i, header := range ticketExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		if err := f.SetCellValue(ExportSheetName, cell, header); err != nil {
			_ = f.Close()
			return nil, "", log.Err("failed to write header", err, "cell", cell)
		}
		if err := f.SetCellStyle(ExportSheetName, cell, cell, headerStyle); err != nil {
			_ = f.Close()
			return nil, "", log.Err("failed to style header", err, "cell", cell)
		}
	}

	for i, ticket := range tickets {
		row := []any{
			ticket.ID,
			ticket.CreatedAt.Format(exportTimeLayout),
			ticket.Factory,
			ticket.Location,
			ticket.Status,
			ticket.Personnel,
			ticket.Description,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(ExportSheetName, cell, &row); err != nil {
			_ = f.Close()
			return nil, "", log.Err("failed to write ticket row", err, "id", ticket.ID)
		}
	}

	for i, width := range ticketExportWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(ExportSheetName, col, col, width); err != nil {
			_ = f.Close()
			return nil, "", log.Err("failed to size column", err, "column", col)
		}
	}

	filename := fmt.Sprintf("maintenance_%s.xlsx", s.now().Format("20060102_150405"))
	log.Info("Exported tickets", "count", len(tickets), "filename", filename)

	return f, filename, nil
}
