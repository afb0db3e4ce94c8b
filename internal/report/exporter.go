package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	ticketSheet = "Tickets"
)

var ticketColumns = []string{
	"Ticket ID", "Task ID", "Category", "Priority", "Title",
	"Assigned To", "Contact Phone", "Status", "Tags", "Created At",
}

// TicketExporter writes ticket reports as Excel workbooks.
type TicketExporter struct {
	logger *zap.Logger
}

// NewTicketExporter creates a ticket exporter.
func NewTicketExporter(logger *zap.Logger) *TicketExporter {
	return &TicketExporter{logger: logger}
}

// Export writes all tickets to w as an .xlsx workbook.
func (e *TicketExporter) Export(w io.Writer, tickets []*models.Ticket) error {
	file := excelize.NewFile()
	defer file.Close()

	index, err := file.NewSheet(ticketSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := e.writeHeader(file); err != nil {
		return err
	}

	for i, ticket := range tickets {
		if err := e.writeTicketRow(file, i+2, ticket); err != nil {
			return err
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Ticket report exported", zap.Int("ticket_count", len(tickets)))
	return nil
}

func (e *TicketExporter) writeHeader(file *excelize.File) error {
	for i, name := range ticketColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := file.SetCellValue(ticketSheet, cell, name); err != nil {
			return fmt.Errorf("failed to set header %s: %w", name, err)
		}
	}

	style, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	lastCell, err := excelize.CoordinatesToCellName(len(ticketColumns), 1)
	if err != nil {
		return fmt.Errorf("failed to resolve header range: %w", err)
	}
	if err := file.SetCellStyle(ticketSheet, "A1", lastCell, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	return nil
}

func (e *TicketExporter) writeTicketRow(file *excelize.File, row int, ticket *models.Ticket) error {
	values := []interface{}{
		ticket.ID,
		ticket.TaskID,
		ticket.Category,
		ticket.Priority,
		ticket.Title,
		ticket.AssignedTo,
		ticket.Contact.Phone,
		ticket.Status,
		strings.Join(ticket.Tags, ", "),
		ticket.CreatedAt.Format(time.RFC3339),
	}

	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to resolve cell at row %d: %w", row, err)
		}
		if err := file.SetCellValue(ticketSheet, cell, value); err != nil {
			return fmt.Errorf("failed to set value at %s: %w", cell, err)
		}
	}

	return nil
}

// FileName produces a timestamped report file name.
func FileName(now time.Time) string {
	return fmt.Sprintf("ticket-report-%s.xlsx", now.Format("20060102-150405"))
}
