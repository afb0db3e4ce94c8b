package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestExport(t *testing.T) {
	exporter := NewTicketExporter(zap.NewNop())
	created := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)

	tickets := []*models.Ticket{
		{
			ID:         "TKT-abcd1234",
			TaskID:     "req-1",
			Category:   "equipment",
			Priority:   "high",
			Title:      "Trackman Malfunction - Bay 3",
			AssignedTo: "Jason Miller",
			Contact:    models.Contact{Phone: "281-555-0102"},
			Status:     "active",
			Tags:       []string{"equipment", "trackman"},
			CreatedAt:  created,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, exporter.Export(&buf, tickets))

	file, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, []string{"Tickets"}, file.GetSheetList())

	rows, err := file.GetRows("Tickets")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Ticket ID", rows[0][0])
	assert.Equal(t, "Created At", rows[0][9])

	assert.Equal(t, "TKT-abcd1234", rows[1][0])
	assert.Equal(t, "equipment", rows[1][2])
	assert.Equal(t, "Jason Miller", rows[1][5])
	assert.Equal(t, "equipment, trackman", rows[1][8])
	assert.Equal(t, "2026-08-01T10:30:00Z", rows[1][9])
}

func TestExportEmpty(t *testing.T) {
	exporter := NewTicketExporter(zap.NewNop())

	var buf bytes.Buffer
	require.NoError(t, exporter.Export(&buf, nil))

	file, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows("Tickets")
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}

func TestFileName(t *testing.T) {
	now := time.Date(2026, 8, 29, 14, 5, 9, 0, time.UTC)
	assert.Equal(t, "ticket-report-20260829-140509.xlsx", FileName(now))
}
