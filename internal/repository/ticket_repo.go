package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"github.com/clubhousegolfcanada/ClubOS/pkg/database"
	"go.uber.org/zap"
)

// TicketRepository handles ticket database operations
type TicketRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *database.DB, logger *zap.Logger) *TicketRepository {
	return &TicketRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new ticket record
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	contactJSON, err := json.Marshal(ticket.Contact)
	if err != nil {
		return fmt.Errorf("failed to encode contact: %w", err)
	}
	stepsJSON, err := json.Marshal(ticket.NextSteps)
	if err != nil {
		return fmt.Errorf("failed to encode next steps: %w", err)
	}
	tagsJSON, err := json.Marshal(ticket.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	query := `
		INSERT INTO tickets (
			id, task_id, category, priority, title, description,
			assigned_to, contact_info, next_steps, tags, status,
			notify_sent, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		ticket.ID,
		ticket.TaskID,
		ticket.Category,
		ticket.Priority,
		ticket.Title,
		ticket.Description,
		ticket.AssignedTo,
		string(contactJSON),
		string(stepsJSON),
		string(tagsJSON),
		ticket.Status,
		ticket.NotifySent,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create ticket", zap.String("ticket_id", ticket.ID), zap.Error(err))
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	return nil
}

// List returns all tickets ordered by creation time, newest first
func (r *TicketRepository) List(ctx context.Context) ([]*models.Ticket, error) {
	query := `
		SELECT id, task_id, category, priority, title, description,
			assigned_to, contact_info, next_steps, tags, status,
			notify_sent, created_at, updated_at
		FROM tickets
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list tickets", zap.Error(err))
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}

	return tickets, nil
}

// GetByID retrieves a ticket by ID, returning nil when not found
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	query := `
		SELECT id, task_id, category, priority, title, description,
			assigned_to, contact_info, next_steps, tags, status,
			notify_sent, created_at, updated_at
		FROM tickets
		WHERE id = ?
	`

	row := r.db.QueryRowContext(ctx, query, id)
	ticket, err := scanTicket(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get ticket", zap.String("ticket_id", id), zap.Error(err))
		return nil, err
	}

	return ticket, nil
}

// ToggleStatus flips a ticket between active and inactive and returns the
// updated record. The flip and re-read run in one transaction so concurrent
// toggles never return a stale row.
func (r *TicketRepository) ToggleStatus(ctx context.Context, id string) (*models.Ticket, error) {
	update := `
		UPDATE tickets
		SET status = CASE status WHEN 'active' THEN 'inactive' ELSE 'active' END,
			updated_at = ?
		WHERE id = ?
	`
	selectQuery := `
		SELECT id, task_id, category, priority, title, description,
			assigned_to, contact_info, next_steps, tags, status,
			notify_sent, created_at, updated_at
		FROM tickets
		WHERE id = ?
	`

	var ticket *models.Ticket
	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, update, time.Now(), id)
		if err != nil {
			return fmt.Errorf("failed to toggle ticket status: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("ticket not found: %s", id)
		}

		ticket, err = scanTicket(tx.QueryRowContext(ctx, selectQuery, id))
		return err
	})
	if err != nil {
		r.logger.Error("Failed to toggle ticket status", zap.String("ticket_id", id), zap.Error(err))
		return nil, err
	}

	return ticket, nil
}

// UpdateNotifySent records whether the assignment notification went out
func (r *TicketRepository) UpdateNotifySent(ctx context.Context, id string, sent bool) error {
	query := `UPDATE tickets SET notify_sent = ?, updated_at = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, sent, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update notify_sent", zap.String("ticket_id", id), zap.Error(err))
		return fmt.Errorf("failed to update notify_sent: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTicket(row rowScanner) (*models.Ticket, error) {
	var ticket models.Ticket
	var contactJSON, stepsJSON, tagsJSON string

	err := row.Scan(
		&ticket.ID,
		&ticket.TaskID,
		&ticket.Category,
		&ticket.Priority,
		&ticket.Title,
		&ticket.Description,
		&ticket.AssignedTo,
		&contactJSON,
		&stepsJSON,
		&tagsJSON,
		&ticket.Status,
		&ticket.NotifySent,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan ticket: %w", err)
	}

	if err := json.Unmarshal([]byte(contactJSON), &ticket.Contact); err != nil {
		return nil, fmt.Errorf("failed to decode contact: %w", err)
	}
	if err := json.Unmarshal([]byte(stepsJSON), &ticket.NextSteps); err != nil {
		return nil, fmt.Errorf("failed to decode next steps: %w", err)
	}
	if err := json.Unmarshal([]byte(tagsJSON), &ticket.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}

	return &ticket, nil
}
