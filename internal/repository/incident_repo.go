package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"github.com/clubhousegolfcanada/ClubOS/pkg/database"
	"go.uber.org/zap"
)

// IncidentRepository handles incident log database operations
type IncidentRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewIncidentRepository creates a new incident repository
func NewIncidentRepository(db *database.DB, logger *zap.Logger) *IncidentRepository {
	return &IncidentRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new incident record
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incident_log (
			description, location, category, priority, confidence, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	if incident.CreatedAt.IsZero() {
		incident.CreatedAt = time.Now()
	}
	if incident.Status == "" {
		incident.Status = "open"
	}

	result, err := r.db.ExecContext(ctx, query,
		incident.Description,
		incident.Location,
		incident.Category,
		incident.Priority,
		incident.Confidence,
		incident.Status,
		incident.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create incident", zap.Error(err))
		return fmt.Errorf("failed to create incident: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	incident.ID = id
	return nil
}

// MarkAssigned links an incident to its follow-up ticket
func (r *IncidentRepository) MarkAssigned(ctx context.Context, id int64) error {
	query := `UPDATE incident_log SET status = 'assigned' WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to mark incident assigned", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to mark incident assigned: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ListRecent returns the most recent incidents, newest first
func (r *IncidentRepository) ListRecent(ctx context.Context, limit int) ([]*models.Incident, error) {
	query := `
		SELECT id, description, location, category, priority, confidence, status, created_at
		FROM incident_log
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list incidents", zap.Error(err))
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	var incidents []*models.Incident
	for rows.Next() {
		var incident models.Incident
		err := rows.Scan(
			&incident.ID,
			&incident.Description,
			&incident.Location,
			&incident.Category,
			&incident.Priority,
			&incident.Confidence,
			&incident.Status,
			&incident.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident: %w", err)
		}
		incidents = append(incidents, &incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate incidents: %w", err)
	}

	return incidents, nil
}
