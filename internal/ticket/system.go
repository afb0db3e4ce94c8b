package ticket

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"github.com/clubhousegolfcanada/ClubOS/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store persists tickets. Implemented by the SQLite repository.
type Store interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	List(ctx context.Context) ([]*models.Ticket, error)
	GetByID(ctx context.Context, id string) (*models.Ticket, error)
	ToggleStatus(ctx context.Context, id string) (*models.Ticket, error)
	UpdateNotifySent(ctx context.Context, id string, sent bool) error
}

var categoryRules = []struct {
	category string
	words    []string
}{
	{"equipment", []string{"trackman", "projector", "simulator", "screen", "broken", "not working"}},
	{"facilities", []string{"hvac", "air", "temperature", "light", "electrical", "power", "door", "bathroom"}},
	{"emergency", []string{"emergency", "urgent", "fire", "flood", "outage", "safety"}},
}

// Categorize picks a ticket category from the description. First matching
// rule wins; unmatched descriptions fall to general.
func Categorize(description string) string {
	lower := strings.ToLower(description)
	for _, rule := range categoryRules {
		for _, word := range rule.words {
			if strings.Contains(lower, word) {
				return rule.category
			}
		}
	}
	return "general"
}

// System creates and manages operational tickets: categorization, contact
// assignment, persistence and best-effort notification.
type System struct {
	store    Store
	contacts *Directory
	notifier Notifier
	logger   *zap.Logger
}

// NewSystem creates the ticket system.
func NewSystem(store Store, contacts *Directory, notifier Notifier, logger *zap.Logger) *System {
	return &System{
		store:    store,
		contacts: contacts,
		notifier: notifier,
		logger:   logger,
	}
}

// NewTicketID generates a collision-resistant ticket ID.
func NewTicketID() string {
	return fmt.Sprintf("TKT-%s", uuid.NewString()[:8])
}

// Create builds, persists and optionally notifies a new ticket. The notify
// flag is best effort: a failed email leaves the ticket intact with
// notify_sent false.
func (s *System) Create(ctx context.Context, title, description, priority string, tags []string, notify bool) (*models.Ticket, error) {
	if err := utils.ValidatePriority(priority); err != nil {
		return nil, err
	}
	title = utils.SanitizeString(title)
	description = utils.SanitizeString(description)

	category := Categorize(description)
	contact := s.contacts.Lookup(category)
	now := time.Now()

	ticket := &models.Ticket{
		ID:          NewTicketID(),
		Category:    category,
		Priority:    priority,
		Title:       title,
		Description: description,
		AssignedTo:  contact.Name,
		Contact:     contact,
		NextSteps:   []string{"Contact manager for assistance"},
		Tags:        tags,
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to persist ticket: %w", err)
	}

	s.logger.Info("Ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("category", category),
		zap.String("assigned_to", contact.Name))

	if notify && s.notifier != nil {
		if s.notifier.SendAssignment(contact, ticket) {
			ticket.NotifySent = true
			if err := s.store.UpdateNotifySent(ctx, ticket.ID, true); err != nil {
				s.logger.Warn("Failed to record notification state",
					zap.String("ticket_id", ticket.ID),
					zap.Error(err))
			}
		}
	}

	return ticket, nil
}

// CreateFromDraft persists a ticket draft produced by the resolution
// pipeline, carrying over its next steps.
func (s *System) CreateFromDraft(ctx context.Context, draft *models.TicketDraft, taskID string, nextSteps []string, notify bool) (*models.Ticket, error) {
	category := Categorize(draft.Description)
	contact := s.contacts.Lookup(category)
	now := time.Now()

	if len(nextSteps) == 0 {
		nextSteps = []string{"Contact manager for assistance"}
	}

	ticket := &models.Ticket{
		ID:          NewTicketID(),
		TaskID:      taskID,
		Category:    category,
		Priority:    draft.Priority,
		Title:       draft.Title,
		Description: draft.Description,
		AssignedTo:  contact.Name,
		Contact:     contact,
		NextSteps:   nextSteps,
		Tags:        draft.Tags,
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to persist ticket: %w", err)
	}

	s.logger.Info("Ticket created from draft",
		zap.String("ticket_id", ticket.ID),
		zap.String("task_id", taskID),
		zap.String("category", category))

	if notify && s.notifier != nil {
		if s.notifier.SendAssignment(contact, ticket) {
			ticket.NotifySent = true
			if err := s.store.UpdateNotifySent(ctx, ticket.ID, true); err != nil {
				s.logger.Warn("Failed to record notification state",
					zap.String("ticket_id", ticket.ID),
					zap.Error(err))
			}
		}
	}

	return ticket, nil
}

// List returns all tickets, newest first.
func (s *System) List(ctx context.Context) ([]*models.Ticket, error) {
	return s.store.List(ctx)
}

// Get returns one ticket by ID.
func (s *System) Get(ctx context.Context, id string) (*models.Ticket, error) {
	return s.store.GetByID(ctx, id)
}

// ToggleStatus flips a ticket between active and inactive.
func (s *System) ToggleStatus(ctx context.Context, id string) (*models.Ticket, error) {
	ticket, err := s.store.ToggleStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Ticket status toggled",
		zap.String("ticket_id", id),
		zap.String("status", ticket.Status))
	return ticket, nil
}
