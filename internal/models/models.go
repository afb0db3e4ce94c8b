// Package models defines the data shapes shared across the operational engine:
// incoming task requests, classified context, resolution outcomes, tickets and
// cached procedure documents.
package models

import "time"

// Task types produced by the classifier.
const (
	TaskEquipmentIssue = "equipment_issue"
	TaskEmergency      = "emergency"
	TaskProcedure      = "procedure"
	TaskGeneral        = "general"
)

// Outcome statuses.
const (
	StatusApproved       = "approved"
	StatusRejected       = "rejected"
	StatusReviewRequired = "review_required"
	StatusBlocked        = "blocked"
)

// ValidStatus reports whether s is one of the four outcome statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusApproved, StatusRejected, StatusReviewRequired, StatusBlocked:
		return true
	}
	return false
}

// TaskRequest is an incoming operational task. Immutable once received.
type TaskRequest struct {
	Task      string                 `json:"task" binding:"required"`
	Priority  string                 `json:"priority"`
	Operation string                 `json:"operation"`
	Toggles   map[string]bool        `json:"toggles"`
	Context   map[string]interface{} `json:"context"`
	Location  string                 `json:"location,omitempty"`
}

// Toggle returns the named toggle, or def when the toggle is absent.
func (r *TaskRequest) Toggle(name string, def bool) bool {
	if r.Toggles == nil {
		return def
	}
	if v, ok := r.Toggles[name]; ok {
		return v
	}
	return def
}

// ClassifiedContext is the classifier's view of a task. Produced once per
// request; TaskType is never reassigned downstream.
type ClassifiedContext struct {
	TaskType   string   `json:"task_type"`
	RawText    string   `json:"raw_text"`
	Equipment  []string `json:"equipment"`
	Location   string   `json:"location,omitempty"`
	Bay        int      `json:"bay,omitempty"` // 0 means no bay mentioned
	Confidence float64  `json:"confidence"`
}

// Layer records one subsystem touched during resolution.
type Layer struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
}

// Recommendation is a single action item on an outcome.
type Recommendation struct {
	Action   string `json:"action"`
	Reason   string `json:"reason"`
	Priority string `json:"priority,omitempty"`
}

// TicketDraft is an in-memory escalation proposal. It becomes a persisted
// Ticket only at the assembler stage, and only when ticket generation is
// toggled on.
type TicketDraft struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Tags        []string `json:"tags"`
}

// ResolutionOutcome is the structured decision for one request. Stages append
// layers and recommendations; none removes what an earlier stage added.
type ResolutionOutcome struct {
	Layers          []Layer                `json:"layers"`
	Recommendations []Recommendation       `json:"recommendation"`
	Ticket          *TicketDraft           `json:"ticket,omitempty"`
	Status          string                 `json:"status"`
	Confidence      float64                `json:"confidence"`
	TimeEstimate    string                 `json:"time_estimate"`
	Fallback        bool                   `json:"fallback,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
}

// SetMeta attaches a metadata entry, allocating the map on first use.
func (o *ResolutionOutcome) SetMeta(key string, value interface{}) {
	if o.Metadata == nil {
		o.Metadata = make(map[string]interface{})
	}
	o.Metadata[key] = value
}

// Contact identifies who handles a ticket category.
type Contact struct {
	Name  string `json:"name" yaml:"name"`
	Phone string `json:"phone" yaml:"phone"`
	Email string `json:"email" yaml:"email"`
}

// Ticket is the persisted escalation record.
type Ticket struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"task_id,omitempty"`
	Category   string    `json:"category"`
	Priority   string    `json:"priority"`
	Title      string    `json:"title"`
	Description string   `json:"description"`
	AssignedTo string    `json:"assigned_to"`
	Contact    Contact   `json:"contact_info"`
	NextSteps  []string  `json:"next_steps"`
	Tags       []string  `json:"tags"`
	Status     string    `json:"status"` // active or inactive
	NotifySent bool      `json:"notify_sent"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Incident is one row of the facility incident log. Every processed request
// writes one, ticket or not.
type Incident struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Location    string    `json:"location,omitempty"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	Confidence  float64   `json:"confidence"`
	Status      string    `json:"status"` // open or assigned
	CreatedAt   time.Time `json:"created_at"`
}

// ProcedureDocument is a cached SOP. Read-only during resolution; replaced
// wholesale when the cache refreshes.
type ProcedureDocument struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Steps      []string  `json:"steps"`
	Equipment  []string  `json:"equipment"`
	Keywords   []string  `json:"keywords"`
	SourceLink string    `json:"source_link,omitempty"`
	LastSynced time.Time `json:"last_synced"`
}

// ExecutionResult records one SOP step's dispatch outcome.
type ExecutionResult struct {
	Step    int                    `json:"step"`
	Action  string                 `json:"action"`
	Success bool                   `json:"success"`
	Error   string                 `json:"error,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Solution is a knowledge-base entry: the procedural answer for a classified
// task before enrichment.
type Solution struct {
	Steps   []string `json:"steps" yaml:"steps"`
	Time    string   `json:"time" yaml:"time"`
	Contact string   `json:"contact" yaml:"contact"`
}

// EnrichedSolution is a Solution plus strategic context.
type EnrichedSolution struct {
	Solution
	Priority      string   `json:"priority"`
	Resources     []string `json:"resources"`
	Prevention    []string `json:"prevention"`
	ContactDirect string   `json:"contact_direct,omitempty"`
}
