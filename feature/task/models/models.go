package models

import "time"

// Task statuses. Every status-to-status transition is legal.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
)

// DefaultQuantity is applied when a record leaves quantity unset.
const DefaultQuantity = 1

// ValidStatus reports whether s is one of the known task statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task is a persisted prep task.
type Task struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Description string    `gorm:"size:512;not null" json:"description"`
	Recipe      string    `gorm:"size:255" json:"recipe,omitempty"`
	Quantity    float64   `json:"quantity"`
	AssignedTo  string    `gorm:"size:100" json:"assigned_to,omitempty"`
	Status      string    `gorm:"size:20;default:pending" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskRecord is one incoming task in client shape. A zero ID means the store
// assigns one; an empty status means pending.
type TaskRecord struct {
	ID          uint    `json:"id"`
	Description string  `json:"description"`
	Recipe      string  `json:"recipe"`
	Quantity    float64 `json:"quantity"`
	AssignedTo  string  `json:"assigned_to"`
	Status      string  `json:"status"`
}

// StatusOrDefault returns the record's status, or pending when unset.
func (r *TaskRecord) StatusOrDefault() string {
	if r.Status == "" {
		return StatusPending
	}
	return r.Status
}

// QuantityOrDefault returns the record's quantity, or 1 when unset.
func (r *TaskRecord) QuantityOrDefault() float64 {
	if r.Quantity == 0 {
		return DefaultQuantity
	}
	return r.Quantity
}

// TaskUpdate carries a partial update; nil fields are left untouched.
type TaskUpdate struct {
	Description *string  `json:"description"`
	Recipe      *string  `json:"recipe"`
	Quantity    *float64 `json:"quantity"`
	AssignedTo  *string  `json:"assigned_to"`
	Status      *string  `json:"status"`
}
