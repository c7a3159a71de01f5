package store

import "time"

// Bucket groups tickets. LastChange is refreshed on every write.
type Bucket struct {
	ID         int64     `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	LastChange time.Time `json:"last_change" yaml:"last_change"`
}

// Ticket is one tracked item.
//
// A zero DueAt means no due date. Tags holds tag names; the tags need not
// exist in the tags table.
type Ticket struct {
	ID          int64     `json:"id" yaml:"id"`
	BucketID    int64     `json:"bucket_id" yaml:"bucket_id"`
	Title       string    `json:"title" yaml:"title"`
	State       string    `json:"state" yaml:"state"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	DueAt       time.Time `json:"due_at,omitzero" yaml:"due_at,omitempty"`
	AssignedTo  string    `json:"assigned_to,omitempty" yaml:"assigned_to,omitempty"`
	Tags        []string  `json:"tags" yaml:"tags"`
}

// State is a ticket state. Tickets are ordered by SortingOrder when shown.
type State struct {
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	SortingOrder int64  `json:"sorting_order" yaml:"sorting_order"`
}

// Tag is a label with display colors given as #rrggbb.
type Tag struct {
	Name      string `json:"name" yaml:"name"`
	Color     string `json:"color" yaml:"color"`
	TextColor string `json:"color_text" yaml:"color_text"`
}

// Filter is a saved filter expression.
type Filter struct {
	Name      string `json:"name" yaml:"name"`
	Operation string `json:"operation" yaml:"operation"`
}
