// Package model holds the record shapes the pet-care data layer stores.
// Business rules (weight ranges, schedules, reminders) live with the
// callers; these are plain records plus the identity handlers the
// repositories need.
package model

import (
	"time"

	"github.com/pawtrack/go-datastore/repository"
)

// Pet is a tracked animal.
type Pet struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Species   string     `json:"species"`
	Breed     string     `json:"breed,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	WeightKg  float64    `json:"weight_kg,omitempty"`
	PhotoURI  string     `json:"photo_uri,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CareTask is a scheduled or completed care activity for a pet: feeding,
// medication, grooming, vet visits.
type CareTask struct {
	ID          string     `json:"id"`
	PetID       string     `json:"pet_id"`
	Title       string     `json:"title"`
	Kind        string     `json:"kind"`
	Status      string     `json:"status"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CareTask statuses.
const (
	TaskPending   = "pending"
	TaskCompleted = "completed"
	TaskSkipped   = "skipped"
)

// WeightEntry is one point on a pet's weight trend.
type WeightEntry struct {
	ID         string    `json:"id"`
	PetID      string    `json:"pet_id"`
	WeightKg   float64   `json:"weight_kg"`
	RecordedAt time.Time `json:"recorded_at"`
	Notes      string    `json:"notes,omitempty"`
}

// PetHandlers returns the identity handlers for Pet repositories.
func PetHandlers() repository.Handlers[Pet] {
	return repository.Handlers[Pet]{
		GetID: func(p Pet) string { return p.ID },
		SetID: func(p Pet, id string) Pet { p.ID = id; return p },
	}
}

// CareTaskHandlers returns the identity handlers for CareTask repositories.
func CareTaskHandlers() repository.Handlers[CareTask] {
	return repository.Handlers[CareTask]{
		GetID: func(t CareTask) string { return t.ID },
		SetID: func(t CareTask, id string) CareTask { t.ID = id; return t },
	}
}

// WeightEntryHandlers returns the identity handlers for WeightEntry
// repositories.
func WeightEntryHandlers() repository.Handlers[WeightEntry] {
	return repository.Handlers[WeightEntry]{
		GetID: func(w WeightEntry) string { return w.ID },
		SetID: func(w WeightEntry, id string) WeightEntry { w.ID = id; return w },
	}
}
