package api

import "github.com/soaringjerry/TalentFlow/internal/services"

// Store is what the router needs from persistence. SQLite, Badger and the
// in-memory store all satisfy it.
type Store interface {
	services.AssessmentStore
}

var _ Store = (*MemoryStore)(nil)
