package technicians

import (
	"context"
	"errors"
	"sync"
)

// ErrTechnicianNotFound is returned when a technician id is unknown.
var ErrTechnicianNotFound = errors.New("technician not found")

// Repository defines the interface for roster storage
type Repository interface {
	GetByID(ctx context.Context, id string) (*Technician, error)
	// ActiveIDs returns the ids of bookable technicians in stable order.
	ActiveIDs(ctx context.Context) ([]string, error)
}

// InMemoryRepository is a map-backed roster for tests and local runs.
type InMemoryRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*Technician
}

// NewInMemoryRepository creates an empty in-memory roster.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]*Technician)}
}

// Add registers a technician, keeping insertion order for ActiveIDs.
func (r *InMemoryRepository) Add(t *Technician) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[t.ID]; !exists {
		r.order = append(r.order, t.ID)
	}
	r.byID[t.ID] = t
}

// GetByID retrieves a technician by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Technician, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, ErrTechnicianNotFound
	}
	return t, nil
}

// ActiveIDs returns bookable technician ids in insertion order.
func (r *InMemoryRepository) ActiveIDs(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.order))
	for _, id := range r.order {
		if r.byID[id].Bookable() {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
