package technicians

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepositoryGetByID(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.Add(&Technician{ID: "tech-1", Name: "Dana", Status: StatusAvailable})

	got, err := repo.GetByID(context.Background(), "tech-1")
	require.NoError(t, err)
	assert.Equal(t, "Dana", got.Name)

	_, err = repo.GetByID(context.Background(), "tech-404")
	assert.ErrorIs(t, err, ErrTechnicianNotFound)
}

func TestActiveIDsFiltersAndKeepsOrder(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.Add(&Technician{ID: "tech-2", Name: "Sam", Status: StatusAvailable})
	repo.Add(&Technician{ID: "tech-1", Name: "Dana", Status: StatusAvailable})
	repo.Add(&Technician{ID: "tech-3", Name: "Lee", Status: StatusOnLeave})
	repo.Add(&Technician{ID: "tech-4", Name: "Kim", Status: StatusSuspended})

	ids, err := repo.ActiveIDs(context.Background())
	require.NoError(t, err)
	// Insertion order, not lexical; slot assignment depends on it being
	// stable between calls.
	assert.Equal(t, []string{"tech-2", "tech-1"}, ids)
}

func TestBookable(t *testing.T) {
	assert.True(t, (&Technician{Status: StatusAvailable}).Bookable())
	assert.False(t, (&Technician{Status: StatusOnLeave}).Bookable())
	assert.False(t, (&Technician{Status: StatusSuspended}).Bookable())
}
