package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homepros/booking-platform/internal/services"
)

func monday() time.Time {
	return time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
}

func TestComputeAvailableNoEventsReturnsAllCandidates(t *testing.T) {
	gen := defaultGenerator()
	slots := gen.GenerateSlots(monday(), []string{"t1"})
	require.Len(t, slots, 8)

	available := ComputeAvailable(slots, nil, services.Plumbing)
	assert.Len(t, available, 8)
	for i, slot := range available {
		assert.Equal(t, slots[i].Start, slot.Start)
		assert.Equal(t, slots[i].End, slot.End)
	}
}

func TestComputeAvailableBufferedBookingBlocksNeighbor(t *testing.T) {
	// Existing confirmed 10:00-11:00 booking for t1. With plumbing's
	// 15-minute lead buffer the 11:00-12:00 candidate is guarded from
	// 10:45 and must be rejected; 11:15-12:15 clears it.
	events := []Event{{ID: "b1", TechnicianID: "t1", Start: ts(10, 0), End: ts(11, 0)}}

	blocked := []TimeSlot{{Start: ts(11, 0), End: ts(12, 0), DurationMinutes: 60, TechnicianID: "t1", Available: true}}
	assert.Empty(t, ComputeAvailable(blocked, events, services.Plumbing))

	clear := []TimeSlot{{Start: ts(11, 15), End: ts(12, 15), DurationMinutes: 60, TechnicianID: "t1", Available: true}}
	assert.Len(t, ComputeAvailable(clear, events, services.Plumbing), 1)
}

func TestComputeAvailableIgnoresOtherTechniciansAndCancelled(t *testing.T) {
	slots := []TimeSlot{{Start: ts(10, 0), End: ts(11, 0), DurationMinutes: 60, TechnicianID: "t1", Available: true}}
	events := []Event{
		{ID: "other", TechnicianID: "t2", Start: ts(10, 0), End: ts(11, 0)},
		{ID: "gone", TechnicianID: "t1", Start: ts(10, 0), End: ts(11, 0), Cancelled: true},
	}

	assert.Len(t, ComputeAvailable(slots, events, services.Plumbing), 1)
}

func TestComputeAvailableSkipsUnavailableCandidates(t *testing.T) {
	slots := []TimeSlot{{Start: ts(10, 0), End: ts(11, 0), DurationMinutes: 60, TechnicianID: "t1", Available: false}}
	assert.Empty(t, ComputeAvailable(slots, nil, services.Plumbing))
}

func TestComputeAvailableIdempotentWithoutWrites(t *testing.T) {
	gen := defaultGenerator()
	slots := gen.GenerateSlots(monday(), []string{"t1", "t2"})
	events := []Event{{ID: "b1", TechnicianID: "t1", Start: ts(10, 0), End: ts(11, 0)}}

	first := ComputeAvailable(slots, events, services.HVAC)
	second := ComputeAvailable(slots, events, services.HVAC)
	assert.Equal(t, first, second)
}

func TestBufferMonotonicity(t *testing.T) {
	// Growing the guard never uncovers slots: the available count is
	// non-increasing in buffer size over a fixed event set.
	gen := defaultGenerator()
	slots := gen.GenerateSlots(monday(), []string{"t1"})
	events := []Event{
		{ID: "b1", TechnicianID: "t1", Start: ts(10, 0), End: ts(11, 0)},
		{ID: "b2", TechnicianID: "t1", Start: ts(14, 0), End: ts(15, 0)},
	}

	prev := len(slots) + 1
	for mins := 0; mins <= 90; mins += 15 {
		buf := Buffer{Before: time.Duration(mins) * time.Minute, After: time.Duration(mins) * time.Minute}
		count := 0
		for _, slot := range slots {
			if _, conflict := FindConflict(events, slot.TechnicianID, slot.Start, slot.End, buf); !conflict {
				count++
			}
		}
		assert.LessOrEqual(t, count, prev, "available count grew when buffer grew to %dm", mins)
		prev = count
	}
}

func TestFindNextAvailable(t *testing.T) {
	gen := defaultGenerator()
	day1 := monday()
	day2 := day1.AddDate(0, 0, 1)

	// Day one is fully booked for t1; day two is open.
	var day1Events []Event
	for _, slot := range gen.GenerateSlots(day1, []string{"t1"}) {
		day1Events = append(day1Events, Event{TechnicianID: "t1", Start: slot.Start, End: slot.End})
	}

	days := []DayCandidates{
		{Date: day1, Slots: gen.GenerateSlots(day1, []string{"t1"}), Events: day1Events},
		{Date: day2, Slots: gen.GenerateSlots(day2, []string{"t1"})},
	}

	slot, ok := FindNextAvailable(days, services.Electrical, day1)
	require.True(t, ok)
	assert.Equal(t, day2.Add(9*time.Hour), slot.Start)
}

func TestFindNextAvailableRespectsAfterBound(t *testing.T) {
	gen := defaultGenerator()
	day := monday()
	days := []DayCandidates{{Date: day, Slots: gen.GenerateSlots(day, []string{"t1"})}}

	slot, ok := FindNextAvailable(days, services.Electrical, ts(13, 30))
	require.True(t, ok)
	assert.Equal(t, ts(14, 0), slot.Start)
}

func TestFindNextAvailableExhausted(t *testing.T) {
	gen := defaultGenerator()
	day := monday()
	days := []DayCandidates{{Date: day, Slots: gen.GenerateSlots(day, []string{"t1"})}}

	_, ok := FindNextAvailable(days, services.Electrical, ts(17, 0))
	assert.False(t, ok)
}
