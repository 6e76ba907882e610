package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homepros/booking-platform/internal/bookings"
)

type recordingSender struct {
	sent []EmailMessage
	err  error
}

func (s *recordingSender) Send(ctx context.Context, msg EmailMessage) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func confirmedBooking() *bookings.Booking {
	return &bookings.Booking{
		ID:               "bk-1",
		TechnicianID:     "tech-1",
		ServiceType:      "plumbing",
		CustomerName:     "Pat Doyle",
		CustomerEmail:    "pat@example.com",
		CustomerPhone:    "+12065550143",
		StartTime:        time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC),
		EndTime:          time.Date(2026, time.March, 2, 11, 0, 0, 0, time.UTC),
		Status:           bookings.StatusConfirmed,
		ConfirmationCode: "A1B2C3D4",
	}
}

func TestNotifySendsEmailAndEnqueuesEvent(t *testing.T) {
	sender := &recordingSender{}
	queue := NewMemoryQueue()
	svc := NewService(sender, queue, nil)

	err := svc.NotifyBookingConfirmed(context.Background(), confirmedBooking())
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "pat@example.com", msg.To)
	assert.Contains(t, msg.Subject, "Plumbing")
	assert.Contains(t, msg.Body, "A1B2C3D4")

	msgs := queue.Messages()
	require.Len(t, msgs, 1)
	var event BookingConfirmedEvent
	require.NoError(t, json.Unmarshal([]byte(msgs[0]), &event))
	assert.Equal(t, "booking.confirmed", event.EventType)
	assert.Equal(t, "bk-1", event.BookingID)
	assert.Equal(t, "+12065550143", event.CustomerPhone)
}

func TestNotifySkipsEmailWithoutAddress(t *testing.T) {
	sender := &recordingSender{}
	queue := NewMemoryQueue()
	svc := NewService(sender, queue, nil)

	b := confirmedBooking()
	b.CustomerEmail = ""

	require.NoError(t, svc.NotifyBookingConfirmed(context.Background(), b))
	assert.Empty(t, sender.sent)
	assert.Len(t, queue.Messages(), 1)
}

func TestNotifyEmailFailureStillEnqueues(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	queue := NewMemoryQueue()
	svc := NewService(sender, queue, nil)

	err := svc.NotifyBookingConfirmed(context.Background(), confirmedBooking())

	assert.Error(t, err)
	assert.Len(t, queue.Messages(), 1, "queue delivery is independent of email")
}

func TestNotifyWithNoChannelsIsNoOp(t *testing.T) {
	svc := NewService(nil, nil, nil)
	assert.NoError(t, svc.NotifyBookingConfirmed(context.Background(), confirmedBooking()))
}
