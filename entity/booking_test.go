package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"eventmanager/entity"
)

func TestBookingStatusTransitions(t *testing.T) {
	testCases := []struct {
		from    entity.BookingStatus
		to      entity.BookingStatus
		allowed bool
	}{
		{entity.BookingStatusPendingPayment, entity.BookingStatusConfirmed, true},
		{entity.BookingStatusPendingPayment, entity.BookingStatusFailed, true},
		{entity.BookingStatusPendingPayment, entity.BookingStatusCancelled, true},
		{entity.BookingStatusConfirmed, entity.BookingStatusCancelled, true},

		{entity.BookingStatusConfirmed, entity.BookingStatusPendingPayment, false},
		{entity.BookingStatusConfirmed, entity.BookingStatusFailed, false},
		{entity.BookingStatusFailed, entity.BookingStatusConfirmed, false},
		{entity.BookingStatusFailed, entity.BookingStatusCancelled, false},
		{entity.BookingStatusCancelled, entity.BookingStatusConfirmed, false},
		{entity.BookingStatusCancelled, entity.BookingStatusFailed, false},
		{entity.BookingStatusPendingPayment, entity.BookingStatusPendingPayment, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestBookingStatusIsTerminal(t *testing.T) {
	assert.False(t, entity.BookingStatusPendingPayment.IsTerminal())
	assert.False(t, entity.BookingStatusConfirmed.IsTerminal())
	assert.True(t, entity.BookingStatusFailed.IsTerminal())
	assert.True(t, entity.BookingStatusCancelled.IsTerminal())
}
