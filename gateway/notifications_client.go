package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// NotificationsClient sends booking confirmation notices through the mail
// service.
type NotificationsClient struct {
	httpClient *http.Client
	addr       string
}

func NewNotificationsClient(addr string) *NotificationsClient {
	return &NotificationsClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		addr:       addr,
	}
}

func (c *NotificationsClient) SendBookingConfirmation(
	ctx context.Context,
	email, eventTitle string,
	ticketCount int,
	bookingID string,
) error {
	body, err := json.Marshal(map[string]any{
		"email":        email,
		"subject":      "Event Booking Confirmation: " + eventTitle,
		"event_title":  eventTitle,
		"ticket_count": ticketCount,
		"booking_id":   bookingID,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.addr+"/notifications", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status code while sending notification: %d", resp.StatusCode)
	}

	return nil
}
