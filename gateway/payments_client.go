package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PaymentOrder is the gateway's order for an in-flight payment. OrderID is
// the reference the customer pays against.
type PaymentOrder struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type PaymentsClient struct {
	httpClient *http.Client
	addr       string
	keyID      string
	keySecret  string
}

func NewPaymentsClient(addr, keyID, keySecret string) *PaymentsClient {
	return &PaymentsClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		addr:       addr,
		keyID:      keyID,
		keySecret:  keySecret,
	}
}

func (c *PaymentsClient) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (PaymentOrder, error) {
	body, err := json.Marshal(map[string]any{
		"amount":          amount, // smallest currency unit
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	})
	if err != nil {
		return PaymentOrder{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.addr+"/orders", bytes.NewReader(body))
	if err != nil {
		return PaymentOrder{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PaymentOrder{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return PaymentOrder{}, fmt.Errorf("unexpected status code while creating payment order: %d", resp.StatusCode)
	}

	var order PaymentOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return PaymentOrder{}, fmt.Errorf("could not decode payment order: %w", err)
	}

	return order, nil
}

// VerifyPayment checks the gateway's signature over the order and payment
// IDs. The engine only consumes the resulting verified fact.
func (c *PaymentsClient) VerifyPayment(_ context.Context, orderID, paymentID, signature string) (bool, error) {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature)), nil
}
