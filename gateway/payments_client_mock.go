package gateway

import (
	"context"
	"fmt"
	"sync"
)

type PaymentsMock struct {
	mock sync.Mutex

	Orders map[string]PaymentOrder

	// VerifyResult is returned by VerifyPayment for any signature.
	VerifyResult bool
}

func (c *PaymentsMock) CreateOrder(_ context.Context, amount int64, currency, receipt string) (PaymentOrder, error) {
	c.mock.Lock()
	defer c.mock.Unlock()
	if c.Orders == nil {
		c.Orders = make(map[string]PaymentOrder)
	}

	order := PaymentOrder{
		OrderID:  fmt.Sprintf("order_%d", len(c.Orders)+1),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	}
	c.Orders[order.OrderID] = order

	return order, nil
}

func (c *PaymentsMock) VerifyPayment(_ context.Context, _, _, _ string) (bool, error) {
	c.mock.Lock()
	defer c.mock.Unlock()
	return c.VerifyResult, nil
}
