package payments

import (
	"fmt"
	"time"
)

// MockAdapter fakes a payment provider for local development. It issues
// opaque secrets with no proof of payment behind them and its confirm path
// trusts the caller entirely. NOT for production use.
type MockAdapter struct {
	now func() time.Time
}

// NewMockAdapter creates a new mock adapter
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{now: time.Now}
}

// CreateIntent returns a fake client secret for a new payment intent
func (a *MockAdapter) CreateIntent() string {
	return fmt.Sprintf("mock_secret_%d", a.now().UnixMilli())
}

// PaymentRef returns a fake payment reference for a confirmed intent
func (a *MockAdapter) PaymentRef() string {
	return fmt.Sprintf("mock_pi_%d", a.now().UnixMilli())
}
