package models

import (
	"time"
)

// Donation is the GORM model for the donations table.
// provider_order_ref and provider_payment_ref are kept as two columns;
// the order id is assigned before payment, the payment id on confirmation.
type Donation struct {
	ID                 uint    `gorm:"primaryKey;autoIncrement"`
	UserID             uint    `gorm:"not null;index"`
	Amount             float64 `gorm:"type:decimal(12,2);not null"`
	Currency           string  `gorm:"not null"`
	Status             string  `gorm:"not null;default:PENDING;index"`
	ProviderOrderRef   *string `gorm:"index"`
	ProviderPaymentRef *string
	FailureReason      *string
	CreatedAt          time.Time
}

// TableName overrides the table name
func (Donation) TableName() string {
	return "donations"
}
