package models

import "time"

// SubscriptionStatusActive is the status the payment webhook writes for a paid plan.
const SubscriptionStatusActive = "active"

// UserSubscription defines the model for the 'user_subscription' table.
// Rows are written by the payment webhook; this service only reads them.
type UserSubscription struct {
	ID               int64     `json:"id" db:"id"`
	UserID           string    `json:"userId" db:"user_id"`
	SubscriptionID   string    `json:"subscriptionId" db:"subscription_id"`
	Status           string    `json:"status" db:"status"`
	CurrentPeriodEnd time.Time `json:"currentPeriodEnd" db:"current_period_end"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}
