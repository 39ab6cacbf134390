package models

import "time"

// UserApiLimit defines the model for the 'user_api_limit' table.
// Count is the lifetime number of metered calls across all tools.
type UserApiLimit struct {
	ID        int64     `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Count     int       `json:"count" db:"count"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// UserFeatureUsage defines the model for the 'user_feature_usage' table
type UserFeatureUsage struct {
	ID          int64     `json:"id" db:"id"`
	UserID      string    `json:"userId" db:"user_id"`
	FeatureType string    `json:"featureType" db:"feature_type"`
	Count       int       `json:"count" db:"count"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// FeatureUsage is the per-feature entry returned by the api-usage endpoint.
// Limit and Remaining are nil for subscribers.
type FeatureUsage struct {
	Used      int  `json:"used"`
	Limit     *int `json:"limit"`
	Remaining *int `json:"remaining"`
}

// ApiUsageResponse is the payload of GET /api/user/api-usage.
type ApiUsageResponse struct {
	ApiLimitCount        int                     `json:"apiLimitCount"`
	RemainingFreeCredits *int                    `json:"remainingFreeCredits"`
	IsPro                bool                    `json:"isPro"`
	Features             map[string]FeatureUsage `json:"features"`
}
