package models

import (
	"encoding/json"
	"time"
)

// NetworkMetric defines the model for the 'network_metric' table
type NetworkMetric struct {
	ID         int64           `json:"id" db:"id"`
	UserID     string          `json:"userId" db:"user_id"`
	Latency    float64         `json:"latency" db:"latency"`
	Bandwidth  float64         `json:"bandwidth" db:"bandwidth"`
	PacketLoss *float64        `json:"packetLoss" db:"packet_loss"`
	Status     string          `json:"status" db:"status"`
	Metadata   json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
}

// NetworkMetricInput is the body of POST /api/network-metrics.
type NetworkMetricInput struct {
	Latency    *float64        `json:"latency" binding:"required"`
	Bandwidth  *float64        `json:"bandwidth" binding:"required"`
	PacketLoss *float64        `json:"packetLoss"`
	Status     string          `json:"status"`
	Metadata   json.RawMessage `json:"metadata"`
}
