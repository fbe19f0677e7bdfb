package api

import (
	"time"

	"ridepulse/pkg/contracts/domain"
)

// StatusSuccess is the status of every successful response envelope
const StatusSuccess = "success"

// Response is the envelope of successful JSON responses
type Response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

// Success wraps data in the success envelope
func Success(data interface{}) Response {
	return Response{Status: StatusSuccess, Data: data}
}

// SessionResponse describes a session
type SessionResponse struct {
	ID         string                         `json:"id"`
	ActiveView domain.View                    `json:"active_view"`
	Filters    map[domain.View]domain.Filters `json:"filters"`
	CreatedAt  time.Time                      `json:"created_at"`
	LastSeen   time.Time                      `json:"last_seen"`
}
