package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const JobTypeNotifyMembers = "notify_members"

type Job struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Retry     int             `json:"retry"`
	MaxRetry  int             `json:"max_retry"`
	ErrorMsg  string          `json:"error_msg,omitempty"`
	CreatedAt int64           `json:"created_at"`
	ExpireAt  int64           `json:"expired_at"`
}

func NewJob(jobType string, payload any, maxRetry int, ttl time.Duration) Job {
	now := time.Now()
	return Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Payload:   MustMarshal(payload),
		MaxRetry:  maxRetry,
		CreatedAt: now.Unix(),
		ExpireAt:  now.Add(ttl).Unix(),
	}
}

func MustMarshal(payload any) json.RawMessage {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil
	}

	return b
}
