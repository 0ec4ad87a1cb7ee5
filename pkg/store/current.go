package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/strokecare/platform/pkg/common/models"
)

const currentResultPrefix = "current_result:"

// CurrentResults keeps the most recent assessment of each patient in a
// single ephemeral slot. Each Put overwrites the previous value.
type CurrentResults struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCurrentResults(client *redis.Client, ttl time.Duration) *CurrentResults {
	return &CurrentResults{client: client, ttl: ttl}
}

func currentKey(email string) string {
	return currentResultPrefix + email
}

func (c *CurrentResults) Put(ctx context.Context, a models.HealthAssessment) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal current result: %w", err)
	}
	if err := c.client.Set(ctx, currentKey(a.PatientEmail), payload, c.ttl).Err(); err != nil {
		return &models.StoreError{Op: "put", Collection: "current_result", Err: err}
	}
	return nil
}

func (c *CurrentResults) Get(ctx context.Context, email string) (models.HealthAssessment, error) {
	raw, err := c.client.Get(ctx, currentKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.HealthAssessment{}, models.NewNotFoundError("current result", email)
	}
	if err != nil {
		return models.HealthAssessment{}, &models.StoreError{Op: "get", Collection: "current_result", Err: err}
	}

	var a models.HealthAssessment
	if err := json.Unmarshal(raw, &a); err != nil {
		return models.HealthAssessment{}, &models.StoreError{Op: "decode", Collection: "current_result", Err: err}
	}
	return a, nil
}

func (c *CurrentResults) Clear(ctx context.Context, email string) error {
	if err := c.client.Del(ctx, currentKey(email)).Err(); err != nil {
		return &models.StoreError{Op: "clear", Collection: "current_result", Err: err}
	}
	return nil
}
