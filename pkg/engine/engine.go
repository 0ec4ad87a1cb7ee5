package engine

import (
	"context"
	"time"

	"github.com/strokecare/platform/pkg/common/logger"
	"github.com/strokecare/platform/pkg/common/models"
	"github.com/strokecare/platform/pkg/guidance"
	"github.com/strokecare/platform/pkg/scoring"
	"github.com/strokecare/platform/pkg/store"
)

const eventSource = "strokecare-engine"

// EventPublisher is satisfied by kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType, source, partitionKey string, data map[string]interface{}) error
}

// ResultSlot holds the latest assessment of each patient for quick display.
type ResultSlot interface {
	Put(ctx context.Context, a models.HealthAssessment) error
	Get(ctx context.Context, email string) (models.HealthAssessment, error)
	Clear(ctx context.Context, email string) error
}

type RemoteScorer interface {
	Assess(ctx context.Context, form models.FormData) (scoring.RemoteAssessment, error)
}

type Engine struct {
	store          store.RecordStore
	catalog        guidance.Catalog
	slot           ResultSlot
	assessments    EventPublisher
	emergencies    EventPublisher
	remote         RemoteScorer
	now            func() time.Time
	retestInterval time.Duration
	doctorTopN     int
}

type Option func(*Engine)

func WithResultSlot(slot ResultSlot) Option {
	return func(e *Engine) { e.slot = slot }
}

func WithAssessmentEvents(p EventPublisher) Option {
	return func(e *Engine) { e.assessments = p }
}

func WithEmergencyEvents(p EventPublisher) Option {
	return func(e *Engine) { e.emergencies = p }
}

func WithRemoteScorer(r RemoteScorer) Option {
	return func(e *Engine) { e.remote = r }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithRetestInterval(d time.Duration) Option {
	return func(e *Engine) { e.retestInterval = d }
}

func WithDoctorTopN(n int) Option {
	return func(e *Engine) { e.doctorTopN = n }
}

func New(s store.RecordStore, catalog guidance.Catalog, opts ...Option) *Engine {
	e := &Engine{
		store:          s,
		catalog:        catalog,
		now:            func() time.Time { return time.Now().UTC() },
		retestInterval: 90 * 24 * time.Hour,
		doctorTopN:     10,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Catalog() guidance.Catalog {
	return e.catalog
}

func (e *Engine) publish(ctx context.Context, p EventPublisher, eventType, key string, data map[string]interface{}) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, eventType, eventSource, key, data); err != nil {
		logger.WithField("event_type", eventType).WithError(err).Warn("Event not published")
	}
}

func toRecords[T models.Record](items []T) []models.Record {
	out := make([]models.Record, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}
