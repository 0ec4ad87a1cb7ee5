package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/strokecare/platform/pkg/common/models"
)

type Collection string

const (
	Assessments   Collection = "assessments"
	FASTTests     Collection = "fast_tests"
	SharedRecords Collection = "shared_records"
	Messages      Collection = "messages"
	Alerts        Collection = "alerts"
)

var ErrKindMismatch = errors.New("record kind does not belong to collection")

var collectionKinds = map[Collection]models.Kind{
	Assessments:   models.KindAssessment,
	FASTTests:     models.KindFASTTest,
	SharedRecords: models.KindGrant,
	Messages:      models.KindMessage,
	Alerts:        models.KindAlert,
}

// KindOf returns the only record kind a collection may hold.
func KindOf(c Collection) (models.Kind, bool) {
	k, ok := collectionKinds[c]
	return k, ok
}

// Filter narrows a listing. Empty fields do not constrain.
type Filter struct {
	PatientEmail   string
	RecipientEmail string
	RecipientRole  models.Role
	// Participant matches messages sent by or to this email.
	Participant string
}

// RecordStore is the persistence boundary. Listings are in creation order.
type RecordStore interface {
	List(ctx context.Context, c Collection, f Filter) ([]models.Record, error)
	Append(ctx context.Context, c Collection, r models.Record) (models.Record, error)
	Replace(ctx context.Context, c Collection, records []models.Record) error
}

// ListAs lists a collection and narrows the records to their concrete type.
func ListAs[T models.Record](ctx context.Context, s RecordStore, c Collection, f Filter) ([]T, error) {
	records, err := s.List(ctx, c, f)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		typed, ok := r.(T)
		if !ok {
			return nil, &models.StoreError{Op: "list", Collection: string(c), Err: fmt.Errorf("%w: got %s", ErrKindMismatch, r.Kind())}
		}
		out = append(out, typed)
	}
	return out, nil
}

func checkKind(c Collection, r models.Record) error {
	want, ok := KindOf(c)
	if !ok {
		return fmt.Errorf("unknown collection %q", c)
	}
	if r == nil || r.Kind() != want {
		got := models.Kind("nil")
		if r != nil {
			got = r.Kind()
		}
		return fmt.Errorf("%w: %s into %s", ErrKindMismatch, got, c)
	}
	return nil
}

// IDSource issues strictly increasing ids derived from a millisecond clock.
// Millisecond values stay below 1<<53, so JSON clients read them exactly.
type IDSource struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}
	return &IDSource{now: now}
}

func (s *IDSource) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}

// Observe makes later ids exceed id.
func (s *IDSource) Observe(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id > s.last {
		s.last = id
	}
}
