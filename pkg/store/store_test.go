package store

import (
	"context"
	"testing"
	"time"

	"github.com/strokecare/platform/pkg/common/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	s := NewGormStore(db, nil)
	require.NoError(t, s.AutoMigrate())
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return s
}

func TestIDSourceIsStrictlyIncreasing(t *testing.T) {
	fixed := time.UnixMilli(1000)
	ids := NewIDSource(func() time.Time { return fixed })

	a := ids.Next()
	b := ids.Next()
	assert.Equal(t, int64(1000), a)
	assert.Equal(t, int64(1001), b)

	ids.Observe(5000)
	assert.Equal(t, int64(5001), ids.Next())
}

func TestIssuedIDsFitInJSONNumbers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rec, err := s.Append(ctx, Assessments, models.HealthAssessment{PatientEmail: "p@x.com", Timestamp: time.Now()})
	require.NoError(t, err)
	id := rec.RecordID()
	assert.LessOrEqual(t, id, int64(1)<<53)
	assert.Equal(t, id, int64(float64(id)))

	far := NewIDSource(func() time.Time { return time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC) })
	assert.LessOrEqual(t, far.Next(), int64(1)<<53)
}

func TestAppendAndListAssessments(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	now := time.Now().UTC().Truncate(time.Millisecond)
	first, err := s.Append(ctx, Assessments, models.HealthAssessment{PatientEmail: "p@x.com", TotalScore: 3, RiskLevel: models.RiskLow, Timestamp: now})
	require.NoError(t, err)
	second, err := s.Append(ctx, Assessments, models.HealthAssessment{PatientEmail: "q@x.com", TotalScore: 9, RiskLevel: models.RiskHigh, Timestamp: now})
	require.NoError(t, err)
	assert.Greater(t, second.RecordID(), first.RecordID())

	all, err := ListAs[models.HealthAssessment](ctx, s, Assessments, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "p@x.com", all[0].PatientEmail)
	assert.Equal(t, now, all[0].Timestamp)

	own, err := ListAs[models.HealthAssessment](ctx, s, Assessments, Filter{PatientEmail: "q@x.com"})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, 9, own[0].TotalScore)
}

func TestAppendRejectsWrongKind(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Append(context.Background(), Alerts, models.Message{To: "a@x.com"})
	require.Error(t, err)
	assert.True(t, models.IsStore(err))
	assert.ErrorIs(t, err, ErrKindMismatch)
}

func TestGrantFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, g := range []models.SharedRecordGrant{
		{PatientEmail: "p@x.com", RecipientEmail: "c@x.com", RecipientRole: models.RoleCaregiver},
		{PatientEmail: "p@x.com", RecipientEmail: "c@x.com", RecipientRole: models.RoleDoctor},
		{PatientEmail: "p@x.com", RecipientEmail: "d@x.com", RecipientRole: models.RoleDoctor},
	} {
		_, err := s.Append(ctx, SharedRecords, g)
		require.NoError(t, err)
	}

	got, err := ListAs[models.SharedRecordGrant](ctx, s, SharedRecords, Filter{RecipientEmail: "c@x.com", RecipientRole: models.RoleCaregiver})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.RoleCaregiver, got[0].RecipientRole)
}

func TestMessageParticipantFilter(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, m := range []models.Message{
		{From: "a@x.com", To: "b@x.com", Subject: "hi", Body: "1"},
		{From: "b@x.com", To: "a@x.com", Subject: "re", Body: "2"},
		{From: "c@x.com", To: "b@x.com", Subject: "other", Body: "3"},
	} {
		_, err := s.Append(ctx, Messages, m)
		require.NoError(t, err)
	}

	got, err := ListAs[models.Message](ctx, s, Messages, Filter{Participant: "a@x.com"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestReplaceSwapsCollection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	kept, err := s.Append(ctx, Messages, models.Message{From: "a@x.com", To: "b@x.com", Subject: "s", Body: "b"})
	require.NoError(t, err)
	_, err = s.Append(ctx, Messages, models.Message{From: "a@x.com", To: "c@x.com", Subject: "s", Body: "b"})
	require.NoError(t, err)

	msg := kept.(models.Message)
	msg.Read = true
	require.NoError(t, s.Replace(ctx, Messages, []models.Record{msg}))

	got, err := ListAs[models.Message](ctx, s, Messages, Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, msg.ID, got[0].ID)
	assert.True(t, got[0].Read)

	require.NoError(t, s.Replace(ctx, Messages, nil))
	got, err = ListAs[models.Message](ctx, s, Messages, Filter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReplaceRejectsMixedKinds(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, err := s.Append(ctx, Alerts, models.Alert{PatientEmail: "p@x.com", Type: models.AlertFASTEmergency})
	require.NoError(t, err)

	err = s.Replace(ctx, Alerts, []models.Record{models.Message{}})
	assert.ErrorIs(t, err, ErrKindMismatch)

	alerts, err := ListAs[models.Alert](ctx, s, Alerts, Filter{})
	require.NoError(t, err)
	assert.Len(t, alerts, 1, "failed replace must leave the collection untouched")
}
