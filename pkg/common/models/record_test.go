package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryRecordTypeImplementsRecord(t *testing.T) {
	records := map[Kind]Record{
		KindAssessment: HealthAssessment{},
		KindFASTTest:   FASTTestRecord{},
		KindGrant:      SharedRecordGrant{},
		KindMessage:    Message{},
		KindAlert:      Alert{},
	}
	for kind, r := range records {
		assert.Equal(t, kind, r.Kind())
		assert.Equal(t, int64(7), r.WithID(7).RecordID())
	}
}

func TestMessageCategoryEncodesAsKind(t *testing.T) {
	raw, err := json.Marshal(Message{ID: 1, From: "c@x.com", To: "p@x.com", Category: MessageEncouragement, Timestamp: time.Unix(0, 0).UTC()})
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "encouragement", out["kind"])

	var back Message
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, MessageEncouragement, back.Category)
	assert.Equal(t, KindMessage, back.Kind())
}
