package models

// Kind tags each persisted record variant.
type Kind string

const (
	KindAssessment Kind = "assessment"
	KindFASTTest   Kind = "fast_test"
	KindGrant      Kind = "shared_record"
	KindMessage    Kind = "message"
	KindAlert      Kind = "alert"
)

// Record is implemented by every persisted record type.
type Record interface {
	Kind() Kind
	RecordID() int64
	// WithID returns a copy carrying id.
	WithID(id int64) Record
}

func (a HealthAssessment) Kind() Kind      { return KindAssessment }
func (a HealthAssessment) RecordID() int64 { return a.ID }
func (a HealthAssessment) WithID(id int64) Record {
	a.ID = id
	return a
}

func (f FASTTestRecord) Kind() Kind      { return KindFASTTest }
func (f FASTTestRecord) RecordID() int64 { return f.ID }
func (f FASTTestRecord) WithID(id int64) Record {
	f.ID = id
	return f
}

func (g SharedRecordGrant) Kind() Kind      { return KindGrant }
func (g SharedRecordGrant) RecordID() int64 { return g.ID }
func (g SharedRecordGrant) WithID(id int64) Record {
	g.ID = id
	return g
}

func (m Message) Kind() Kind      { return KindMessage }
func (m Message) RecordID() int64 { return m.ID }
func (m Message) WithID(id int64) Record {
	m.ID = id
	return m
}

func (a Alert) Kind() Kind      { return KindAlert }
func (a Alert) RecordID() int64 { return a.ID }
func (a Alert) WithID(id int64) Record {
	a.ID = id
	return a
}
