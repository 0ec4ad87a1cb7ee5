package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/strokecare/platform/pkg/common/logger"
	"github.com/strokecare/platform/pkg/common/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RecordModel struct {
	Collection     string `gorm:"primaryKey;size:32"`
	ID             int64  `gorm:"primaryKey;autoIncrement:false"`
	Kind           string `gorm:"size:32;not null"`
	PatientEmail   string `gorm:"index"`
	RecipientEmail string `gorm:"index"`
	RecipientRole  string `gorm:"size:16"`
	FromEmail      string `gorm:"index"`
	ToEmail        string `gorm:"index"`
	Payload        datatypes.JSON
	CreatedAt      time.Time
}

func (RecordModel) TableName() string {
	return "records"
}

type GormStore struct {
	db  *gorm.DB
	ids *IDSource
}

func NewGormStore(db *gorm.DB, ids *IDSource) *GormStore {
	if ids == nil {
		ids = NewIDSource(nil)
	}
	return &GormStore{db: db, ids: ids}
}

func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(&RecordModel{})
}

func (s *GormStore) List(ctx context.Context, c Collection, f Filter) ([]models.Record, error) {
	if _, ok := KindOf(c); !ok {
		return nil, &models.StoreError{Op: "list", Collection: string(c), Err: fmt.Errorf("unknown collection")}
	}

	query := s.db.WithContext(ctx).Where("collection = ?", string(c))
	if f.PatientEmail != "" {
		query = query.Where("patient_email = ?", f.PatientEmail)
	}
	if f.RecipientEmail != "" {
		query = query.Where("recipient_email = ?", f.RecipientEmail)
	}
	if f.RecipientRole != "" {
		query = query.Where("recipient_role = ?", string(f.RecipientRole))
	}
	if f.Participant != "" {
		query = query.Where("from_email = ? OR to_email = ?", f.Participant, f.Participant)
	}

	var rows []RecordModel
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, &models.StoreError{Op: "list", Collection: string(c), Err: err}
	}

	out := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := decode(row)
		if err != nil {
			return nil, &models.StoreError{Op: "decode", Collection: string(c), Err: err}
		}
		out = append(out, rec)
	}
	return out, nil
}

// Append persists r under a fresh id and returns the stored copy.
func (s *GormStore) Append(ctx context.Context, c Collection, r models.Record) (models.Record, error) {
	if err := checkKind(c, r); err != nil {
		return nil, &models.StoreError{Op: "append", Collection: string(c), Err: err}
	}

	var stored models.Record
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxID int64
		if err := tx.Model(&RecordModel{}).Where("collection = ?", string(c)).
			Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
			return err
		}
		s.ids.Observe(maxID)

		stored = r.WithID(s.ids.Next())
		row, err := encode(c, stored)
		if err != nil {
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		logger.Log.WithError(err).WithField("collection", c).Error("Failed to append record")
		return nil, &models.StoreError{Op: "append", Collection: string(c), Err: err}
	}
	return stored, nil
}

// Replace swaps the whole collection for records in one transaction.
func (s *GormStore) Replace(ctx context.Context, c Collection, records []models.Record) error {
	rows := make([]RecordModel, 0, len(records))
	for _, r := range records {
		if err := checkKind(c, r); err != nil {
			return &models.StoreError{Op: "replace", Collection: string(c), Err: err}
		}
		if r.RecordID() == 0 {
			r = r.WithID(s.ids.Next())
		} else {
			s.ids.Observe(r.RecordID())
		}
		row, err := encode(c, r)
		if err != nil {
			return &models.StoreError{Op: "replace", Collection: string(c), Err: err}
		}
		rows = append(rows, row)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection = ?", string(c)).Delete(&RecordModel{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return &models.StoreError{Op: "replace", Collection: string(c), Err: err}
	}

	logger.Log.WithFields(logrus.Fields{
		"collection": c,
		"records":    len(rows),
	}).Debug("Collection replaced")
	return nil
}

func encode(c Collection, r models.Record) (RecordModel, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return RecordModel{}, err
	}
	row := RecordModel{
		Collection: string(c),
		ID:         r.RecordID(),
		Kind:       string(r.Kind()),
		Payload:    datatypes.JSON(payload),
	}

	switch v := r.(type) {
	case models.HealthAssessment:
		row.PatientEmail = v.PatientEmail
		row.CreatedAt = v.Timestamp
	case models.FASTTestRecord:
		row.PatientEmail = v.PatientEmail
		row.CreatedAt = v.Timestamp
	case models.SharedRecordGrant:
		row.PatientEmail = v.PatientEmail
		row.RecipientEmail = v.RecipientEmail
		row.RecipientRole = string(v.RecipientRole)
		row.CreatedAt = v.SharedAt
	case models.Message:
		row.FromEmail = v.From
		row.ToEmail = v.To
		row.CreatedAt = v.Timestamp
	case models.Alert:
		row.PatientEmail = v.PatientEmail
		row.CreatedAt = v.Timestamp
	default:
		return RecordModel{}, fmt.Errorf("unsupported record type %T", r)
	}
	return row, nil
}

func decode(row RecordModel) (models.Record, error) {
	want, ok := KindOf(Collection(row.Collection))
	if !ok || models.Kind(row.Kind) != want {
		return nil, fmt.Errorf("%w: %s in %s", ErrKindMismatch, row.Kind, row.Collection)
	}

	switch want {
	case models.KindAssessment:
		return decodeAs[models.HealthAssessment](row.Payload)
	case models.KindFASTTest:
		return decodeAs[models.FASTTestRecord](row.Payload)
	case models.KindGrant:
		return decodeAs[models.SharedRecordGrant](row.Payload)
	case models.KindMessage:
		return decodeAs[models.Message](row.Payload)
	case models.KindAlert:
		return decodeAs[models.Alert](row.Payload)
	}
	return nil, fmt.Errorf("unsupported kind %s", want)
}

func decodeAs[T models.Record](payload []byte) (models.Record, error) {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, err
	}
	return v, nil
}
