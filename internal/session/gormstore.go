package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"portfolio-api/internal/models"

	"gorm.io/gorm"
)

// GormStore persists sessions in the sessions table next to the
// application data, so a single database backs both.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Load(ctx context.Context, id string) (*Record, error) {
	var row models.SessionRecord
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if time.Now().After(row.ExpiresAt) {
		// expired but not yet swept
		_ = s.db.WithContext(ctx).Delete(&models.SessionRecord{}, "id = ?", id).Error
		return nil, ErrNotFound
	}

	data := make(map[string]interface{})
	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, &data); err != nil {
			return nil, fmt.Errorf("decode session data: %w", err)
		}
	}
	return &Record{ID: row.ID, Data: data, ExpiresAt: row.ExpiresAt}, nil
}

func (s *GormStore) Save(ctx context.Context, rec *Record) error {
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("encode session data: %w", err)
	}
	row := models.SessionRecord{
		ID:        rec.ID,
		Data:      data,
		ExpiresAt: rec.ExpiresAt,
	}
	err = s.db.WithContext(ctx).Save(&row).Error
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Delete(&models.SessionRecord{}, "id = ?", id).Error
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *GormStore) DeleteExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.SessionRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
