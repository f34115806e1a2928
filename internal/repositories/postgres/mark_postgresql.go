package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/campustrack/academic-record-service/internal/models"
	"github.com/campustrack/academic-record-service/internal/repositories"
)

type MarkPostgreSQL struct {
	db *gorm.DB
}

func NewMarkPostgreSQL(db *gorm.DB) repositories.MarkRepository {
	return &MarkPostgreSQL{db: db}
}

func (r *MarkPostgreSQL) Create(ctx context.Context, record *models.IAMarkRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create mark record: %w", err)
	}
	return nil
}

func (r *MarkPostgreSQL) GetByID(ctx context.Context, id uint) (*models.IAMarkRecord, error) {
	var record models.IAMarkRecord
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get mark record: %w", err)
	}
	return &record, nil
}

func (r *MarkPostgreSQL) GetByKey(ctx context.Context, usn, subject string) (*models.IAMarkRecord, error) {
	var record models.IAMarkRecord
	err := r.db.WithContext(ctx).
		Where("usn = ? AND subject = ?", usn, subject).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get mark record by key: %w", err)
	}
	return &record, nil
}

func (r *MarkPostgreSQL) List(ctx context.Context, filters repositories.MarkFilters) ([]*models.IAMarkRecord, error) {
	var records []*models.IAMarkRecord
	query := applyMarkFilters(r.db.WithContext(ctx).Model(&models.IAMarkRecord{}), filters)
	if err := query.Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list mark records: %w", err)
	}
	return records, nil
}

func (r *MarkPostgreSQL) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.IAMarkRecord{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update mark record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *MarkPostgreSQL) DeleteByFilter(ctx context.Context, filters repositories.MarkFilters) error {
	query := applyMarkFilters(r.db.WithContext(ctx), filters)
	if err := query.Delete(&models.IAMarkRecord{}).Error; err != nil {
		return fmt.Errorf("failed to delete mark records: %w", err)
	}
	return nil
}
