package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/campustrack/academic-record-service/internal/models"
	"github.com/campustrack/academic-record-service/internal/repositories"
)

type AttendancePostgreSQL struct {
	db *gorm.DB
}

func NewAttendancePostgreSQL(db *gorm.DB) repositories.AttendanceRepository {
	return &AttendancePostgreSQL{db: db}
}

func (r *AttendancePostgreSQL) Create(ctx context.Context, record *models.AttendanceRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create attendance record: %w", err)
	}
	return nil
}

func (r *AttendancePostgreSQL) GetByID(ctx context.Context, id uint) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return &record, nil
}

func (r *AttendancePostgreSQL) GetByKey(ctx context.Context, usn, date, hour string) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("usn = ? AND date = ? AND hour = ?", usn, date, hour).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get attendance record by key: %w", err)
	}
	return &record, nil
}

func (r *AttendancePostgreSQL) List(ctx context.Context, filters repositories.AttendanceFilters) ([]*models.AttendanceRecord, error) {
	var records []*models.AttendanceRecord
	query := applyAttendanceFilters(r.db.WithContext(ctx).Model(&models.AttendanceRecord{}), filters)
	if err := query.Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	return records, nil
}

func (r *AttendancePostgreSQL) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update attendance record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *AttendancePostgreSQL) DeleteByFilter(ctx context.Context, filters repositories.AttendanceFilters) error {
	query := applyAttendanceFilters(r.db.WithContext(ctx), filters)
	if err := query.Delete(&models.AttendanceRecord{}).Error; err != nil {
		return fmt.Errorf("failed to delete attendance records: %w", err)
	}
	return nil
}
