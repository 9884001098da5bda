package database

import (
	"strings"
	"time"

	"github.com/hugo/flashd/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// Repository handles all database operations for flash history
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new flash event into the database
func (r *Repository) Create(event *models.FlashEvent) error {
	event.AppName = strings.ToLower(event.AppName)
	result := r.db.Create(event)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert flash event")
	}
	return nil
}

// GetFlashesSince retrieves all flash events since a given time
func (r *Repository) GetFlashesSince(since time.Time) ([]*models.FlashEvent, error) {
	var events []*models.FlashEvent
	result := r.db.Where("timestamp >= ?", since).Order("timestamp ASC").Find(&events)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query flash events")
	}

	return events, nil
}

// GetRecentFlashes retrieves the most recent flash events, newest first
func (r *Repository) GetRecentFlashes(limit int) ([]*models.FlashEvent, error) {
	var events []*models.FlashEvent
	result := r.db.Order("timestamp DESC").Limit(limit).Find(&events)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query recent flashes")
	}
	return events, nil
}

// GetLatest retrieves the most recent flash event
func (r *Repository) GetLatest() (*models.FlashEvent, error) {
	var event models.FlashEvent
	result := r.db.Order("timestamp DESC").First(&event)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get latest flash")
	}
	return &event, nil
}

// GetAppSummarySince returns per-app flash counts since a given time
// Uses SQL aggregation - runtime can do additional calculations
func (r *Repository) GetAppSummarySince(since time.Time) ([]models.AppSummary, error) {
	var summaries []models.AppSummary

	result := r.db.Model(&models.FlashEvent{}).
		Select("app_name, COUNT(*) as flash_count, MAX(timestamp) as last_flash").
		Where("timestamp >= ?", since).
		Group("app_name").
		Order("flash_count DESC").
		Scan(&summaries)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query app summary")
	}

	return summaries, nil
}

// DeleteOldEvents deletes flash events older than a specified date (soft delete)
func (r *Repository) DeleteOldEvents(before time.Time) (int64, error) {
	result := r.db.Where("timestamp < ?", before).Delete(&models.FlashEvent{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old events")
	}
	return result.RowsAffected, nil
}

// CreateErrorLog inserts a new error log into the database
func (r *Repository) CreateErrorLog(errorLog *models.ErrorLog) error {
	result := r.db.Create(errorLog)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert error log")
	}
	return nil
}

// GetErrorsSince retrieves error logs since a given time, newest first
func (r *Repository) GetErrorsSince(since time.Time) ([]*models.ErrorLog, error) {
	var logs []*models.ErrorLog
	result := r.db.Where("timestamp >= ?", since).Order("timestamp DESC").Find(&logs)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query error logs")
	}
	return logs, nil
}

// Clear removes all flash events from the database
func (r *Repository) Clear() error {
	result := r.db.Exec("DELETE FROM flash_events")
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to clear flash events")
	}
	return nil
}
