package models

import (
	"time"

	"gorm.io/gorm"
)

type FlashEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Timestamp   time.Time      `gorm:"not null;index" json:"timestamp"`
	AppName     string         `gorm:"not null;index" json:"app_name"`
	WindowTitle string         `gorm:"not null" json:"window_title"`
	WindowID    uint32         `gorm:"not null" json:"window_id"`
	Effect      string         `gorm:"not null" json:"effect"` // "fade" or "border"
	Easing      string         `gorm:"not null" json:"easing"`
	DurationMs  int64          `gorm:"not null;default:0" json:"duration_ms"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

type AppSummary struct {
	AppName    string    `json:"app_name"`
	FlashCount int64     `json:"flash_count"`
	LastFlash  time.Time `json:"last_flash"`
	Percentage float64   `json:"percentage,omitempty"`
}

type SummaryPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Type  string    `json:"type"` // "day", "week", "month"
}

type Summary struct {
	Period      SummaryPeriod `json:"period"`
	Apps        []AppSummary  `json:"apps"`
	TotalCount  int64         `json:"total_count"`
	GeneratedAt time.Time     `json:"generated_at"`
}
