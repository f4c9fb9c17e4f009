package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification kinds recorded in the ledger.
const (
	NotificationKindRelease = "release-reminder"
	NotificationKindWeekly  = "weekly-stats"
	NotificationKindStale   = "stale-bump"
)

// NotificationRecord is one sent notification. The DedupKey makes scheduled
// jobs idempotent across ticks: a job that already recorded a key skips the
// send on the next run.
type NotificationRecord struct {
	ID        string `gorm:"primaryKey"`
	Kind      string `gorm:"index"`
	Recipient string // resolved slack ID or PR URL
	DedupKey  string `gorm:"uniqueIndex"`
	SentAt    time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
