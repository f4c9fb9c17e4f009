package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/NextechGS/nextech-concierge/models"
)

// AlreadySent reports whether a notification with this dedup key was
// recorded before. Lookup errors count as "not sent": a duplicate message
// beats a silently dropped one.
func AlreadySent(db *gorm.DB, dedupKey string) bool {
	var rec models.NotificationRecord
	err := db.Where("dedup_key = ?", dedupKey).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	return err == nil
}

// RecordSent writes a ledger row for a delivered notification.
func RecordSent(db *gorm.DB, kind, recipient, dedupKey string) error {
	rec := models.NotificationRecord{
		ID:        uuid.NewString(),
		Kind:      kind,
		Recipient: recipient,
		DedupKey:  dedupKey,
		SentAt:    time.Now(),
	}
	return db.Create(&rec).Error
}
