package services

import (
	"context"
	"errors"
	"time"

	"github.com/mehrap673/WellBud/config"
	"github.com/mehrap673/WellBud/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrLogNotFound = errors.New("log not found")

func CreateHealthLog(userID uint, category string, payload datatypes.JSON, occurredAt *time.Time) (*models.HealthLog, error) {
	when := time.Now()
	if occurredAt != nil {
		when = *occurredAt
	}

	log := models.HealthLog{
		UserID:     userID,
		Category:   category,
		OccurredAt: when,
		Payload:    payload,
	}
	if err := config.DB.Create(&log).Error; err != nil {
		return nil, err
	}

	// Milestone alerts ride on creation; a failed recompute never blocks the write.
	analytics := NewAnalyticsService(config.DB)
	if out, err := analytics.Analytics(context.Background(), userID, category, streakAlertWindowDays); err == nil {
		NotifyStreakMilestone(userID, category, out.Streak)
	}

	return &log, nil
}

// streakAlertWindowDays bounds the history loaded for milestone detection.
const streakAlertWindowDays = 366

// ListHealthLogs returns a user's logs newest-first, optionally filtered by
// category and [from, to] range. Every query is scoped by userID.
func ListHealthLogs(userID uint, category string, from, to *time.Time) ([]models.HealthLog, error) {
	q := config.DB.Where("user_id = ?", userID)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if from != nil {
		q = q.Where("occurred_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("occurred_at <= ?", *to)
	}

	var logs []models.HealthLog
	if err := q.Order("occurred_at DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []models.HealthLog{}
	}
	return logs, nil
}

// UpdateHealthLog mutates payload and/or occurredAt in place. Category is
// immutable. Lookups outside the owner's scope report not-found, never the
// existence of another tenant's row.
func UpdateHealthLog(userID, logID uint, payload datatypes.JSON, occurredAt *time.Time) (*models.HealthLog, error) {
	var log models.HealthLog
	if err := config.DB.Where("id = ? AND user_id = ?", logID, userID).First(&log).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLogNotFound
		}
		return nil, err
	}

	if payload != nil {
		log.Payload = payload
	}
	if occurredAt != nil {
		log.OccurredAt = *occurredAt
	}

	if err := config.DB.Save(&log).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

func DeleteHealthLog(userID, logID uint) error {
	res := config.DB.Where("id = ? AND user_id = ?", logID, userID).Delete(&models.HealthLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrLogNotFound
	}
	return nil
}
