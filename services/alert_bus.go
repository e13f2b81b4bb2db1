package services

import (
	"fmt"
	"time"

	"github.com/mehrap673/WellBud/models"

	"gorm.io/gorm"
)

type alertDeps struct {
	db *gorm.DB
	rt *RealtimeHub
}

var _alert alertDeps

func InitAlertDeps(db *gorm.DB, rt *RealtimeHub) {
	_alert = alertDeps{db: db, rt: rt}
}

func EmitAlert(userID uint, typ, category, message string) { // safe to call anywhere
	if _alert.db == nil {
		return // not initialized
	}
	a := &models.Alert{UserID: userID, Type: typ, Category: category, Message: message, CreatedAt: time.Now()}
	_ = _alert.db.Create(a).Error

	if _alert.rt != nil {
		_alert.rt.BroadcastAlert(userID, map[string]any{
			"kind":  "alert.created",
			"alert": a,
		})
	}
}

// streakMilestone is the cadence at which logging streaks earn an alert.
const streakMilestone = 7

// NotifyStreakMilestone emits an alert when a category streak hits a multiple
// of the milestone cadence.
func NotifyStreakMilestone(userID uint, category string, streak int) {
	if streak <= 0 || streak%streakMilestone != 0 {
		return
	}
	EmitAlert(userID, "streak.milestone", category,
		fmt.Sprintf("%d-day %s streak! Keep it going.", streak, category))
}

func ListAlerts(userID uint, limit int) ([]models.Alert, error) {
	if _alert.db == nil {
		return []models.Alert{}, nil
	}
	if limit <= 0 {
		limit = 20
	}
	var alerts []models.Alert
	err := _alert.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error
	if alerts == nil {
		alerts = []models.Alert{}
	}
	return alerts, err
}
