package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `json:"-"` // empty for federated-login accounts
	GoogleID string `gorm:"uniqueIndex;default:null" json:"-"`
	Avatar   string `json:"avatar"`

	// Profile
	Age    int     `json:"age"`
	Weight float64 `json:"weight"` // kg
	Height float64 `json:"height"` // cm
	Goal   string  `json:"goal"`   // weight-loss | muscle-gain | maintenance | general-health

	// Settings
	Theme             string  `gorm:"default:light" json:"theme"`
	DailyCalorieGoal  float64 `gorm:"default:2000" json:"dailyCalorieGoal"`
	DailyStepsGoal    float64 `gorm:"default:10000" json:"dailyStepsGoal"`
	DailySleepGoal    float64 `gorm:"default:8" json:"dailySleepGoal"`

	ResetToken    string    `json:"-"`
	ResetTokenExp time.Time `json:"-"`
}

var ValidGoals = map[string]bool{
	"":               true,
	"weight-loss":    true,
	"muscle-gain":    true,
	"maintenance":    true,
	"general-health": true,
}
