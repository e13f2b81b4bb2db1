package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Log categories form a closed set; Category is immutable after creation.
const (
	CategoryDiet    = "diet"
	CategoryFitness = "fitness"
	CategorySleep   = "sleep"
	CategoryMood    = "mood"
)

var ValidCategories = map[string]bool{
	CategoryDiet:    true,
	CategoryFitness: true,
	CategorySleep:   true,
	CategoryMood:    true,
}

type HealthLog struct {
	gorm.Model
	UserID     uint           `gorm:"index:idx_logs_user_cat_time;not null" json:"userId"`
	Category   string         `gorm:"index:idx_logs_user_cat_time;not null" json:"category"`
	OccurredAt time.Time      `gorm:"index:idx_logs_user_cat_time;not null" json:"occurredAt"`
	Payload    datatypes.JSON `gorm:"not null" json:"payload"`
}

// Category-specific payload shapes. The column itself stays free-form JSON;
// these document the fields the aggregator and clients read.

type DietPayload struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	MealType string  `json:"mealType,omitempty"`
}

type FitnessPayload struct {
	Steps          float64 `json:"steps"`
	Duration       float64 `json:"duration"` // minutes
	Intensity      string  `json:"intensity,omitempty"`
	CaloriesBurned float64 `json:"caloriesBurned"`
	Type           string  `json:"type,omitempty"`
}

type SleepPayload struct {
	Hours   float64 `json:"hours"`
	Quality float64 `json:"quality"` // 1..5
	Notes   string  `json:"notes,omitempty"`
}

type MoodPayload struct {
	Mood   string  `json:"mood,omitempty"`
	Rating float64 `json:"rating"` // 1..5
	Energy float64 `json:"energy"` // 1..10
	Notes  string  `json:"notes,omitempty"`
}
