package services

import (
	"errors"
	"fmt"

	"github.com/mehrap673/WellBud/config"
	"github.com/mehrap673/WellBud/models"
	"github.com/mehrap673/WellBud/utils"
)

type ProfileInput struct {
	Name   *string  `json:"name"`
	Age    *int     `json:"age"`
	Weight *float64 `json:"weight"`
	Height *float64 `json:"height"`
	Goal   *string  `json:"goal"`
	Theme  *string  `json:"theme"`

	DailyCalorieGoal *float64 `json:"dailyCalorieGoal"`
	DailyStepsGoal   *float64 `json:"dailyStepsGoal"`
	DailySleepGoal   *float64 `json:"dailySleepGoal"`

	Avatar *string `json:"avatar"` // base64 data URL
}

func GetUserProfile(userID uint) (map[string]interface{}, error) {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return nil, errors.New("user not found")
	}
	return PublicProfile(&user), nil
}

// PublicProfile strips credentials and derives BMI when measurements exist.
func PublicProfile(user *models.User) map[string]interface{} {
	profile := map[string]interface{}{
		"id":     user.ID,
		"name":   user.Name,
		"email":  user.Email,
		"avatar": user.Avatar,
		"age":    user.Age,
		"weight": user.Weight,
		"height": user.Height,
		"goal":   user.Goal,
		"theme":  user.Theme,
		"preferences": map[string]float64{
			"dailyCalorieGoal": user.DailyCalorieGoal,
			"dailyStepsGoal":   user.DailyStepsGoal,
			"dailySleepGoal":   user.DailySleepGoal,
		},
		"createdAt": user.CreatedAt,
		"updatedAt": user.UpdatedAt,
	}

	if bmi, err := utils.CalculateBMI(user.Height, user.Weight); err == nil {
		profile["bmi"] = round1(bmi)
		profile["bmiCategory"] = utils.BMICategory(bmi)
	}
	return profile
}

func UpdateUserProfile(userID uint, input ProfileInput) (map[string]interface{}, error) {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return nil, errors.New("user not found")
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Age != nil {
		if *input.Age < 1 || *input.Age > 120 {
			return nil, errors.New("age must be between 1 and 120")
		}
		user.Age = *input.Age
	}
	if input.Weight != nil {
		if *input.Weight < 1 || *input.Weight > 300 {
			return nil, errors.New("weight must be between 1 and 300 kg")
		}
		user.Weight = *input.Weight
	}
	if input.Height != nil {
		if *input.Height < 1 || *input.Height > 300 {
			return nil, errors.New("height must be between 1 and 300 cm")
		}
		user.Height = *input.Height
	}
	if input.Goal != nil {
		if !models.ValidGoals[*input.Goal] {
			return nil, errors.New("invalid goal")
		}
		user.Goal = *input.Goal
	}
	if input.Theme != nil {
		if *input.Theme != "light" && *input.Theme != "dark" {
			return nil, errors.New("theme must be light or dark")
		}
		user.Theme = *input.Theme
	}
	if input.DailyCalorieGoal != nil {
		if *input.DailyCalorieGoal < 500 || *input.DailyCalorieGoal > 10000 {
			return nil, errors.New("calorie goal must be between 500 and 10000")
		}
		user.DailyCalorieGoal = *input.DailyCalorieGoal
	}
	if input.DailyStepsGoal != nil {
		if *input.DailyStepsGoal < 1000 || *input.DailyStepsGoal > 100000 {
			return nil, errors.New("steps goal must be between 1000 and 100000")
		}
		user.DailyStepsGoal = *input.DailyStepsGoal
	}
	if input.DailySleepGoal != nil {
		if *input.DailySleepGoal < 1 || *input.DailySleepGoal > 24 {
			return nil, errors.New("sleep goal must be between 1 and 24 hours")
		}
		user.DailySleepGoal = *input.DailySleepGoal
	}
	if input.Avatar != nil && *input.Avatar != "" {
		url, err := utils.UploadBase64AvatarToS3(*input.Avatar, user.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to upload avatar: %v", err)
		}
		user.Avatar = url
	}

	if err := config.DB.Save(&user).Error; err != nil {
		return nil, err
	}
	return PublicProfile(&user), nil
}
