package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mehrap673/WellBud/models"

	"gorm.io/gorm"
)

// The Insight Composer turns aggregated statistics into a narrative object via
// the generative upstream. It never returns an error to its caller: any
// upstream or parse failure degrades to a deterministic template of the same
// shape.

type InsightService struct {
	db        *gorm.DB
	ai        *GeminiClient
	analytics *AnalyticsService
}

func NewInsightService(db *gorm.DB, ai *GeminiClient) *InsightService {
	return &InsightService{db: db, ai: ai, analytics: NewAnalyticsService(db)}
}

const insightWindowDays = 30

type Overview struct {
	Headline            string   `json:"headline"`
	Narrative           string   `json:"narrative"`
	Consistency         string   `json:"consistency"`
	KeyWins             []string `json:"keyWins"`
	GrowthAreas         []string `json:"growthAreas"`
	InterestingPatterns []string `json:"interestingPatterns"`
}

type CategoryInsight struct {
	Status                 string   `json:"status"`
	StoryTitle             string   `json:"storyTitle"`
	DeepInsight            string   `json:"deepInsight"`
	WhatIsWorkingWell      []string `json:"whatIsWorkingWell"`
	OpportunitiesForGrowth []string `json:"opportunitiesForGrowth"`
	DidYouKnow             string   `json:"didYouKnow"`
}

type BigPicture struct {
	HolisticSummary string   `json:"holisticSummary"`
	KeyCorrelations []string `json:"keyCorrelations"`
	MomentumCheck   string   `json:"momentumCheck"`
}

type ActionItem struct {
	Category        string `json:"category"`
	Priority        string `json:"priority"`
	Title           string `json:"title"`
	Why             string `json:"why"`
	What            string `json:"what"`
	How             string `json:"how"`
	ExpectedOutcome string `json:"expectedOutcome"`
	Difficulty      string `json:"difficulty"`
	TimeCommitment  string `json:"timeCommitment"`
}

type WeeklyFocus struct {
	Theme           string `json:"theme"`
	DailyMicroHabit string `json:"dailyMicroHabit"`
	WeeklyChallenge string `json:"weeklyChallenge"`
	TrackingTip     string `json:"trackingTip"`
}

type Insights struct {
	PersonalGreeting  string          `json:"personalGreeting"`
	Overview          Overview        `json:"overview"`
	Diet              CategoryInsight `json:"diet"`
	Fitness           CategoryInsight `json:"fitness"`
	Sleep             CategoryInsight `json:"sleep"`
	Mood              CategoryInsight `json:"mood"`
	TheBigPicture     BigPicture      `json:"theBigPicture"`
	YourActionPlan    []ActionItem    `json:"yourActionPlan"`
	WeeklyFocus       WeeklyFocus     `json:"weeklyFocus"`
	MotivationalClose string          `json:"motivationalClose"`
	FunFact           string          `json:"funFact"`
}

// Insights composes the narrative object for a user. The only error it can
// return is a database failure while assembling input; upstream failures are
// absorbed into the fallback.
func (s *InsightService) Insights(ctx context.Context, userID uint) (*Insights, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}

	stats, err := s.analytics.DetailedAnalytics(ctx, userID, insightWindowDays)
	if err != nil {
		return nil, err
	}

	if !s.ai.Available() {
		return fallbackInsights(&user, stats), nil
	}

	text, err := s.ai.GenerateText(ctx, insightPrompt(&user, stats), 0)
	if err != nil {
		log.Printf("insights upstream error: %v", err)
		return fallbackInsights(&user, stats), nil
	}

	var out Insights
	if err := json.Unmarshal([]byte(StripCodeFences(text)), &out); err != nil {
		log.Printf("insights parse error: %v", err)
		return fallbackInsights(&user, stats), nil
	}
	return &out, nil
}

func insightPrompt(user *models.User, stats *DetailedAnalytics) string {
	diet, _ := json.MarshalIndent(stats.Diet, "", "  ")
	fitness, _ := json.MarshalIndent(stats.Fitness, "", "  ")
	sleep, _ := json.MarshalIndent(stats.Sleep, "", "  ")
	mood, _ := json.MarshalIndent(stats.Mood, "", "  ")
	corr, _ := json.MarshalIndent(stats.Correlations, "", "  ")

	goal := user.Goal
	if goal == "" {
		goal = "general-health"
	}

	return fmt.Sprintf(`You are Dr. Wellness, a compassionate health coach with expertise in nutrition, fitness, sleep science, and mental wellbeing. Provide personalized, data-driven, encouraging guidance.

**USER PROFILE**
Name: %s
Age: %d
Weight: %.1f kg
Height: %.1f cm
Primary Goal: %s

**HEALTH DATA (last %d days, %d entries total)**

DIET:
%s

FITNESS:
%s

SLEEP:
%s

MOOD:
%s

CORRELATIONS:
%s

Statistics with "logged": false mean no data was recorded, not zero measurements. A trend with "hasTrendData": false is undefined, not flat.

**OUTPUT FORMAT (JSON, no markdown, no code blocks)**
{
  "personalGreeting": "warm opening addressing %s by name",
  "overview": {"headline": "...", "narrative": "2-3 paragraphs connecting the four pillars", "consistency": "excellent|good|moderate|needs-improvement", "keyWins": ["..."], "growthAreas": ["..."], "interestingPatterns": ["..."]},
  "diet": {"status": "thriving|strong|developing|needs-attention", "storyTitle": "...", "deepInsight": "...", "whatIsWorkingWell": ["..."], "opportunitiesForGrowth": ["..."], "didYouKnow": "..."},
  "fitness": {same shape as diet},
  "sleep": {same shape as diet},
  "mood": {same shape as diet},
  "theBigPicture": {"holisticSummary": "...", "keyCorrelations": ["..."], "momentumCheck": "..."},
  "yourActionPlan": [{"category": "Diet|Fitness|Sleep|Mental Wellbeing|Lifestyle", "priority": "high|medium", "title": "...", "why": "...", "what": "...", "how": "step-by-step", "expectedOutcome": "...", "difficulty": "easy|moderate|challenging", "timeCommitment": "..."}],
  "weeklyFocus": {"theme": "...", "dailyMicroHabit": "...", "weeklyChallenge": "...", "trackingTip": "..."},
  "motivationalClose": "...",
  "funFact": "..."
}

Use their actual numbers, be specific, frame everything around the %s goal, and limit the action plan to 4-6 items.`,
		user.Name, user.Age, user.Weight, user.Height, goal,
		insightWindowDays, stats.TotalLogs,
		diet, fitness, sleep, mood, corr,
		user.Name, goal)
}

// fallbackInsights fills the full response shape from the aggregated stats
// alone, so the endpoint stays useful when the upstream is down.
func fallbackInsights(user *models.User, stats *DetailedAnalytics) *Insights {
	name := user.Name
	if name == "" {
		name = "friend"
	}
	goal := user.Goal
	if goal == "" {
		goal = "general-health"
	}
	total := stats.TotalLogs

	consistency := "needs-improvement"
	switch {
	case total >= 60:
		consistency = "excellent"
	case total >= 30:
		consistency = "good"
	case total >= 15:
		consistency = "moderate"
	}

	status := func(logged bool) string {
		if logged {
			return "developing"
		}
		return "needs-attention"
	}

	dietInsight := fmt.Sprintf("Diet is one of the most powerful levers for your %s goal. Start tracking meals to discover your patterns.", goal)
	if stats.Diet.Logged {
		dietInsight = fmt.Sprintf("You're averaging %.0f calories daily across %d entries. Understanding your nutrition is foundational to your %s goal.", stats.Diet.AvgCalories, stats.Diet.TotalEntries, goal)
	}

	fitnessInsight := fmt.Sprintf("Physical activity is a game-changer for your %s goal. Even 10 minutes a day creates measurable benefits.", goal)
	if stats.Fitness.Logged {
		fitnessInsight = fmt.Sprintf("You're averaging %.0f steps daily with %d workouts logged. Movement is medicine for both body and mind.", stats.Fitness.AvgSteps, stats.Fitness.TotalWorkouts)
	}

	sleepInsight := fmt.Sprintf("Quality sleep is non-negotiable for your %s goal. It affects energy, mood, metabolism, and recovery.", goal)
	if stats.Sleep.Logged {
		sleepInsight = fmt.Sprintf("You're averaging %.1f hours per night with a %.1f/5 quality rating. Sleep is when your body repairs itself.", stats.Sleep.AvgHours, stats.Sleep.AvgQuality)
	}

	moodInsight := "Mental wellbeing is just as important as physical health. Tracking mood reveals what lifts you up."
	if stats.Mood.Logged {
		moodInsight = fmt.Sprintf("Your average mood rating is %.1f/5. Tracking your emotional state helps you identify triggers and patterns.", stats.Mood.AvgMood)
	}

	return &Insights{
		PersonalGreeting: fmt.Sprintf("Hey %s! I've been looking at your health journey over the last %d days.", name, insightWindowDays),
		Overview: Overview{
			Headline:    "Your health journey, summarized",
			Narrative:   fmt.Sprintf("Over the past month you've logged %d health entries. Every entry is a step toward better health awareness, and reviewing your insights shows you're committed to growth.", total),
			Consistency: consistency,
			KeyWins: []string{
				"You've taken the crucial first step: tracking your health data",
				fmt.Sprintf("You're %d entries closer to understanding your body's patterns", total),
			},
			GrowthAreas: []string{
				"More consistent tracking will reveal stronger patterns",
				"The more data you log, the better your insights become",
			},
			InterestingPatterns: []string{
				"Your tracking behavior itself is a form of self-care",
			},
		},
		Diet: CategoryInsight{
			Status:                 status(stats.Diet.Logged),
			StoryTitle:             "Building Nutritional Awareness",
			DeepInsight:            dietInsight,
			WhatIsWorkingWell:      []string{"You're building data to make informed decisions"},
			OpportunitiesForGrowth: []string{"Track every meal for 7 days to establish your baseline"},
			DidYouKnow:             "Your gut produces most of your body's serotonin, so food directly impacts your mood.",
		},
		Fitness: CategoryInsight{
			Status:                 status(stats.Fitness.Logged),
			StoryTitle:             "Movement Matters",
			DeepInsight:            fitnessInsight,
			WhatIsWorkingWell:      []string{"Each workout is an investment in your future self"},
			OpportunitiesForGrowth: []string{"Start with 10-minute daily movement sessions"},
			DidYouKnow:             "Just 20 minutes of cardio can boost your mood for up to 12 hours.",
		},
		Sleep: CategoryInsight{
			Status:                 status(stats.Sleep.Logged),
			StoryTitle:             "The Sleep Story",
			DeepInsight:            sleepInsight,
			WhatIsWorkingWell:      []string{"Tracking sleep helps you understand your recovery patterns"},
			OpportunitiesForGrowth: []string{"Aim for 7-9 hours nightly and track how you feel"},
			DidYouKnow:             "Your brain clears out toxins during deep sleep.",
		},
		Mood: CategoryInsight{
			Status:                 status(stats.Mood.Logged),
			StoryTitle:             "Emotional Intelligence Building",
			DeepInsight:            moodInsight,
			WhatIsWorkingWell:      []string{"Self-awareness is a skill you're actively developing"},
			OpportunitiesForGrowth: []string{"Journal briefly when logging mood to identify triggers"},
			DidYouKnow:             "Gratitude journaling for 2 weeks can lift happiness levels for months.",
		},
		TheBigPicture: BigPicture{
			HolisticSummary: fmt.Sprintf("%s, your health is an interconnected system: sleep affects food choices, exercise influences mood, and nutrition fuels workouts. The data you're collecting is a map to understanding yourself better.", name),
			KeyCorrelations: []string{
				"The more consistently you track, the clearer your patterns become",
			},
			MomentumCheck: "The key now is consistency over intensity. Small daily efforts beat sporadic perfection.",
		},
		YourActionPlan: []ActionItem{
			{
				Category:        "Lifestyle",
				Priority:        "high",
				Title:           "Build Your Tracking Habit",
				Why:             "Consistent data collection is the foundation of personalized insights.",
				What:            "Log at least one entry per day across all categories for the next 14 days.",
				How:             "Set a daily reminder, spend 5 minutes reviewing your day, log one entry per category.",
				ExpectedOutcome: "In 2 weeks you'll have 56+ data points revealing your unique patterns.",
				Difficulty:      "easy",
				TimeCommitment:  "5-10 minutes daily",
			},
			{
				Category:        "Mental Wellbeing",
				Priority:        "high",
				Title:           "Start Your Self-Discovery Journey",
				Why:             "Generic advice fails; personalized insight transforms.",
				What:            "Notice patterns: which meals give you energy, when you sleep best, what lifts your mood.",
				How:             "Keep a short note with each entry and review for patterns weekly.",
				ExpectedOutcome: "You'll make decisions based on data, not guesswork.",
				Difficulty:      "moderate",
				TimeCommitment:  "10 minutes weekly",
			},
		},
		WeeklyFocus: WeeklyFocus{
			Theme:           "Consistency Over Perfection",
			DailyMicroHabit: "Log one entry every day, no matter what",
			WeeklyChallenge: "Achieve 7 consecutive days of complete logging",
			TrackingTip:     "Set phone reminders and celebrate each completed day",
		},
		MotivationalClose: fmt.Sprintf("%s, every entry you log is a vote for the person you're becoming. Keep showing up.", name),
		FunFact:           "The average person makes 35,000 decisions per day. Tracking your health makes them more intentional.",
	}
}
