package services

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/mehrap673/WellBud/models"

	"gorm.io/gorm"
)

type AnalyticsService struct{ db *gorm.DB }

func NewAnalyticsService(db *gorm.DB) *AnalyticsService { return &AnalyticsService{db: db} }

// ---------- Analytics (per-category window) ----------

type CategoryAnalytics struct {
	Logs      []models.HealthLog `json:"logs"`
	Streak    int                `json:"streak"`
	TotalLogs int                `json:"totalLogs"`
}

// Analytics loads the trailing window for one (user, category) pair and
// computes the logging streak. The whole window fits in memory; volumes are
// a few hundred rows at most.
func (s *AnalyticsService) Analytics(ctx context.Context, userID uint, category string, days int) (*CategoryAnalytics, error) {
	logs, err := s.windowLogs(ctx, userID, category, days)
	if err != nil {
		return nil, err
	}

	out := &CategoryAnalytics{
		Logs:      logs,
		Streak:    ComputeStreak(logs, time.Now()),
		TotalLogs: len(logs),
	}
	if out.Logs == nil {
		out.Logs = []models.HealthLog{}
	}
	return out, nil
}

// windowLogs returns logs newest-first, restricted to occurred_at >= now-days.
func (s *AnalyticsService) windowLogs(ctx context.Context, userID uint, category string, days int) ([]models.HealthLog, error) {
	since := time.Now().AddDate(0, 0, -days)

	q := s.db.WithContext(ctx).
		Where("user_id = ? AND occurred_at >= ?", userID, since)
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var logs []models.HealthLog
	if err := q.Order("occurred_at DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// ---------- Pure aggregation core ----------

// NumField reads a numeric payload field, coercing missing or non-numeric
// values to 0. This silently skews averages for malformed payloads; the
// behavior is pinned by tests rather than fixed here.
func NumField(l models.HealthLog, field string) float64 {
	var m map[string]interface{}
	if err := json.Unmarshal(l.Payload, &m); err != nil {
		return 0
	}
	if v, ok := m[field].(float64); ok {
		return v
	}
	return 0
}

// StrField reads a string payload field, defaulting to "".
func StrField(l models.HealthLog, field string) string {
	var m map[string]interface{}
	if err := json.Unmarshal(l.Payload, &m); err != nil {
		return ""
	}
	if v, ok := m[field].(string); ok {
		return v
	}
	return ""
}

// ComputeStreak counts consecutive calendar days with at least one log,
// walking backward from today. If today has no log the walk starts at
// yesterday; if neither day has a log the streak is 0. Multiple logs on one
// day count once.
func ComputeStreak(logs []models.HealthLog, now time.Time) int {
	if len(logs) == 0 {
		return 0
	}

	days := make(map[string]bool, len(logs))
	for _, l := range logs {
		days[dayKey(l.OccurredAt)] = true
	}

	cur := dayStart(now)
	if !days[dayKey(cur)] {
		cur = cur.AddDate(0, 0, -1)
		if !days[dayKey(cur)] {
			return 0
		}
	}

	streak := 0
	for days[dayKey(cur)] {
		streak++
		cur = cur.AddDate(0, 0, -1)
	}
	return streak
}

// ComputeAverage returns the arithmetic mean of a payload field and a logged
// flag that is false iff the window is empty. Callers must treat a 0 average
// with logged=false as "no data", not a true zero.
func ComputeAverage(logs []models.HealthLog, field string) (float64, bool) {
	if len(logs) == 0 {
		return 0, false
	}
	var sum float64
	for _, l := range logs {
		sum += NumField(l, field)
	}
	return sum / float64(len(logs)), true
}

// ComputeTrend compares the mean of the 7 most recent entries against the 7
// preceding ones, by list position (logs must be newest-first). The percentage
// is rounded to one decimal. hasTrendData is false when the previous window is
// empty or averages to zero; a 0% trend with hasTrendData=false means
// "undefined", not "no change".
func ComputeTrend(logs []models.HealthLog, field string) (float64, bool) {
	recent := sliceWindow(logs, 0, 7)
	previous := sliceWindow(logs, 7, 14)

	if len(previous) == 0 {
		return 0, false
	}

	recentMean, _ := ComputeAverage(recent, field)
	prevMean, _ := ComputeAverage(previous, field)
	if prevMean == 0 {
		return 0, false
	}

	return round1((recentMean - prevMean) / prevMean * 100), true
}

// ComputeStdDev is the population standard deviation; empty input yields 0.
func ComputeStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

// DayOverlapCorrelation computes the percentage of calendar days satisfying
// predA that also satisfy predB. Returns nil when no day satisfies predA —
// insufficient data, which is distinct from a true 0% overlap.
func DayOverlapCorrelation(logsA, logsB []models.HealthLog, predA, predB func(models.HealthLog) bool) *int {
	daysA := make(map[string]bool)
	for _, l := range logsA {
		if predA(l) {
			daysA[dayKey(l.OccurredAt)] = true
		}
	}
	if len(daysA) == 0 {
		return nil
	}

	daysB := make(map[string]bool)
	for _, l := range logsB {
		if predB(l) {
			daysB[dayKey(l.OccurredAt)] = true
		}
	}

	overlap := 0
	for d := range daysA {
		if daysB[d] {
			overlap++
		}
	}

	pct := int(math.Round(float64(overlap) / float64(len(daysA)) * 100))
	return &pct
}

// ---------- Stability / consistency classification ----------

// Bucket thresholds are product constants, not derived quantities.
const (
	sleepConsistencyExcellentBelow = 2.0
	sleepConsistencyGoodBelow      = 4.0

	moodVeryStableBelow = 0.5
	moodStableBelow     = 1.0
	moodModerateBelow   = 1.5
)

func classifySleepConsistency(stddev float64) string {
	switch {
	case stddev < sleepConsistencyExcellentBelow:
		return "excellent"
	case stddev < sleepConsistencyGoodBelow:
		return "good"
	default:
		return "irregular"
	}
}

func classifyMoodStability(stddev float64) string {
	switch {
	case stddev < moodVeryStableBelow:
		return "very stable"
	case stddev < moodStableBelow:
		return "stable"
	case stddev < moodModerateBelow:
		return "moderate"
	default:
		return "volatile"
	}
}

// ---------- Detailed analytics (Insight Composer input) ----------

type DietSummary struct {
	Logged           bool    `json:"logged"`
	TotalEntries     int     `json:"totalEntries,omitempty"`
	LoggingDays      int     `json:"loggingDays,omitempty"`
	ConsistencyScore int     `json:"consistencyScore,omitempty"`
	AvgCalories      float64 `json:"avgCalories,omitempty"`
	AvgProtein       float64 `json:"avgProtein,omitempty"`
	AvgCarbs         float64 `json:"avgCarbs,omitempty"`
	AvgFats          float64 `json:"avgFats,omitempty"`
	CalorieTrend     float64 `json:"calorieTrend"`
	HasTrendData     bool    `json:"hasTrendData"`
}

type FitnessSummary struct {
	Logged            bool           `json:"logged"`
	TotalEntries      int            `json:"totalEntries,omitempty"`
	ActiveDays        int            `json:"activeDays,omitempty"`
	AvgSteps          float64        `json:"avgSteps,omitempty"`
	TotalWorkouts     int            `json:"totalWorkouts,omitempty"`
	WorkoutsPerWeek   float64        `json:"workoutsPerWeek,omitempty"`
	AvgDuration       float64        `json:"avgDuration,omitempty"`
	AvgCaloriesBurned float64        `json:"avgCaloriesBurned,omitempty"`
	StepsTrend        float64        `json:"stepsTrend"`
	HasTrendData      bool           `json:"hasTrendData"`
	WorkoutTypes      map[string]int `json:"workoutTypes,omitempty"`
}

type QualityDistribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Poor      int `json:"poor"`
}

type SleepSummary struct {
	Logged              bool                `json:"logged"`
	TotalEntries        int                 `json:"totalEntries,omitempty"`
	AvgHours            float64             `json:"avgHours,omitempty"`
	AvgQuality          float64             `json:"avgQuality,omitempty"`
	SleepConsistency    string              `json:"sleepConsistency,omitempty"`
	SleepTrend          float64             `json:"sleepTrend"`
	HasTrendData        bool                `json:"hasTrendData"`
	QualityDistribution QualityDistribution `json:"qualityDistribution"`
}

type MoodSummary struct {
	Logged           bool           `json:"logged"`
	TotalEntries     int            `json:"totalEntries,omitempty"`
	AvgMood          float64        `json:"avgMood,omitempty"`
	MoodTrend        float64        `json:"moodTrend"`
	HasTrendData     bool           `json:"hasTrendData"`
	MoodStability    string         `json:"moodStability,omitempty"`
	MoodDistribution map[string]int `json:"moodDistribution,omitempty"`
}

type Correlations struct {
	SleepMoodCorrelation   *int `json:"sleepMoodCorrelation"`
	FitnessMoodCorrelation *int `json:"fitnessMoodCorrelation"`
}

type DetailedAnalytics struct {
	TotalLogs    int            `json:"totalLogs"`
	Diet         DietSummary    `json:"diet"`
	Fitness      FitnessSummary `json:"fitness"`
	Sleep        SleepSummary   `json:"sleep"`
	Mood         MoodSummary    `json:"mood"`
	Correlations Correlations   `json:"correlations"`
}

// DetailedAnalytics aggregates the last windowDays of logs across every
// category into the flat statistics object the Insight Composer consumes.
func (s *AnalyticsService) DetailedAnalytics(ctx context.Context, userID uint, windowDays int) (*DetailedAnalytics, error) {
	all, err := s.windowLogs(ctx, userID, "", windowDays)
	if err != nil {
		return nil, err
	}

	byCat := map[string][]models.HealthLog{}
	for _, l := range all {
		byCat[l.Category] = append(byCat[l.Category], l)
	}

	return &DetailedAnalytics{
		TotalLogs:    len(all),
		Diet:         summarizeDiet(byCat[models.CategoryDiet], windowDays),
		Fitness:      summarizeFitness(byCat[models.CategoryFitness]),
		Sleep:        summarizeSleep(byCat[models.CategorySleep]),
		Mood:         summarizeMood(byCat[models.CategoryMood]),
		Correlations: summarizeCorrelations(byCat),
	}, nil
}

func summarizeDiet(logs []models.HealthLog, windowDays int) DietSummary {
	if len(logs) == 0 {
		return DietSummary{Logged: false}
	}

	avgCal, _ := ComputeAverage(logs, "calories")
	avgProt, _ := ComputeAverage(logs, "protein")
	avgCarbs, _ := ComputeAverage(logs, "carbs")
	avgFats, _ := ComputeAverage(logs, "fats")
	trend, hasTrend := ComputeTrend(logs, "calories")

	loggingDays := distinctDays(logs)
	consistency := int(math.Min(100, float64(loggingDays)/float64(windowDays)*100))

	return DietSummary{
		Logged:           true,
		TotalEntries:     len(logs),
		LoggingDays:      loggingDays,
		ConsistencyScore: consistency,
		AvgCalories:      math.Round(avgCal),
		AvgProtein:       math.Round(avgProt),
		AvgCarbs:         math.Round(avgCarbs),
		AvgFats:          math.Round(avgFats),
		CalorieTrend:     trend,
		HasTrendData:     hasTrend,
	}
}

func summarizeFitness(logs []models.HealthLog) FitnessSummary {
	if len(logs) == 0 {
		return FitnessSummary{Logged: false}
	}

	avgSteps, _ := ComputeAverage(logs, "steps")
	avgDuration, _ := ComputeAverage(logs, "duration")
	avgBurned, _ := ComputeAverage(logs, "caloriesBurned")
	trend, hasTrend := ComputeTrend(logs, "steps")

	workouts := 0
	types := map[string]int{}
	for _, l := range logs {
		if NumField(l, "duration") > 0 {
			workouts++
		}
		t := StrField(l, "type")
		if t == "" {
			t = "general"
		}
		types[t]++
	}

	weeks := math.Max(1, float64(len(logs))/7)

	return FitnessSummary{
		Logged:            true,
		TotalEntries:      len(logs),
		ActiveDays:        distinctDays(logs),
		AvgSteps:          math.Round(avgSteps),
		TotalWorkouts:     workouts,
		WorkoutsPerWeek:   round1(float64(workouts) / weeks),
		AvgDuration:       math.Round(avgDuration),
		AvgCaloriesBurned: math.Round(avgBurned),
		StepsTrend:        trend,
		HasTrendData:      hasTrend,
		WorkoutTypes:      types,
	}
}

func summarizeSleep(logs []models.HealthLog) SleepSummary {
	if len(logs) == 0 {
		return SleepSummary{Logged: false}
	}

	avgHours, _ := ComputeAverage(logs, "hours")
	avgQuality, _ := ComputeAverage(logs, "quality")
	trend, hasTrend := ComputeTrend(logs, "hours")

	// Bedtime regularity, using the hour each entry was logged for as a proxy.
	hours := make([]float64, 0, len(logs))
	var dist QualityDistribution
	for _, l := range logs {
		hours = append(hours, float64(l.OccurredAt.Hour()))
		switch q := NumField(l, "quality"); {
		case q >= 4:
			dist.Excellent++
		case q == 3:
			dist.Good++
		default:
			dist.Poor++
		}
	}

	return SleepSummary{
		Logged:              true,
		TotalEntries:        len(logs),
		AvgHours:            round1(avgHours),
		AvgQuality:          round1(avgQuality),
		SleepConsistency:    classifySleepConsistency(ComputeStdDev(hours)),
		SleepTrend:          trend,
		HasTrendData:        hasTrend,
		QualityDistribution: dist,
	}
}

func summarizeMood(logs []models.HealthLog) MoodSummary {
	if len(logs) == 0 {
		return MoodSummary{Logged: false}
	}

	avgMood, _ := ComputeAverage(logs, "rating")
	trend, hasTrend := ComputeTrend(logs, "rating")

	ratings := make([]float64, 0, len(logs))
	dist := map[string]int{}
	for _, l := range logs {
		ratings = append(ratings, NumField(l, "rating"))
		mood := StrField(l, "mood")
		if mood == "" {
			mood = "unknown"
		}
		dist[mood]++
	}

	return MoodSummary{
		Logged:           true,
		TotalEntries:     len(logs),
		AvgMood:          round1(avgMood),
		MoodTrend:        trend,
		HasTrendData:     hasTrend,
		MoodStability:    classifyMoodStability(ComputeStdDev(ratings)),
		MoodDistribution: dist,
	}
}

// Correlations need at least a week of data on both sides to mean anything.
const minCorrelationLogs = 7

func summarizeCorrelations(byCat map[string][]models.HealthLog) Correlations {
	out := Correlations{}

	sleep := byCat[models.CategorySleep]
	fitness := byCat[models.CategoryFitness]
	mood := byCat[models.CategoryMood]

	goodMood := func(l models.HealthLog) bool { return NumField(l, "rating") >= 4 }

	if len(sleep) >= minCorrelationLogs && len(mood) >= minCorrelationLogs {
		goodSleep := func(l models.HealthLog) bool {
			return NumField(l, "hours") >= 7 && NumField(l, "quality") >= 3
		}
		out.SleepMoodCorrelation = DayOverlapCorrelation(sleep, mood, goodSleep, goodMood)
	}

	if len(fitness) >= minCorrelationLogs && len(mood) >= minCorrelationLogs {
		workedOut := func(l models.HealthLog) bool { return NumField(l, "duration") > 0 }
		out.FitnessMoodCorrelation = DayOverlapCorrelation(fitness, mood, workedOut, goodMood)
	}

	return out
}

// ---------- internals ----------

func sliceWindow(logs []models.HealthLog, from, to int) []models.HealthLog {
	if from >= len(logs) {
		return nil
	}
	if to > len(logs) {
		to = len(logs)
	}
	return logs[from:to]
}

func distinctDays(logs []models.HealthLog) int {
	days := map[string]bool{}
	for _, l := range logs {
		days[dayKey(l.OccurredAt)] = true
	}
	return len(days)
}

func dayKey(t time.Time) string { return t.Local().Format("2006-01-02") }

func dayStart(t time.Time) time.Time {
	tt := t.Local()
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.Local)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
