package services

import (
	"testing"
	"time"

	"github.com/mehrap673/WellBud/config"
	"github.com/mehrap673/WellBud/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func useTestDB(t *testing.T) {
	t.Helper()
	config.DB = newTestDB(t)
	InitAlertDeps(config.DB, nil)
	t.Cleanup(func() {
		config.DB = nil
		InitAlertDeps(nil, nil)
	})
}

func TestCreateHealthLog(t *testing.T) {
	useTestDB(t)
	u := seedUser(t, config.DB, "Maya", "maya@example.com")

	t.Run("defaults occurredAt to now", func(t *testing.T) {
		log, err := CreateHealthLog(u.ID, models.CategoryDiet, datatypes.JSON(`{"calories":600}`), nil)
		require.NoError(t, err)
		assert.NotZero(t, log.ID)
		assert.WithinDuration(t, time.Now(), log.OccurredAt, 5*time.Second)
	})

	t.Run("respects an explicit occurredAt", func(t *testing.T) {
		when := time.Now().AddDate(0, 0, -3)
		log, err := CreateHealthLog(u.ID, models.CategorySleep, datatypes.JSON(`{"hours":8}`), &when)
		require.NoError(t, err)
		assert.WithinDuration(t, when, log.OccurredAt, time.Second)
	})
}

func TestListHealthLogs(t *testing.T) {
	useTestDB(t)
	u := seedUser(t, config.DB, "Maya", "maya@example.com")
	other := seedUser(t, config.DB, "Noor", "noor@example.com")

	seedLog(t, config.DB, u.ID, models.CategoryDiet, time.Now().AddDate(0, 0, -1), `{"calories":500}`)
	seedLog(t, config.DB, u.ID, models.CategorySleep, time.Now(), `{"hours":7}`)
	seedLog(t, config.DB, u.ID, models.CategorySleep, time.Now().AddDate(0, 0, -10), `{"hours":6}`)
	seedLog(t, config.DB, other.ID, models.CategorySleep, time.Now(), `{"hours":9}`)

	t.Run("newest first, owner only", func(t *testing.T) {
		logs, err := ListHealthLogs(u.ID, "", nil, nil)
		require.NoError(t, err)
		require.Len(t, logs, 3)
		assert.Equal(t, models.CategorySleep, logs[0].Category)
		for _, l := range logs {
			assert.Equal(t, u.ID, l.UserID)
		}
	})

	t.Run("category filter", func(t *testing.T) {
		logs, err := ListHealthLogs(u.ID, models.CategorySleep, nil, nil)
		require.NoError(t, err)
		assert.Len(t, logs, 2)
	})

	t.Run("date range filter", func(t *testing.T) {
		from := time.Now().AddDate(0, 0, -2)
		logs, err := ListHealthLogs(u.ID, "", &from, nil)
		require.NoError(t, err)
		assert.Len(t, logs, 2)
	})

	t.Run("empty result is a slice, not nil", func(t *testing.T) {
		empty := seedUser(t, config.DB, "Zed", "zed@example.com")
		logs, err := ListHealthLogs(empty.ID, "", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, []models.HealthLog{}, logs)
	})
}

func TestUpdateHealthLog(t *testing.T) {
	useTestDB(t)
	u := seedUser(t, config.DB, "Maya", "maya@example.com")
	other := seedUser(t, config.DB, "Noor", "noor@example.com")
	log := seedLog(t, config.DB, u.ID, models.CategoryMood, time.Now(), `{"rating":3}`)

	t.Run("owner can change payload", func(t *testing.T) {
		got, err := UpdateHealthLog(u.ID, log.ID, datatypes.JSON(`{"rating":5}`), nil)
		require.NoError(t, err)
		assert.Equal(t, 5.0, NumField(*got, "rating"))
		assert.Equal(t, models.CategoryMood, got.Category) // category is immutable
	})

	t.Run("someone else's row reads as not found", func(t *testing.T) {
		_, err := UpdateHealthLog(other.ID, log.ID, datatypes.JSON(`{"rating":1}`), nil)
		assert.ErrorIs(t, err, ErrLogNotFound)
	})
}

func TestDeleteHealthLog(t *testing.T) {
	useTestDB(t)
	u := seedUser(t, config.DB, "Maya", "maya@example.com")
	other := seedUser(t, config.DB, "Noor", "noor@example.com")
	log := seedLog(t, config.DB, u.ID, models.CategoryDiet, time.Now(), `{"calories":400}`)

	t.Run("cross-tenant delete is not found and leaves the row", func(t *testing.T) {
		assert.ErrorIs(t, DeleteHealthLog(other.ID, log.ID), ErrLogNotFound)

		logs, err := ListHealthLogs(u.ID, "", nil, nil)
		require.NoError(t, err)
		assert.Len(t, logs, 1)
	})

	t.Run("owner delete succeeds once", func(t *testing.T) {
		require.NoError(t, DeleteHealthLog(u.ID, log.ID))
		assert.ErrorIs(t, DeleteHealthLog(u.ID, log.ID), ErrLogNotFound)
	})
}

func TestStreakMilestoneAlert(t *testing.T) {
	useTestDB(t)
	u := seedUser(t, config.DB, "Maya", "maya@example.com")

	// Six prior days logged; today's entry completes a 7-day streak.
	for i := 1; i <= 6; i++ {
		seedLog(t, config.DB, u.ID, models.CategorySleep, time.Now().AddDate(0, 0, -i), `{"hours":8}`)
	}
	_, err := CreateHealthLog(u.ID, models.CategorySleep, datatypes.JSON(`{"hours":7}`), nil)
	require.NoError(t, err)

	alerts, err := ListAlerts(u.ID, 0)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "streak.milestone", alerts[0].Type)
	assert.Equal(t, models.CategorySleep, alerts[0].Category)
	assert.Contains(t, alerts[0].Message, "7-day")

	// Backfilling an eighth day moves the streak off the milestone cadence.
	when := time.Now().AddDate(0, 0, -7)
	_, err = CreateHealthLog(u.ID, models.CategorySleep, datatypes.JSON(`{"hours":7}`), &when)
	require.NoError(t, err)
	alerts, err = ListAlerts(u.ID, 0)
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
}
