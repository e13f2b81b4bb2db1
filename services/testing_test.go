package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/mehrap673/WellBud/config"
	"github.com/mehrap673/WellBud/models"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: email, Password: "x", Theme: "light"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func mklog(category string, when time.Time, payload string) models.HealthLog {
	return models.HealthLog{Category: category, OccurredAt: when, Payload: datatypes.JSON(payload)}
}

func seedLog(t *testing.T, db *gorm.DB, userID uint, category string, when time.Time, payload string) *models.HealthLog {
	t.Helper()
	l := mklog(category, when, payload)
	l.UserID = userID
	if err := db.Create(&l).Error; err != nil {
		t.Fatalf("seed log: %v", err)
	}
	return &l
}

// fakeGemini points a client at a stub server. A 200 status wraps text in the
// standard candidates envelope; anything else replays a quota-style API error.
func fakeGemini(t *testing.T, status int, text string) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusOK {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"candidates": []any{
					map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
				},
			})
			return
		}
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
	}))
	t.Cleanup(srv.Close)
	return NewGeminiClientWithBase(srv.URL, "test-key")
}

// offlineGemini has no API key, so Available() is false.
func offlineGemini() *GeminiClient {
	return NewGeminiClientWithBase("http://127.0.0.1:1", "")
}
