package middlewares

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mehrap673/WellBud/config"
	"github.com/mehrap673/WellBud/models"
	"github.com/mehrap673/WellBud/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func protectedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	r := gin.New()
	r.GET("/whoami", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID": c.GetUint("userID"),
			"email":  c.GetString("email"),
		})
	})
	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := protectedRouter(t)

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	})

	t.Run("not a bearer token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(r, "Basic abc").Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer not.a.jwt").Code)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"userId": 1, "exp": time.Now().Add(time.Hour).Unix(),
		})
		signed, err := tok.SignedString([]byte("other-secret"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+signed).Code)
	})

	t.Run("expired token", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"userId": 1, "exp": time.Now().Add(-time.Hour).Unix(),
		})
		signed, err := tok.SignedString([]byte(os.Getenv("JWT_SECRET")))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+signed).Code)
	})

	t.Run("valid token resolves identity from the userId claim", func(t *testing.T) {
		signed, err := utils.GenerateJWT(42, "maya@example.com")
		require.NoError(t, err)

		w := get(r, "Bearer "+signed)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"userID":42`)
		assert.Contains(t, w.Body.String(), "maya@example.com")
	})

	t.Run("legacy token without userId falls back to email lookup", func(t *testing.T) {
		db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		require.NoError(t, err)
		require.NoError(t, config.Migrate(db))
		config.DB = db
		t.Cleanup(func() { config.DB = nil })

		u := models.User{Name: "Maya", Email: "maya@example.com", Password: "x"}
		require.NoError(t, db.Create(&u).Error)

		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"email": "maya@example.com", "exp": time.Now().Add(time.Hour).Unix(),
		})
		signed, err := tok.SignedString([]byte(os.Getenv("JWT_SECRET")))
		require.NoError(t, err)

		w := get(r, "Bearer "+signed)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "maya@example.com")
	})
}
