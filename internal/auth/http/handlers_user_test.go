package http

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/promptpix/go-promptpix-backend/internal/auth/repository"
	"github.com/promptpix/go-promptpix-backend/internal/auth/service"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	authService := service.NewAuthService(repository.NewUserRepository(db), "test-secret", 0)

	r := gin.New()
	NewHandler(authService).RegisterRoutes(r.Group("/api/auth"))
	return r, mock
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("creates account", func(t *testing.T) {
		r, mock := setupAuthRouter(t)

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(sqlmock.AnyArg(), "fox@example.com", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

		w := postJSON(r, "/api/auth/register", `{"email":"fox@example.com","password":"hunter2hunter2"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"token"`)
		assert.Contains(t, w.Body.String(), `"userId"`)
	})

	t.Run("duplicate email", func(t *testing.T) {
		r, mock := setupAuthRouter(t)

		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pq.Error{Code: "23505"})

		w := postJSON(r, "/api/auth/register", `{"email":"fox@example.com","password":"hunter2hunter2"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("blank credentials", func(t *testing.T) {
		r, _ := setupAuthRouter(t)

		w := postJSON(r, "/api/auth/register", `{"email":"","password":""}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		r, _ := setupAuthRouter(t)

		w := postJSON(r, "/api/auth/register", `{`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	hashFor := func(t *testing.T, password string) string {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		return string(hash)
	}

	t.Run("valid credentials", func(t *testing.T) {
		r, mock := setupAuthRouter(t)

		rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow("u1", "fox@example.com", hashFor(t, "hunter2hunter2"), time.Now())
		mock.ExpectQuery(`SELECT id, email, password_hash, created_at FROM users`).
			WithArgs("fox@example.com").
			WillReturnRows(rows)

		w := postJSON(r, "/api/auth/login", `{"email":"fox@example.com","password":"hunter2hunter2"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"token"`)
	})

	t.Run("wrong password", func(t *testing.T) {
		r, mock := setupAuthRouter(t)

		rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow("u1", "fox@example.com", hashFor(t, "hunter2hunter2"), time.Now())
		mock.ExpectQuery(`SELECT id, email, password_hash, created_at FROM users`).
			WithArgs("fox@example.com").
			WillReturnRows(rows)

		w := postJSON(r, "/api/auth/login", `{"email":"fox@example.com","password":"wrong"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		r, mock := setupAuthRouter(t)

		mock.ExpectQuery(`SELECT id, email, password_hash, created_at FROM users`).
			WithArgs("ghost@example.com").
			WillReturnError(sql.ErrNoRows)

		w := postJSON(r, "/api/auth/login", `{"email":"ghost@example.com","password":"whatever"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
