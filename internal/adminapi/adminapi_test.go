package adminapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/dacaug2504/rentit/config"
	"github.com/dacaug2504/rentit/internal/app"
	"github.com/dacaug2504/rentit/internal/auth"
	"github.com/dacaug2504/rentit/internal/domain"
	"github.com/dacaug2504/rentit/internal/webserver"
	"github.com/dacaug2504/rentit/pkg/common"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupServer(t *testing.T) (*gorm.DB, http.Handler) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	cfg := config.DefaultAppConfig
	appctx := app.InitTestApplication(cfg, db)
	webserver.Init(appctx)
	InitRouter()
	return db, webserver.TestHandler()
}

func seedRoles(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, r := range []domain.Role{
		{ID: app.RoleIdAdmin, Name: "ADMIN"},
		{ID: app.RoleIdOwner, Name: "OWNER"},
		{ID: app.RoleIdCustomer, Name: "CUSTOMER"},
	} {
		require.NoError(t, db.Create(&r).Error)
	}
}

func seedUser(t *testing.T, db *gorm.DB, id, roleID int64, email, password string, status int) {
	t.Helper()
	hashed, err := common.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, db.Create(&domain.User{
		ID: id, RoleID: roleID, FirstName: "Test", LastName: "User",
		Email: email, Password: hashed, Status: status,
	}).Error)
}

func tokenFor(t *testing.T, id int64, role auth.Role) string {
	t.Helper()
	token, err := auth.IssueToken([]byte(config.DefaultAppConfig.Jwt.Secret), id, role, time.Hour)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestLogin(t *testing.T) {
	db, h := setupServer(t)
	seedRoles(t, db)
	seedUser(t, db, 1, app.RoleIdAdmin, "admin@example.com", "secret123", domain.UserStatusActive)
	seedUser(t, db, 2, app.RoleIdCustomer, "frozen@example.com", "secret123", domain.UserStatusSuspended)

	rec, env := doJSON(t, h, http.MethodPost, "/api/admin/auth/login", "",
		map[string]string{"email": "admin@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var result struct {
		Token  string `json:"token"`
		UserID int64  `json:"user_id"`
		Role   string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, int64(1), result.UserID)
	assert.Equal(t, "ADMIN", result.Role)

	// wrong password
	rec, env = doJSON(t, h, http.MethodPost, "/api/admin/auth/login", "",
		map[string]string{"email": "admin@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)

	// suspended account
	rec, env = doJSON(t, h, http.MethodPost, "/api/admin/auth/login", "",
		map[string]string{"email": "frozen@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, env.Message, "SUSPENDED")
}

func TestUserRoutesRequireAdmin(t *testing.T) {
	db, h := setupServer(t)
	seedRoles(t, db)
	seedUser(t, db, 1, app.RoleIdAdmin, "admin@example.com", "secret123", domain.UserStatusActive)
	seedUser(t, db, 2, app.RoleIdCustomer, "cust@example.com", "secret123", domain.UserStatusActive)

	rec, _ := doJSON(t, h, http.MethodGet, "/api/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doJSON(t, h, http.MethodGet, "/api/admin/users", tokenFor(t, 2, auth.RoleCustomer), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := doJSON(t, h, http.MethodGet, "/api/admin/users", tokenFor(t, 1, auth.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestUpdateUserStatus(t *testing.T) {
	db, h := setupServer(t)
	seedRoles(t, db)
	seedUser(t, db, 1, app.RoleIdAdmin, "admin@example.com", "secret123", domain.UserStatusActive)
	seedUser(t, db, 5, app.RoleIdOwner, "owner@example.com", "secret123", domain.UserStatusActive)
	admin := tokenFor(t, 1, auth.RoleAdmin)

	rec, env := doJSON(t, h, http.MethodPatch, "/api/admin/users/5/status", admin,
		map[string]int{"status": domain.UserStatusSuspended})
	require.Equal(t, http.StatusOK, rec.Code)

	var detail struct {
		Status     int    `json:"status"`
		StatusName string `json:"status_name"`
		RoleName   string `json:"role_name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, domain.UserStatusSuspended, detail.Status)
	assert.Equal(t, "SUSPENDED", detail.StatusName)
	assert.Equal(t, "OWNER", detail.RoleName)

	// out of range status
	rec, _ = doJSON(t, h, http.MethodPatch, "/api/admin/users/5/status", admin,
		map[string]int{"status": 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// unknown user
	rec, _ = doJSON(t, h, http.MethodPatch, "/api/admin/users/999/status", admin,
		map[string]int{"status": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoryDuplicateConflict(t *testing.T) {
	db, h := setupServer(t)
	seedRoles(t, db)
	seedUser(t, db, 1, app.RoleIdAdmin, "admin@example.com", "secret123", domain.UserStatusActive)
	admin := tokenFor(t, 1, auth.RoleAdmin)

	rec, _ := doJSON(t, h, http.MethodPost, "/api/admin/categories", admin,
		map[string]string{"type": "Tools", "description": "Power tools"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// exact duplicate
	rec, env := doJSON(t, h, http.MethodPost, "/api/admin/categories", admin,
		map[string]string{"type": "Tools"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Success)

	// duplicate differing only in case
	rec, _ = doJSON(t, h, http.MethodPost, "/api/admin/categories", admin,
		map[string]string{"type": "tOOls"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	var count int64
	require.NoError(t, db.Model(&domain.Category{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCategoryDeleteBlockedByItems(t *testing.T) {
	db, h := setupServer(t)
	seedRoles(t, db)
	seedUser(t, db, 1, app.RoleIdAdmin, "admin@example.com", "secret123", domain.UserStatusActive)
	admin := tokenFor(t, 1, auth.RoleAdmin)

	require.NoError(t, db.Create(&domain.Category{ID: 7, Type: "Camping"}).Error)
	require.NoError(t, db.Create(&domain.Item{ID: 70, Name: "Tent", CategoryID: 7}).Error)

	rec, env := doJSON(t, h, http.MethodDelete, "/api/admin/categories/7", admin, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, env.Message, "cannot be deleted")

	// removing the item unblocks the delete
	rec, _ = doJSON(t, h, http.MethodDelete, "/api/admin/items/70", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, h, http.MethodDelete, "/api/admin/categories/7", admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, db.Model(&domain.Category{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestItemRequiresExistingCategory(t *testing.T) {
	db, h := setupServer(t)
	seedRoles(t, db)
	seedUser(t, db, 1, app.RoleIdAdmin, "admin@example.com", "secret123", domain.UserStatusActive)
	admin := tokenFor(t, 1, auth.RoleAdmin)

	rec, env := doJSON(t, h, http.MethodPost, "/api/admin/items", admin,
		map[string]interface{}{"item_name": "Tent", "category_id": 42})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Message, "Category with ID 42 not found")
}

func TestDashboardStats(t *testing.T) {
	db, h := setupServer(t)
	seedRoles(t, db)
	seedUser(t, db, 1, app.RoleIdAdmin, "admin@example.com", "secret123", domain.UserStatusActive)
	seedUser(t, db, 2, app.RoleIdCustomer, "cust@example.com", "secret123", domain.UserStatusActive)
	seedUser(t, db, 3, app.RoleIdOwner, "owner@example.com", "secret123", domain.UserStatusSuspended)
	require.NoError(t, db.Create(&domain.Category{ID: 1, Type: "Tools"}).Error)

	rec, env := doJSON(t, h, http.MethodGet, "/api/admin/dashboard-stats", tokenFor(t, 1, auth.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		TotalUsers      int64 `json:"total_users"`
		ActiveUsers     int64 `json:"active_users"`
		AdminUsers      int64 `json:"admin_users"`
		OwnerUsers      int64 `json:"owner_users"`
		CustomerUsers   int64 `json:"customer_users"`
		TotalCategories int64 `json:"total_categories"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.ActiveUsers)
	assert.Equal(t, int64(1), stats.AdminUsers)
	assert.Equal(t, int64(1), stats.OwnerUsers)
	assert.Equal(t, int64(1), stats.CustomerUsers)
	assert.Equal(t, int64(1), stats.TotalCategories)
}

func TestExportUsersCsv(t *testing.T) {
	db, h := setupServer(t)
	seedRoles(t, db)
	seedUser(t, db, 1, app.RoleIdAdmin, "admin@example.com", "secret123", domain.UserStatusActive)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users/export", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, 1, auth.RoleAdmin))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "admin@example.com")
	assert.Contains(t, rec.Body.String(), "ACTIVE")
}
