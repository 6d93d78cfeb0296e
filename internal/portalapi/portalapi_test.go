package portalapi

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

func setupServer(t *testing.T) (*gorm.DB, http.Handler) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	appctx := app.InitTestApplication(config.DefaultAppConfig, db)
	webserver.Init(appctx)
	InitRouter()
	return db, webserver.TestHandler()
}

func postRegister(t *testing.T, h http.Handler, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, "/api/register", &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRegisterCustomer(t *testing.T) {
	db, h := setupServer(t)

	rec := postRegister(t, h, map[string]interface{}{
		"first_name": "Asha",
		"email":      "Asha@Example.com",
		"password":   "secret123",
		"role_id":    app.RoleIdCustomer,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var user domain.User
	require.NoError(t, db.First(&user, "email = ?", "asha@example.com").Error)
	assert.Equal(t, app.RoleIdCustomer, user.RoleID)
	assert.Equal(t, domain.UserStatusActive, user.Status)
	// stored hashed, verifiable with the original password
	assert.NotEqual(t, "secret123", user.Password)
	assert.True(t, common.CheckPassword(user.Password, "secret123"))
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	_, h := setupServer(t)

	rec := postRegister(t, h, map[string]interface{}{
		"first_name": "Mallory",
		"email":      "mallory@example.com",
		"password":   "secret123",
		"role_id":    app.RoleIdAdmin,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, h := setupServer(t)

	body := map[string]interface{}{
		"first_name": "Asha",
		"email":      "asha@example.com",
		"password":   "secret123",
		"role_id":    app.RoleIdOwner,
	}
	require.Equal(t, http.StatusCreated, postRegister(t, h, body).Code)

	// same email, different case
	body["email"] = "ASHA@example.com"
	assert.Equal(t, http.StatusConflict, postRegister(t, h, body).Code)
}

func TestLookups(t *testing.T) {
	db, h := setupServer(t)
	require.NoError(t, db.Create(&domain.State{ID: 1, Name: "Karnataka"}).Error)
	require.NoError(t, db.Create(&domain.City{ID: 1, StateID: 1, Name: "Bengaluru"}).Error)
	require.NoError(t, db.Create(&domain.City{ID: 2, StateID: 1, Name: "Mysuru"}).Error)
	require.NoError(t, db.Create(&domain.Role{ID: 1, Name: "ADMIN"}).Error)

	for path, wantLen := range map[string]int{
		"/api/lookup/states":          1,
		"/api/lookup/states/1/cities": 2,
		"/api/lookup/states/9/cities": 0,
		"/api/lookup/roles":           1,
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var env struct {
			Success bool              `json:"success"`
			Data    []json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), path)
		assert.Len(t, env.Data, wantLen, path)
	}
}

// while system.maintenance is enabled, writes from anyone but an admin
// get a 503 and reads stay open
func TestMaintenanceGate(t *testing.T) {
	db, h := setupServer(t)
	require.NoError(t, db.Create(&domain.State{ID: 1, Name: "Karnataka"}).Error)
	require.NoError(t, db.Create(&domain.SysConfig{ID: 9001, Type: "system", Name: "maintenance", Value: "true"}).Error)

	body := map[string]interface{}{
		"first_name": "Mia", "email": "mia@example.com",
		"password": "secret123", "role_id": app.RoleIdCustomer,
	}
	rec := postRegister(t, h, body)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// reads are unaffected
	readReq := httptest.NewRequest(http.MethodGet, "/api/lookup/states", nil)
	readRec := httptest.NewRecorder()
	h.ServeHTTP(readRec, readReq)
	assert.Equal(t, http.StatusOK, readRec.Code)

	// an admin token passes the gate
	token, err := auth.IssueToken([]byte(config.DefaultAppConfig.Jwt.Secret), 1, auth.RoleAdmin, time.Hour)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, "/api/register", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	adminRec := httptest.NewRecorder()
	h.ServeHTTP(adminRec, req)
	assert.Equal(t, http.StatusCreated, adminRec.Code)
}
