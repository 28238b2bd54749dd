package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"collabhub/config"
	"collabhub/models"
	"collabhub/routes"
)

// SetupTestDB opens a fresh in-memory SQLite database named after the test
// and migrates the full schema. A single connection keeps the shared-cache
// database alive and serializes writes.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	config.AppConfig.JWTSecret = "test-signing-secret"
	config.AppConfig.JWTExpiryHours = 24

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get DB instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := config.MigrateDB(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// NewTestApp builds a Fiber app with the full route table against db.
func NewTestApp(db *gorm.DB) *fiber.App {
	app := fiber.New()
	routes.SetupRoutes(app, db)
	return app
}

// Envelope is the standard success/error response body.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// MakeRequest creates an HTTP test request with an optional JSON body and
// bearer token.
func MakeRequest(method, path string, body interface{}, token string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// DoRequest runs req through the app and returns the response.
func DoRequest(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return resp
}

// AssertStatus checks that the response has the expected status code.
func AssertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status %d, got %d. Body: %s", expected, resp.StatusCode, body)
	}
}

// DecodeJSON decodes the response body into v.
func DecodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// DecodeData unwraps the success envelope into v.
func DecodeData(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	var env Envelope
	DecodeJSON(t, resp, &env)
	if !env.Success {
		t.Fatalf("Expected success envelope, got error: %s", env.Error)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("Failed to decode envelope data: %v", err)
	}
}

// RegisterTestUser registers a user over HTTP and returns the created user
// with their bearer token.
func RegisterTestUser(t *testing.T, app *fiber.App, username, email, password string) (models.User, string) {
	t.Helper()

	req := MakeRequest("POST", "/api/auth/register", fiber.Map{
		"username": username,
		"email":    email,
		"password": password,
	}, "")
	resp := DoRequest(t, app, req)
	AssertStatus(t, resp, fiber.StatusCreated)

	var body struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	DecodeJSON(t, resp, &body)
	if body.Token == "" {
		t.Fatalf("Expected a token for registered user %s", username)
	}
	return body.User, body.Token
}

// CreateTestGroup creates a group over HTTP and returns it.
func CreateTestGroup(t *testing.T, app *fiber.App, token, name string) models.Group {
	t.Helper()

	req := MakeRequest("POST", "/api/groups", fiber.Map{"name": name}, token)
	resp := DoRequest(t, app, req)
	AssertStatus(t, resp, fiber.StatusCreated)

	var group models.Group
	DecodeData(t, resp, &group)
	return group
}
