package controller_test

import (
	"io"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"collabhub/models"
	"collabhub/testutil"
)

func TestRegisterAndLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := testutil.NewTestApp(db)

	user, token := testutil.RegisterTestUser(t, app, "alice", "a@x.com", "pw123")
	if user.Username != "alice" || user.Email != "a@x.com" {
		t.Errorf("Unexpected user fields: %+v", user)
	}
	if token == "" {
		t.Fatal("Expected a token")
	}

	// Plaintext password must never be stored
	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if stored.PasswordHash == "pw123" {
		t.Error("Password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw123")); err != nil {
		t.Errorf("Stored hash does not verify the password: %v", err)
	}

	// Login with the same credentials
	resp := testutil.DoRequest(t, app, testutil.MakeRequest("POST", "/api/auth/login", fiber.Map{
		"email":    "a@x.com",
		"password": "pw123",
	}, ""))
	testutil.AssertStatus(t, resp, fiber.StatusOK)

	var body struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	testutil.DecodeJSON(t, resp, &body)
	if body.User.ID != user.ID {
		t.Errorf("Login returned user %d, expected %d", body.User.ID, user.ID)
	}
	if body.Token == "" {
		t.Error("Expected a token on login")
	}
}

func TestRegisterResponseOmitsPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := testutil.NewTestApp(db)

	resp := testutil.DoRequest(t, app, testutil.MakeRequest("POST", "/api/auth/register", fiber.Map{
		"username": "bob",
		"email":    "b@x.com",
		"password": "hunter2",
	}, ""))
	testutil.AssertStatus(t, resp, fiber.StatusCreated)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	body := string(raw)
	if strings.Contains(body, "hunter2") || strings.Contains(body, "password_hash") {
		t.Errorf("Response leaks password material: %s", body)
	}
}

func TestRegisterDuplicateCredentials(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := testutil.NewTestApp(db)

	testutil.RegisterTestUser(t, app, "alice", "a@x.com", "pw123")

	// Same email, different username
	resp := testutil.DoRequest(t, app, testutil.MakeRequest("POST", "/api/auth/register", fiber.Map{
		"username": "alice2",
		"email":    "a@x.com",
		"password": "pw123",
	}, ""))
	testutil.AssertStatus(t, resp, fiber.StatusBadRequest)

	// Same username, different email
	resp = testutil.DoRequest(t, app, testutil.MakeRequest("POST", "/api/auth/register", fiber.Map{
		"username": "alice",
		"email":    "a2@x.com",
		"password": "pw123",
	}, ""))
	testutil.AssertStatus(t, resp, fiber.StatusBadRequest)
}

func TestRegisterValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := testutil.NewTestApp(db)

	cases := []fiber.Map{
		{"email": "a@x.com", "password": "pw123"},           // missing username
		{"username": "alice", "password": "pw123"},          // missing email
		{"username": "alice", "email": "a@x.com"},           // missing password
		{"username": "alice", "email": "nope", "password": "pw123"}, // malformed email
	}
	for _, body := range cases {
		resp := testutil.DoRequest(t, app, testutil.MakeRequest("POST", "/api/auth/register", body, ""))
		testutil.AssertStatus(t, resp, fiber.StatusBadRequest)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := testutil.NewTestApp(db)

	testutil.RegisterTestUser(t, app, "alice", "a@x.com", "pw123")

	// Wrong password
	resp := testutil.DoRequest(t, app, testutil.MakeRequest("POST", "/api/auth/login", fiber.Map{
		"email":    "a@x.com",
		"password": "wrong",
	}, ""))
	testutil.AssertStatus(t, resp, fiber.StatusBadRequest)

	// Unknown email gets the same answer
	resp = testutil.DoRequest(t, app, testutil.MakeRequest("POST", "/api/auth/login", fiber.Map{
		"email":    "nobody@x.com",
		"password": "pw123",
	}, ""))
	testutil.AssertStatus(t, resp, fiber.StatusBadRequest)
}

func TestProfileRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := testutil.NewTestApp(db)

	user, token := testutil.RegisterTestUser(t, app, "alice", "a@x.com", "pw123")

	resp := testutil.DoRequest(t, app, testutil.MakeRequest("GET", "/api/profile", nil, token))
	testutil.AssertStatus(t, resp, fiber.StatusOK)

	var got models.User
	testutil.DecodeJSON(t, resp, &got)
	if got.ID != user.ID {
		t.Errorf("Profile returned user %d, expected %d", got.ID, user.ID)
	}

	// Update skills only; interests keep their value
	resp = testutil.DoRequest(t, app, testutil.MakeRequest("PUT", "/api/profile", fiber.Map{
		"skills": []string{"go", "sql"},
	}, token))
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	testutil.DecodeJSON(t, resp, &got)
	if len(got.Skills) != 2 || got.Skills[0] != "go" {
		t.Errorf("Expected updated skills, got %v", got.Skills)
	}
	if len(got.Interests) != 0 {
		t.Errorf("Interests changed unexpectedly: %v", got.Interests)
	}
}

func TestProtectedRoutesRejectBadTokens(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := testutil.NewTestApp(db)

	user, token := testutil.RegisterTestUser(t, app, "alice", "a@x.com", "pw123")

	// Missing token
	resp := testutil.DoRequest(t, app, testutil.MakeRequest("GET", "/api/profile", nil, ""))
	testutil.AssertStatus(t, resp, fiber.StatusUnauthorized)

	// Garbage token
	resp = testutil.DoRequest(t, app, testutil.MakeRequest("GET", "/api/profile", nil, "not.a.token"))
	testutil.AssertStatus(t, resp, fiber.StatusUnauthorized)

	// Valid token whose user no longer exists
	if err := db.Delete(&models.User{}, user.ID).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}
	resp = testutil.DoRequest(t, app, testutil.MakeRequest("GET", "/api/profile", nil, token))
	testutil.AssertStatus(t, resp, fiber.StatusUnauthorized)
}
