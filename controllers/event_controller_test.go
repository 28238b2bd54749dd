package controller_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"collabhub/models"
	"collabhub/testutil"
)

func eventBody(title string, start, end time.Time, extra fiber.Map) fiber.Map {
	body := fiber.Map{
		"title": title,
		"start": start.Format(time.RFC3339),
		"end":   end.Format(time.RFC3339),
	}
	for k, v := range extra {
		body[k] = v
	}
	return body
}

func TestCreateEventRejectsStartAfterEnd(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := testutil.NewTestApp(db)

	_, token := testutil.RegisterTestUser(t, app, "alice", "a@x.com", "pw123")

	now := time.Now()
	resp := testutil.DoRequest(t, app, testutil.MakeRequest("POST", "/api/calendar",
		eventBody("Backwards", now.Add(2*time.Hour), now.Add(time.Hour), nil), token))
	testutil.AssertStatus(t, resp, fiber.StatusBadRequest)

	// Equal start and end is allowed
	resp = testutil.DoRequest(t, app, testutil.MakeRequest("POST", "/api/calendar",
		eventBody("Instant", now, now, nil), token))
	testutil.AssertStatus(t, resp, fiber.StatusCreated)
}

func TestCreateEventRequiresFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := testutil.NewTestApp(db)

	_, token := testutil.RegisterTestUser(t, app, "alice", "a@x.com", "pw123")

	resp := testutil.DoRequest(t, app, testutil.MakeRequest("POST", "/api/calendar", fiber.Map{
		"title": "No dates",
	}, token))
	testutil.AssertStatus(t, resp, fiber.StatusBadRequest)
}

func TestListEventsUnionPredicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := testutil.NewTestApp(db)

	_, aliceToken := testutil.RegisterTestUser(t, app, "alice", "a@x.com", "pw123")
	bob, bobToken := testutil.RegisterTestUser(t, app, "bob", "b@x.com", "pw456")
	_, caraToken := testutil.RegisterTestUser(t, app, "cara", "c@x.com", "pw789")

	group := testutil.CreateTestGroup(t, app, bobToken, "Planning")

	now := time.Now()

	// Created by alice, bob participates
	resp := testutil.DoRequest(t, app, testutil.MakeRequest("POST", "/api/calendar",
		eventBody("Kickoff", now, now.Add(time.Hour), fiber.Map{
			"participants": []uint{bob.ID},
		}), aliceToken))
	testutil.AssertStatus(t, resp, fiber.StatusCreated)

	// Scoped to bob's group, created by alice who is not a member
	resp = testutil.DoRequest(t, app, testutil.MakeRequest("POST", "/api/calendar",
		eventBody("Group sync", now, now.Add(time.Hour), fiber.Map{
			"group_id": group.ID,
		}), aliceToken))
	testutil.AssertStatus(t, resp, fiber.StatusCreated)

	cases := []struct {
		name  string
		token string
		want  int
	}{
		{"creator sees both", aliceToken, 2},
		{"participant and group member sees both", bobToken, 2},
		{"outsider sees none", caraToken, 0},
	}
	for _, tc := range cases {
		resp := testutil.DoRequest(t, app, testutil.MakeRequest("GET", "/api/calendar", nil, tc.token))
		testutil.AssertStatus(t, resp, fiber.StatusOK)
		var events []models.CalendarEvent
		testutil.DecodeData(t, resp, &events)
		if len(events) != tc.want {
			t.Errorf("%s: expected %d events, got %d", tc.name, tc.want, len(events))
		}
	}
}

func TestUpdateAndDeleteEventCreatorOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := testutil.NewTestApp(db)

	_, aliceToken := testutil.RegisterTestUser(t, app, "alice", "a@x.com", "pw123")
	_, bobToken := testutil.RegisterTestUser(t, app, "bob", "b@x.com", "pw456")

	now := time.Now()
	resp := testutil.DoRequest(t, app, testutil.MakeRequest("POST", "/api/calendar",
		eventBody("Review", now, now.Add(time.Hour), nil), aliceToken))
	testutil.AssertStatus(t, resp, fiber.StatusCreated)
	var event models.CalendarEvent
	testutil.DecodeData(t, resp, &event)

	path := fmt.Sprintf("/api/calendar/%d", event.ID)

	// Non-creator cannot tell the event exists
	resp = testutil.DoRequest(t, app, testutil.MakeRequest("PUT", path, fiber.Map{"title": "Hijacked"}, bobToken))
	testutil.AssertStatus(t, resp, fiber.StatusNotFound)
	resp = testutil.DoRequest(t, app, testutil.MakeRequest("DELETE", path, nil, bobToken))
	testutil.AssertStatus(t, resp, fiber.StatusNotFound)

	// Creator updates
	resp = testutil.DoRequest(t, app, testutil.MakeRequest("PUT", path, fiber.Map{"title": "Final review"}, aliceToken))
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	testutil.DecodeData(t, resp, &event)
	if event.Title != "Final review" {
		t.Errorf("Expected updated title, got %q", event.Title)
	}

	// Update cannot break the start/end ordering
	resp = testutil.DoRequest(t, app, testutil.MakeRequest("PUT", path, fiber.Map{
		"end": now.Add(-time.Hour).Format(time.RFC3339),
	}, aliceToken))
	testutil.AssertStatus(t, resp, fiber.StatusBadRequest)

	// Creator deletes
	resp = testutil.DoRequest(t, app, testutil.MakeRequest("DELETE", path, nil, aliceToken))
	testutil.AssertStatus(t, resp, fiber.StatusOK)

	resp = testutil.DoRequest(t, app, testutil.MakeRequest("DELETE", path, nil, aliceToken))
	testutil.AssertStatus(t, resp, fiber.StatusNotFound)
}
