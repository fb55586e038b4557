package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"attendly/internal/app/server"
	"attendly/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newTestApp(t *testing.T) (*httptest.Server, config.Config) {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		DatabaseURL:         dbURL,
		JWTSecret:           "test-secret",
		TokenTTL:            time.Hour,
		FrontendDir:         "frontend/dist",
		Environment:         "test",
		Timezone:            "UTC",
		LateThreshold:       "09:15",
		HalfDayHours:        4,
		MigrationsDir:       "../../../../migrations",
		RunMigrations:       true,
		RunSeed:             true,
		SeedManagerName:     "Alice Manager",
		SeedManagerEmail:    "manager@test.local",
		SeedManagerPassword: "Manager123!",
		MaxBodyBytes:        1048576,
		RateLimitPerMinute:  1000,
		MaxPageSize:         200,
		MetricsEnabled:      true,
	}

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	t.Cleanup(app.Close)

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return ts, cfg
}

func TestEmployeeAttendanceJourney(t *testing.T) {
	ts, cfg := newTestApp(t)
	client := ts.Client()

	email := fmt.Sprintf("journey-%d@example.com", time.Now().UnixNano())
	var session struct {
		Token string `json:"token"`
		User  struct {
			ID         string `json:"id"`
			EmployeeID string `json:"employeeId"`
			Role       string `json:"role"`
		} `json:"user"`
	}
	resp := doJSON(t, client, http.MethodPost, ts.URL+"/api/auth/register", "", map[string]any{
		"name":       "Journey Tester",
		"email":      email,
		"password":   "password123",
		"department": "QA",
	}, http.StatusCreated)
	decode(t, resp.Data, &session)
	if session.User.Role != "employee" || !employeeIDPattern.MatchString(session.User.EmployeeID) {
		t.Fatalf("unexpected registration %+v", session.User)
	}

	var next struct {
		User struct {
			EmployeeID string `json:"employeeId"`
		} `json:"user"`
	}
	decode(t, doJSON(t, client, http.MethodPost, ts.URL+"/api/auth/register", "", map[string]any{
		"name":     "Journey Colleague",
		"email":    "colleague-" + email,
		"password": "password123",
	}, http.StatusCreated).Data, &next)
	if employeeNumber(t, next.User.EmployeeID) <= employeeNumber(t, session.User.EmployeeID) {
		t.Fatalf("expected increasing employee ids, got %s then %s", session.User.EmployeeID, next.User.EmployeeID)
	}

	token := login(t, client, ts.URL, email, "password123")

	doJSON(t, client, http.MethodPost, ts.URL+"/api/attendance/checkout", token, nil, http.StatusBadRequest)
	doJSON(t, client, http.MethodPost, ts.URL+"/api/attendance/checkin", token, nil, http.StatusOK)
	if resp := doJSON(t, client, http.MethodPost, ts.URL+"/api/attendance/checkin", token, nil, http.StatusConflict); resp.Error.Code != "already_checked_in" {
		t.Fatalf("unexpected conflict code %s", resp.Error.Code)
	}
	doJSON(t, client, http.MethodPost, ts.URL+"/api/attendance/checkout", token, nil, http.StatusOK)
	if resp := doJSON(t, client, http.MethodPost, ts.URL+"/api/attendance/checkout", token, nil, http.StatusConflict); resp.Error.Code != "already_checked_out" {
		t.Fatalf("unexpected conflict code %s", resp.Error.Code)
	}

	var today struct {
		Status     string `json:"status"`
		Attendance *struct {
			CheckOutTime *time.Time `json:"checkOutTime"`
		} `json:"attendance"`
	}
	decode(t, doJSON(t, client, http.MethodGet, ts.URL+"/api/attendance/today", token, nil, http.StatusOK).Data, &today)
	if today.Attendance == nil || today.Attendance.CheckOutTime == nil || today.Status != "half-day" {
		t.Fatalf("unexpected today status %+v", today)
	}

	var history []map[string]any
	decode(t, doJSON(t, client, http.MethodGet, ts.URL+"/api/attendance/my-history", token, nil, http.StatusOK).Data, &history)
	if len(history) != 1 {
		t.Fatalf("expected one record, got %d", len(history))
	}

	doJSON(t, client, http.MethodGet, ts.URL+"/api/attendance/my-summary", token, nil, http.StatusOK)
	doJSON(t, client, http.MethodGet, ts.URL+"/api/dashboard/employee", token, nil, http.StatusOK)
	doJSON(t, client, http.MethodGet, ts.URL+"/api/attendance/all", token, nil, http.StatusForbidden)

	managerToken := login(t, client, ts.URL, cfg.SeedManagerEmail, cfg.SeedManagerPassword)

	var list struct {
		Total int `json:"total"`
		Rows  []struct {
			User *struct {
				Email string `json:"email"`
			} `json:"user"`
		} `json:"rows"`
	}
	decode(t, doJSON(t, client, http.MethodGet, ts.URL+"/api/attendance/all?employeeId="+session.User.EmployeeID, managerToken, nil, http.StatusOK).Data, &list)
	if list.Total != 1 || len(list.Rows) != 1 || list.Rows[0].User == nil || list.Rows[0].User.Email != email {
		t.Fatalf("unexpected manager list %+v", list)
	}

	doJSON(t, client, http.MethodGet, ts.URL+"/api/attendance/employee/"+session.User.ID, managerToken, nil, http.StatusOK)
	doJSON(t, client, http.MethodGet, ts.URL+"/api/attendance/today-status", managerToken, nil, http.StatusOK)
	doJSON(t, client, http.MethodGet, ts.URL+"/api/attendance/team-calendar", managerToken, nil, http.StatusOK)
	doJSON(t, client, http.MethodGet, ts.URL+"/api/attendance/summary", managerToken, nil, http.StatusOK)
	doJSON(t, client, http.MethodGet, ts.URL+"/api/dashboard/manager", managerToken, nil, http.StatusOK)
	doJSON(t, client, http.MethodGet, ts.URL+"/api/metrics", managerToken, nil, http.StatusOK)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/attendance/export?employeeId="+session.User.EmployeeID, nil)
	req.Header.Set("Authorization", "Bearer "+managerToken)
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("export request failed: %v", err)
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusOK || res.Header.Get("Content-Type") != "text/csv" {
		t.Fatalf("export status %d type %q: %s", res.StatusCode, res.Header.Get("Content-Type"), body)
	}
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], email) {
		t.Fatalf("unexpected export %q", body)
	}
}

func TestUnknownEmployeeFilters(t *testing.T) {
	ts, cfg := newTestApp(t)
	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedManagerEmail, cfg.SeedManagerPassword)

	var list struct {
		Total int `json:"total"`
	}
	decode(t, doJSON(t, client, http.MethodGet, ts.URL+"/api/attendance/all?employeeId=EMP99999", token, nil, http.StatusOK).Data, &list)
	if list.Total != 0 {
		t.Fatalf("expected no rows, got %d", list.Total)
	}
	doJSON(t, client, http.MethodGet, ts.URL+"/api/attendance/export?employeeId=EMP99999", token, nil, http.StatusNotFound)
	doJSON(t, client, http.MethodGet, ts.URL+"/api/attendance/employee/not-a-uuid", token, nil, http.StatusNotFound)
	doJSON(t, client, http.MethodGet, ts.URL+"/api/attendance/employee/00000000-0000-0000-0000-000000000000", token, nil, http.StatusNotFound)
}

var employeeIDPattern = regexp.MustCompile(`^EMP\d{3,}$`)

func employeeNumber(t *testing.T, id string) int {
	t.Helper()
	if !employeeIDPattern.MatchString(id) {
		t.Fatalf("malformed employee id %q", id)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, "EMP"))
	if err != nil {
		t.Fatalf("parse employee id %q: %v", id, err)
	}
	return n
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	resp := doJSON(t, client, http.MethodPost, baseURL+"/api/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	}, http.StatusOK)
	var payload struct {
		Token string `json:"token"`
	}
	decode(t, resp.Data, &payload)
	if payload.Token == "" {
		t.Fatal("expected token")
	}
	return payload.Token
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any, expected int) envelope {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer res.Body.Close()
	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode != expected {
		t.Fatalf("%s %s: expected %d, got %d: %s", method, url, expected, res.StatusCode, raw)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	return env
}

func decode(t *testing.T, raw json.RawMessage, dst any) {
	t.Helper()
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
}
