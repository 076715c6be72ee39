package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tobyshem/symtrack/internal/db"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "symtrack-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	handler := NewHandler(database, Config{
		SecretKey: "test-secret-key",
		Location:  time.UTC,
	})

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app
}

func jsonRequest(method string, target string, body string) *http.Request {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	return request
}

func responseCookieValue(cookies []*http.Cookie, name string) string {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

// registerTestUser creates an account through the public endpoint and returns
// the session cookie value for follow-up requests.
func registerTestUser(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	body := fmt.Sprintf(`{"email":%q,"password":"StrongPass1"}`, email)
	response, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/register", body), -1)
	if err != nil {
		t.Fatalf("register request failed: %v", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201 from register, got %d", response.StatusCode)
	}
	token := responseCookieValue(response.Cookies(), authCookieName)
	if token == "" {
		t.Fatal("expected auth cookie in register response")
	}
	return token
}

func authedJSONRequest(token string, method string, target string, body string) *http.Request {
	request := jsonRequest(method, target, body)
	request.Header.Set("Cookie", authCookieName+"="+token)
	return request
}

func decodeJSONBody(t *testing.T, response *http.Response, target any) {
	t.Helper()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		t.Fatalf("decode response body %q: %v", string(raw), err)
	}
}

// createTestField posts one field definition and returns its assigned id.
func createTestField(t *testing.T, app *fiber.App, token string, payload string) string {
	t.Helper()

	response, err := app.Test(authedJSONRequest(token, http.MethodPost, "/api/fields", payload), -1)
	if err != nil {
		t.Fatalf("create field request failed: %v", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status 201 from create field, got %d: %s", response.StatusCode, body)
	}

	created := struct {
		ID string `json:"id"`
	}{}
	decodeJSONBody(t, response, &created)
	if created.ID == "" {
		t.Fatal("expected the created field to carry an id")
	}
	return created.ID
}
