//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

type userPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Email string `json:"email"`
}

type authResponse struct {
	User        userPayload `json:"user"`
	AccessToken string      `json:"accessToken"`
	ExpiresIn   string      `json:"expires_in"`
}

type taskPayload struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	IsCompleted bool   `json:"isCompleted"`
	Owner       string `json:"user"`
}

type taskListResponse struct {
	Count int           `json:"count"`
	Tasks []taskPayload `json:"tasks"`
}

func TestE2EAccountAndTaskFlow(t *testing.T) {
	baseURL := envOrDefault("TASKDECK_BASE_URL", "http://localhost:8080")

	email := fmt.Sprintf("e2e-%d@example.com", time.Now().UnixNano())
	const password = "correct-horse"

	// Signup returns a token that works immediately.
	var signup authResponse
	status := doJSON(t, http.MethodPost, baseURL+"/users", "", map[string]any{
		"name":     "e2e user",
		"age":      30,
		"email":    email,
		"password": password,
	}, &signup)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from signup, got %d", status)
	}
	if signup.User.ID == "" || signup.AccessToken == "" {
		t.Fatalf("signup response missing fields: %+v", signup)
	}
	signupToken := bearerValue(t, signup.AccessToken)

	// Disallowed fields are rejected before anything persists.
	status = doJSON(t, http.MethodPost, baseURL+"/users", "", map[string]any{
		"name":     "smuggler",
		"age":      30,
		"email":    fmt.Sprintf("smuggle-%d@example.com", time.Now().UnixNano()),
		"password": password,
		"admin":    true,
	}, nil)
	if status != http.StatusNotAcceptable {
		t.Fatalf("expected 406 for disallowed signup field, got %d", status)
	}

	// A second login issues an independent token.
	var login authResponse
	status = doJSON(t, http.MethodPost, baseURL+"/users/login", "", map[string]any{
		"email":    email,
		"password": password,
	}, &login)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from login, got %d", status)
	}
	loginToken := bearerValue(t, login.AccessToken)
	if loginToken == signupToken {
		t.Fatalf("login should issue a fresh token")
	}

	// Wrong password is a generic 401.
	status = doJSON(t, http.MethodPost, baseURL+"/users/login", "", map[string]any{
		"email":    email,
		"password": "wrong-password",
	}, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad credentials, got %d", status)
	}

	// Task CRUD under the login token.
	var created taskPayload
	status = doJSON(t, http.MethodPost, baseURL+"/tasks", loginToken, map[string]any{
		"description": "write e2e coverage",
	}, &created)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from task create, got %d", status)
	}
	if created.ID == "" || created.Owner != signup.User.ID {
		t.Fatalf("task create response wrong: %+v", created)
	}
	if created.IsCompleted {
		t.Fatalf("new task should start incomplete")
	}

	var second taskPayload
	status = doJSON(t, http.MethodPost, baseURL+"/tasks", loginToken, map[string]any{
		"description": "review e2e coverage",
		"isCompleted": true,
	}, &second)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from second task create, got %d", status)
	}

	// List: count ignores the completed filter.
	var page taskListResponse
	status = doJSON(t, http.MethodGet, baseURL+"/tasks?completed=true", loginToken, nil, &page)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from task list, got %d", status)
	}
	if page.Count != 2 {
		t.Fatalf("count = %d, want 2 (filter-independent)", page.Count)
	}
	if len(page.Tasks) != 1 || page.Tasks[0].ID != second.ID {
		t.Fatalf("completed filter returned wrong page: %+v", page.Tasks)
	}

	// Update through the whitelist; owner field is rejected.
	var updated taskPayload
	status = doJSON(t, http.MethodPut, baseURL+"/tasks/"+created.ID, loginToken, map[string]any{
		"isCompleted": true,
	}, &updated)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from task update, got %d", status)
	}
	if !updated.IsCompleted {
		t.Fatalf("task update did not apply")
	}

	status = doJSON(t, http.MethodPut, baseURL+"/tasks/"+created.ID, loginToken, map[string]any{
		"user": "someone-else",
	}, nil)
	if status != http.StatusNotAcceptable {
		t.Fatalf("expected 406 for disallowed task field, got %d", status)
	}

	// On create, a client-supplied owner is ignored, not rejected; the
	// task lands on the requester.
	var smuggled taskPayload
	status = doJSON(t, http.MethodPost, baseURL+"/tasks", loginToken, map[string]any{
		"description": "owner comes from the token",
		"user":        "ffffffffffffffffffffffff",
	}, &smuggled)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from create with owner field, got %d", status)
	}
	if smuggled.Owner != signup.User.ID {
		t.Fatalf("owner = %q, want requester %q", smuggled.Owner, signup.User.ID)
	}

	// Public profile is readable without credentials.
	var profile struct {
		User userPayload `json:"user"`
	}
	status = doJSON(t, http.MethodGet, baseURL+"/users/"+signup.User.ID, "", nil, &profile)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from public profile fetch, got %d", status)
	}
	if profile.User.Name != "e2e user" {
		t.Fatalf("profile name = %q, want %q", profile.User.Name, "e2e user")
	}

	// Ids that are not 24 hex characters are rejected before any lookup.
	status = doJSON(t, http.MethodGet, baseURL+"/users/short", "", nil, nil)
	if status != http.StatusNotAcceptable {
		t.Fatalf("expected 406 for malformed profile id, got %d", status)
	}

	// Renaming shows up on the public profile right away: the cached
	// entry primed by the fetch above is invalidated by the update.
	status = doJSON(t, http.MethodPut, baseURL+"/user", loginToken, map[string]any{
		"name": "renamed user",
	}, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from rename, got %d", status)
	}
	status = doJSON(t, http.MethodGet, baseURL+"/users/"+signup.User.ID, "", nil, &profile)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from profile refetch, got %d", status)
	}
	if profile.User.Name != "renamed user" {
		t.Fatalf("profile name after rename = %q, want %q", profile.User.Name, "renamed user")
	}

	// Another account cannot see or delete the task; it reads as absent.
	var intruder authResponse
	status = doJSON(t, http.MethodPost, baseURL+"/users", "", map[string]any{
		"name":     "intruder",
		"age":      25,
		"email":    fmt.Sprintf("intruder-%d@example.com", time.Now().UnixNano()),
		"password": password,
	}, &intruder)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from intruder signup, got %d", status)
	}
	intruderToken := bearerValue(t, intruder.AccessToken)

	status = doJSON(t, http.MethodGet, baseURL+"/tasks/"+created.ID, intruderToken, nil, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign task read, got %d", status)
	}
	status = doJSON(t, http.MethodDelete, baseURL+"/tasks/"+created.ID, intruderToken, nil, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign task delete, got %d", status)
	}

	// Logout revokes only the token used; the signup token stays live.
	status = doJSON(t, http.MethodPost, baseURL+"/users/logout", loginToken, nil, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from logout, got %d", status)
	}
	status = doJSON(t, http.MethodGet, baseURL+"/user", loginToken, nil, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", status)
	}
	status = doJSON(t, http.MethodGet, baseURL+"/user", signupToken, nil, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for surviving token, got %d", status)
	}

	// logoutAll kills the rest.
	status = doJSON(t, http.MethodPost, baseURL+"/users/logoutAll", signupToken, nil, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from logoutAll, got %d", status)
	}
	status = doJSON(t, http.MethodGet, baseURL+"/user", signupToken, nil, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logoutAll, got %d", status)
	}
}

func TestE2EProfileImageAndCascade(t *testing.T) {
	baseURL := envOrDefault("TASKDECK_BASE_URL", "http://localhost:8080")

	email := fmt.Sprintf("cascade-%d@example.com", time.Now().UnixNano())
	const password = "long-enough-secret"

	var signup authResponse
	status := doJSON(t, http.MethodPost, baseURL+"/users", "", map[string]any{
		"name":     "cascade user",
		"age":      28,
		"email":    email,
		"password": password,
	}, &signup)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from signup, got %d", status)
	}
	token := bearerValue(t, signup.AccessToken)

	// Upload a profile image; the response is the normalized PNG.
	pngBytes := tinyPNG(t)
	status, contentType, body := doUpload(t, baseURL+"/user/profile", token, "avatar.png", pngBytes)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from profile upload, got %d: %s", status, body)
	}
	if contentType != "image/png" {
		t.Fatalf("upload response Content-Type = %q, want image/png", contentType)
	}

	// The stored image comes back as PNG.
	status = doJSON(t, http.MethodGet, baseURL+"/user/profile", token, nil, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from profile fetch, got %d", status)
	}

	// Wrong extension is a 406.
	status, _, _ = doUpload(t, baseURL+"/user/profile", token, "avatar.gif", pngBytes)
	if status != http.StatusNotAcceptable {
		t.Fatalf("expected 406 for bad extension, got %d", status)
	}

	// Seed a task, then delete the account; everything goes with it.
	var task taskPayload
	status = doJSON(t, http.MethodPost, baseURL+"/tasks", token, map[string]any{
		"description": "orphan-to-be",
	}, &task)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from task create, got %d", status)
	}

	// Prime the public-profile cache before deleting the account.
	status = doJSON(t, http.MethodGet, baseURL+"/users/"+signup.User.ID, "", nil, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from public profile fetch, got %d", status)
	}

	status = doJSON(t, http.MethodDelete, baseURL+"/user", token, nil, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from account delete, got %d", status)
	}

	// The cached profile is invalidated with the account.
	status = doJSON(t, http.MethodGet, baseURL+"/users/"+signup.User.ID, "", nil, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 profile after account delete, got %d", status)
	}

	// The deleted account's token is dead.
	status = doJSON(t, http.MethodGet, baseURL+"/user", token, nil, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 after account delete, got %d", status)
	}

	// Logging in again fails: the account is gone.
	status = doJSON(t, http.MethodPost, baseURL+"/users/login", "", map[string]any{
		"email":    email,
		"password": password,
	}, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 login after account delete, got %d", status)
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// bearerValue strips the "Bearer " prefix the API returns tokens with.
func bearerValue(t *testing.T, accessToken string) string {
	t.Helper()
	token := strings.TrimPrefix(accessToken, "Bearer ")
	if token == "" || token == accessToken {
		t.Fatalf("access token missing Bearer prefix: %q", accessToken)
	}
	return token
}

func doJSON(t *testing.T, method, url, token string, body any, out any) int {
	t.Helper()

	var buf io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		buf = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		decoder := json.NewDecoder(resp.Body)
		if err := decoder.Decode(out); err != nil && resp.ContentLength != 0 {
			t.Fatalf("decode response: %v", err)
		}
	}

	return resp.StatusCode
}

func doUpload(t *testing.T, url, token, filename string, content []byte) (int, string, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("profilepic", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		t.Fatalf("create upload request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("upload request: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, resp.Header.Get("Content-Type"), string(body)
}

// tinyPNG returns a small valid PNG fixture.
func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for x := 0; x < 32; x++ {
		for y := 0; y < 32; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png fixture: %v", err)
	}
	return buf.Bytes()
}
