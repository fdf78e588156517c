package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lostfound-be/controllers"
	"lostfound-be/mailer"
	"lostfound-be/middlewares"
	"lostfound-be/routes"
	"lostfound-be/store"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

type sentMail struct {
	to      string
	subject string
}

// countingSender implements mailer.Sender and records deliveries.
type countingSender struct {
	fail bool
	sent []sentMail
}

func (s *countingSender) Send(to, subject, htmlBody string, attachments ...string) error {
	s.sent = append(s.sent, sentMail{to: to, subject: subject})
	if s.fail {
		return fmt.Errorf("smtp unavailable")
	}
	return nil
}

type testEnv struct {
	router *gin.Engine
	items  *store.MemoryItemStore
	sender *countingSender
}

func newTestEnv(t *testing.T, failMail bool) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	items := store.NewMemoryItemStore()
	admins := store.NewMemoryAdminStore()
	require.NoError(t, store.EnsureAdmin(context.Background(), admins, "admin@campus.edu", "admin123"))

	sender := &countingSender{fail: failMail}
	dispatcher := mailer.NewDispatcher(sender)

	ic := controllers.NewItemController(items, dispatcher)
	ac := controllers.NewAdminController(items, admins, dispatcher, testJWTSecret)

	adminAuth := middlewares.AdminAuth(testJWTSecret)
	claimLimiter := middlewares.ClaimRateLimiter(nil, 5, time.Minute)

	r := gin.New()
	routes.ItemRoutes(r, ic, ac, adminAuth, claimLimiter)
	routes.AdminRoutes(r, ac, adminAuth)

	return &testEnv{router: r, items: items, sender: sender}
}

func (e *testEnv) request(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
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
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (e *testEnv) createItem(t *testing.T, status string) string {
	t.Helper()
	w := e.request(t, http.MethodPost, "/api/items", gin.H{
		"title":       "Black Backpack",
		"description": "Nylon backpack with laptop sleeve",
		"category":    "Electronics",
		"status":      status,
		"location":    "Library, 2nd floor",
		"date":        "2026-08-30",
		"firstName":   "Dana",
		"lastName":    "Reyes",
		"email":       "dana.reyes@example.edu",
		"phone":       "555-0101",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["id"].(string)
}

func (e *testEnv) claimItem(t *testing.T, itemID, email string) *httptest.ResponseRecorder {
	t.Helper()
	return e.request(t, http.MethodPost, "/api/items/claim", gin.H{
		"itemId":    itemID,
		"firstName": "Femi",
		"lastName":  "Adeyemi",
		"email":     email,
		"phone":     "555-0202",
	}, "")
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	w := e.request(t, http.MethodPost, "/api/admin/login", gin.H{
		"email":    "admin@campus.edu",
		"password": "admin123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode(t, w)["token"].(string)
}

func TestCreateItemInvalidCategory(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.request(t, http.MethodPost, "/api/items", gin.H{
		"title":     "Mystery Object",
		"category":  "Furniture",
		"location":  "Cafeteria",
		"firstName": "Dana",
		"lastName":  "Reyes",
		"email":     "dana.reyes@example.edu",
		"phone":     "555-0101",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid category", decode(t, w)["message"])

	// Nothing was written.
	items, total, err := env.items.FindAll(context.Background(), store.ItemFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestCreateItemRejectsWorkflowStatus(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.request(t, http.MethodPost, "/api/items", gin.H{
		"title":     "Black Backpack",
		"category":  "Electronics",
		"status":    "claimed",
		"location":  "Library",
		"firstName": "Dana",
		"lastName":  "Reyes",
		"email":     "dana.reyes@example.edu",
		"phone":     "555-0101",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateItemDefaultsToFound(t *testing.T) {
	env := newTestEnv(t, false)
	itemID := env.createItem(t, "")

	w := env.request(t, http.MethodGet, "/api/items/"+itemID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "found", decode(t, w)["status"])
}

// Scenario: report, claim, then a competing claim is rejected with a
// conflict and the original claimant survives.
func TestClaimFlow(t *testing.T) {
	env := newTestEnv(t, false)
	itemID := env.createItem(t, "found")

	w := env.claimItem(t, itemID, "femi.adeyemi@example.edu")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "pending", data["status"])
	assert.NotNil(t, data["claimedBy"])

	// Claim confirmation went to the claimant.
	require.Len(t, env.sender.sent, 1)
	assert.Equal(t, "femi.adeyemi@example.edu", env.sender.sent[0].to)

	// Competing claim conflicts.
	w = env.claimItem(t, itemID, "noor.haddad@example.edu")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body = decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Item already claimed", body["message"])

	// Original claimant and reporter are intact.
	w = env.request(t, http.MethodGet, "/api/items/"+itemID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	assert.Equal(t, "femi.adeyemi@example.edu", got["claimedBy"].(map[string]any)["email"])
	reporter := got["reporter"].(map[string]any)
	assert.Equal(t, "Dana", reporter["firstName"])
	assert.Equal(t, "dana.reyes@example.edu", reporter["email"])
}

func TestClaimUnknownItem(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.claimItem(t, "65f000000000000000000000", "femi.adeyemi@example.edu")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Item not found", decode(t, w)["message"])
}

// Scenario: admin approves a pending claim; the item becomes claimed and an
// approval email is attempted.
func TestApproveClaim(t *testing.T) {
	env := newTestEnv(t, false)
	itemID := env.createItem(t, "found")
	env.claimItem(t, itemID, "femi.adeyemi@example.edu")
	token := env.login(t)

	w := env.request(t, http.MethodPost, "/api/admin/claims/"+itemID+"/approve", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "claimed", body["data"].(map[string]any)["status"])
	assert.NotContains(t, body, "warning")

	// claim confirmation + approval notice
	require.Len(t, env.sender.sent, 2)
	assert.Equal(t, "Claim Approved", env.sender.sent[1].subject)
	assert.Equal(t, "femi.adeyemi@example.edu", env.sender.sent[1].to)
}

// The transition must commit even when the mail transport fails; the failure
// surfaces as a warning on a successful response.
func TestApproveClaimSurvivesMailFailure(t *testing.T) {
	env := newTestEnv(t, true)
	itemID := env.createItem(t, "found")
	env.claimItem(t, itemID, "femi.adeyemi@example.edu")
	token := env.login(t)

	w := env.request(t, http.MethodPost, "/api/admin/claims/"+itemID+"/approve", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Notification email could not be sent", body["warning"])

	// State committed despite the failure.
	w = env.request(t, http.MethodGet, "/api/items/"+itemID, nil, "")
	assert.Equal(t, "claimed", decode(t, w)["status"])
}

// Scenario: rejecting an already-rejected claim is a conflict and triggers no
// second notification.
func TestRejectClaimTwice(t *testing.T) {
	env := newTestEnv(t, false)
	itemID := env.createItem(t, "found")
	env.claimItem(t, itemID, "femi.adeyemi@example.edu")
	token := env.login(t)

	w := env.request(t, http.MethodPost, "/api/admin/claims/"+itemID+"/reject", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sentAfterFirst := len(env.sender.sent)

	w = env.request(t, http.MethodPost, "/api/admin/claims/"+itemID+"/reject", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid claim status", body["message"])
	assert.Len(t, env.sender.sent, sentAfterFirst)

	// Claim history preserved.
	w = env.request(t, http.MethodGet, "/api/items/"+itemID, nil, "")
	got := decode(t, w)
	assert.Equal(t, "rejected", got["status"])
	assert.NotNil(t, got["claimedBy"])
}

func TestApproveWithoutPendingClaim(t *testing.T) {
	env := newTestEnv(t, false)
	itemID := env.createItem(t, "found")
	token := env.login(t)

	w := env.request(t, http.MethodPost, "/api/admin/claims/"+itemID+"/approve", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid claim status", decode(t, w)["message"])
}

func TestAdminGate(t *testing.T) {
	env := newTestEnv(t, false)
	itemID := env.createItem(t, "found")

	// Missing token.
	w := env.request(t, http.MethodPost, "/api/admin/claims/"+itemID+"/approve", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Malformed token.
	w = env.request(t, http.MethodPost, "/api/admin/claims/"+itemID+"/approve", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid signature, missing admin capability.
	userToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "user",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := userToken.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	w = env.request(t, http.MethodPost, "/api/admin/claims/"+itemID+"/approve", nil, signed)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.request(t, http.MethodPost, "/api/admin/login", gin.H{
		"email":    "admin@campus.edu",
		"password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.request(t, http.MethodPost, "/api/admin/login", gin.H{
		"email":    "nobody@campus.edu",
		"password": "admin123",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetClaimRequests(t *testing.T) {
	env := newTestEnv(t, false)
	itemID := env.createItem(t, "found")
	env.claimItem(t, itemID, "femi.adeyemi@example.edu")
	token := env.login(t)

	w := env.request(t, http.MethodGet, "/api/admin/claims", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	claims := body["claims"].([]any)
	require.Len(t, claims, 1)
	claim := claims[0].(map[string]any)
	assert.Equal(t, "pending", claim["status"])
	assert.Equal(t, "Black Backpack", claim["item"].(map[string]any)["title"])
	assert.Equal(t, "femi.adeyemi@example.edu", claim["claimedBy"].(map[string]any)["email"])
}

func TestAdminStatusOverride(t *testing.T) {
	env := newTestEnv(t, false)
	itemID := env.createItem(t, "found")
	token := env.login(t)

	// The override bypasses the transition table entirely.
	w := env.request(t, http.MethodPut, "/api/admin/items/"+itemID, gin.H{"status": "claimed"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "claimed", decode(t, w)["status"])

	// But still enforces enum membership.
	w = env.request(t, http.MethodPut, "/api/admin/items/"+itemID, gin.H{"status": "returned"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminDeleteItem(t *testing.T) {
	env := newTestEnv(t, false)
	itemID := env.createItem(t, "found")
	token := env.login(t)

	w := env.request(t, http.MethodDelete, "/api/items/"+itemID, nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, "/api/items/"+itemID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodDelete, "/api/items/"+itemID, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendItemDetails(t *testing.T) {
	env := newTestEnv(t, false)
	itemID := env.createItem(t, "found")
	token := env.login(t)

	w := env.request(t, http.MethodPost, "/api/admin/send-details", gin.H{
		"itemId": itemID,
		"email":  "someone@example.edu",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Item information sent successfully", decode(t, w)["message"])
	require.Len(t, env.sender.sent, 1)
	assert.Equal(t, "someone@example.edu", env.sender.sent[0].to)
}

func TestGenerateQRCode(t *testing.T) {
	env := newTestEnv(t, false)
	itemID := env.createItem(t, "found")

	w := env.request(t, http.MethodGet, "/api/items/"+itemID+"/qr-code", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body["qrCode"], "data:image/png;base64,")
	assert.Contains(t, body["qrContent"], itemID)
}
