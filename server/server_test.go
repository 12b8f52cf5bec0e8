package server

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/medilink/medilink/server/auth"
	"github.com/medilink/medilink/server/auth/key"
	"github.com/medilink/medilink/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	router  *mux.Router
	userSeq int
)

func init() {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}

	authKeyPair = key.NewKeyPair(privateKey)
	router = newRouter()
}

type testUser struct {
	user  *models.User
	token string
}

func createTestUser(t *testing.T, isAdmin bool) testUser {
	t.Helper()

	userSeq++
	user := &models.User{Email: fmt.Sprintf("caller%d@medilink.test", userSeq), IsAdmin: isAdmin}
	require.Nil(t, models.CreateUser(user))

	token, err := auth.EncodeJWT(auth.NewSessionClaims(user.ID, user.Email, time.Hour), authKeyPair)
	require.Nil(t, err)

	return testUser{user: user, token: token}
}

func createTestUserWithPage(t *testing.T) testUser {
	t.Helper()

	caller := createTestUser(t, false)
	_, err := models.CreatePage(caller.user.ID, models.PageInput{})
	require.Nil(t, err)

	return caller
}

// doRequest sends body (if any) as JSON, authenticating with a bearer token
// when one is given.
func doRequest(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			payload.WriteString(raw)
		} else {
			require.Nil(t, json.NewEncoder(&payload).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &payload)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.Nil(t, json.Unmarshal(rr.Body.Bytes(), dest), rr.Body.String())
}

func TestMedicineRoutes(t *testing.T) {
	models.InitializeTestDb()
	caller := createTestUserWithPage(t)

	rr := doRequest(t, http.MethodPost, "/api/page/medicines", caller.token, map[string]string{"name": "Aspirin", "dosage": "100mg"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	aspirin := models.Medicine{}
	decodeResponse(t, rr, &aspirin)
	assert.Equal(t, 0, aspirin.DisplayOrder)

	rr = doRequest(t, http.MethodPost, "/api/page/medicines", caller.token, map[string]string{"name": "Ibuprofen"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	ibuprofen := models.Medicine{}
	decodeResponse(t, rr, &ibuprofen)
	assert.Equal(t, 1, ibuprofen.DisplayOrder)

	rr = doRequest(t, http.MethodPut, "/api/page/medicines/reorder", caller.token, map[string][]uint{"medicineIds": {ibuprofen.ID, aspirin.ID}})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doRequest(t, http.MethodGet, "/api/page/medicines", caller.token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	medicines := []models.Medicine{}
	decodeResponse(t, rr, &medicines)
	require.Len(t, medicines, 2)
	assert.Equal(t, "Ibuprofen", medicines[0].Name)
	assert.Equal(t, "Aspirin", medicines[1].Name)

	rr = doRequest(t, http.MethodPut, fmt.Sprintf("/api/page/medicines/%d", aspirin.ID), caller.token, map[string]string{"name": "Aspirin", "dosage": "75mg"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := models.Medicine{}
	decodeResponse(t, rr, &updated)
	assert.Equal(t, "75mg", updated.Dosage)

	rr = doRequest(t, http.MethodDelete, fmt.Sprintf("/api/page/medicines/%d", aspirin.ID), caller.token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, http.MethodDelete, fmt.Sprintf("/api/page/medicines/%d", aspirin.ID), caller.token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code, "Deleting twice should be a 404")
}

func TestReorderRejectsBadBodies(t *testing.T) {
	models.InitializeTestDb()
	caller := createTestUserWithPage(t)

	testCases := []struct {
		name string
		body string
	}{
		{name: "malformed JSON", body: `{"allergyIds":`},
		{name: "missing field", body: `{"ids":[1]}`},
		{name: "not an array", body: `{"allergyIds":"1,2"}`},
		{name: "null", body: `{"allergyIds":null}`},
		{name: "empty array", body: `{"allergyIds":[]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := doRequest(t, http.MethodPut, "/api/page/allergies/reorder", caller.token, tc.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())

			errPayload := ErrorPayload{}
			decodeResponse(t, rr, &errPayload)
			assert.NotEmpty(t, errPayload.Error)
		})
	}
}

func TestReorderWithForeignIDIsNotFound(t *testing.T) {
	models.InitializeTestDb()
	owner := createTestUserWithPage(t)
	other := createTestUserWithPage(t)

	rr := doRequest(t, http.MethodPost, "/api/page/diagnoses", other.token, map[string]string{"name": "Asthma"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	foreign := models.Diagnosis{}
	decodeResponse(t, rr, &foreign)

	rr = doRequest(t, http.MethodPut, "/api/page/diagnoses/reorder", owner.token, map[string][]uint{"diagnosisIds": {foreign.ID}})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(t, http.MethodPut, fmt.Sprintf("/api/page/diagnoses/%d", foreign.ID), owner.token, map[string]string{"name": "Hijacked"})
	assert.Equal(t, http.StatusNotFound, rr.Code, "Items on another page are invisible")
}

func TestBlankDiagnosisIsBadRequest(t *testing.T) {
	models.InitializeTestDb()
	caller := createTestUserWithPage(t)

	rr := doRequest(t, http.MethodPost, "/api/page/diagnoses", caller.token, map[string]string{"name": "", "severity": "invalid"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, http.MethodPost, "/api/page/diagnoses", caller.token, map[string]string{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, http.MethodGet, "/api/page/diagnoses", caller.token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	diagnoses := []models.Diagnosis{}
	decodeResponse(t, rr, &diagnoses)
	assert.Empty(t, diagnoses)
}

func TestPageRoutes(t *testing.T) {
	models.InitializeTestDb()
	caller := createTestUser(t, false)

	rr := doRequest(t, http.MethodGet, "/api/page", caller.token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(t, http.MethodGet, "/api/page/medicines", caller.token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code, "Collections need a page")

	rr = doRequest(t, http.MethodPost, "/api/page", caller.token, map[string]interface{}{"title": "My page", "theme": "dark"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = doRequest(t, http.MethodPost, "/api/page", caller.token, map[string]interface{}{})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doRequest(t, http.MethodPut, "/api/page", caller.token, map[string]interface{}{"isPublic": true})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	page := models.Page{}
	decodeResponse(t, rr, &page)
	assert.True(t, page.IsPublic)
	assert.Equal(t, "My page", page.Title)
	assert.Equal(t, "dark", page.Theme)
}

func TestUnauthenticatedRequests(t *testing.T) {
	models.InitializeTestDb()

	rr := doRequest(t, http.MethodGet, "/api/notifications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doRequest(t, http.MethodGet, "/api/notifications", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Token for a user that no longer exists
	caller := createTestUser(t, false)
	require.Nil(t, models.DeleteUser(caller.user.ID))
	rr = doRequest(t, http.MethodGet, "/api/notifications", caller.token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSessionCookie(t *testing.T) {
	models.InitializeTestDb()
	caller := createTestUser(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: caller.token})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestNotificationRoutes(t *testing.T) {
	models.InitializeTestDb()
	caller := createTestUser(t, false)
	other := createTestUser(t, false)

	first, err := models.Notify(caller.user.ID, models.SYSTEM_NOTIFICATION, "Welcome", "Hello", nil)
	require.Nil(t, err)
	_, err = models.Notify(caller.user.ID, models.SYSTEM_NOTIFICATION, "Reminder", "Update your page", nil)
	require.Nil(t, err)

	rr := doRequest(t, http.MethodGet, "/api/notifications", caller.token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	feed := models.NotificationFeed{}
	decodeResponse(t, rr, &feed)
	assert.Len(t, feed.Notifications, 2)
	assert.Equal(t, 2, feed.UnreadCount)

	rr = doRequest(t, http.MethodPatch, "/api/notifications", other.token, map[string]uint{"notificationId": first.ID})
	assert.Equal(t, http.StatusNotFound, rr.Code, "Other users can't mark someone else's notification")

	rr = doRequest(t, http.MethodPatch, "/api/notifications", caller.token, map[string]uint{"notificationId": first.ID})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decodeResponse(t, rr, &feed)
	assert.Equal(t, 1, feed.UnreadCount)

	rr = doRequest(t, http.MethodPatch, "/api/notifications", caller.token, map[string]bool{"markAll": true})
	require.Equal(t, http.StatusOK, rr.Code)
	decodeResponse(t, rr, &feed)
	assert.Equal(t, 0, feed.UnreadCount)

	rr = doRequest(t, http.MethodPatch, "/api/notifications", caller.token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUsernameAndPublicProfile(t *testing.T) {
	models.InitializeTestDb()
	caller := createTestUserWithPage(t)
	other := createTestUser(t, false)

	rr := doRequest(t, http.MethodGet, "/api/user/username", caller.token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"username":null}`, rr.Body.String())

	rr = doRequest(t, http.MethodPost, "/api/user/username", caller.token, map[string]string{"username": "jane_doe"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"username":"jane_doe"}`, rr.Body.String())

	rr = doRequest(t, http.MethodPost, "/api/user/username", other.token, map[string]string{"username": "jane_doe"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doRequest(t, http.MethodPost, "/api/user/username", other.token, map[string]string{"username": "no spaces"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, http.MethodPost, "/api/user/username", other.token, map[string]string{"username": "ab"})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Two characters is too short")

	rr = doRequest(t, http.MethodPost, "/api/user/username", other.token, map[string]string{"username": "abc"})
	require.Equal(t, http.StatusOK, rr.Code, "Three characters is the shortest allowed")
	assert.JSONEq(t, `{"username":"abc"}`, rr.Body.String())

	rr = doRequest(t, http.MethodGet, "/api/public/jane_doe", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code, "Private pages are hidden")

	rr = doRequest(t, http.MethodPut, "/api/page", caller.token, map[string]bool{"isPublic": true})
	require.Equal(t, http.StatusOK, rr.Code)
	rr = doRequest(t, http.MethodPost, "/api/page/allergies", caller.token, map[string]string{"name": "Penicillin", "severity": "severe"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doRequest(t, http.MethodGet, "/api/public/jane_doe", "", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	profile := models.Profile{}
	decodeResponse(t, rr, &profile)
	assert.Equal(t, "jane_doe", profile.Username)
	require.Len(t, profile.Allergies, 1)
	assert.Equal(t, "severe", profile.Allergies[0].Severity)
}

func TestOrderRoutes(t *testing.T) {
	models.InitializeTestDb()
	caller := createTestUser(t, false)
	admin := createTestUser(t, true)

	rr := doRequest(t, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	products := []models.Product{}
	decodeResponse(t, rr, &products)
	require.NotEmpty(t, products)

	var premium models.Product
	for _, product := range products {
		if product.Tier == models.PREMIUM_TIER {
			premium = product
		}
	}
	require.NotZero(t, premium.ID)

	rr = doRequest(t, http.MethodPost, "/api/orders", caller.token, map[string]interface{}{
		"items": []map[string]uint{{"productId": premium.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	order := models.Order{}
	decodeResponse(t, rr, &order)
	assert.Equal(t, models.PENDING_ORDER, order.Status)
	assert.Equal(t, premium.PriceCents, order.TotalCents)

	rr = doRequest(t, http.MethodPost, "/api/orders", caller.token, map[string]interface{}{"items": []interface{}{}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, http.MethodPut, fmt.Sprintf("/api/admin/orders/%d", order.ID), caller.token, map[string]string{"status": "paid"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doRequest(t, http.MethodPut, fmt.Sprintf("/api/admin/orders/%d", order.ID), admin.token, map[string]string{"status": "paid"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	user, err := models.FindUser(caller.user.ID)
	require.Nil(t, err)
	assert.Equal(t, models.PREMIUM_TIER, user.SubscriptionTier)

	rr = doRequest(t, http.MethodGet, "/api/orders", caller.token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	orders := []models.Order{}
	decodeResponse(t, rr, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, models.PAID_ORDER, orders[0].Status)
}

func TestAdminRoutes(t *testing.T) {
	models.InitializeTestDb()
	admin := createTestUser(t, true)
	member := createTestUserWithPage(t)

	rr := doRequest(t, http.MethodGet, "/api/admin/stats", member.token, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doRequest(t, http.MethodGet, "/api/admin/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doRequest(t, http.MethodGet, "/api/admin/stats", admin.token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	stats := models.Stats{}
	decodeResponse(t, rr, &stats)
	assert.Equal(t, int64(2), stats.Users)
	assert.Equal(t, int64(1), stats.Admins)
	assert.Equal(t, int64(1), stats.Pages)

	rr = doRequest(t, http.MethodGet, "/api/admin/users?page=1", admin.token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	users := usersResponse{}
	decodeResponse(t, rr, &users)
	assert.Len(t, users.Users, 2)
	assert.Equal(t, int64(2), users.Paging.Total)

	rr = doRequest(t, http.MethodPut, fmt.Sprintf("/api/admin/users/%d", member.user.ID), admin.token, map[string]string{"subscriptionTier": "basic"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := models.User{}
	decodeResponse(t, rr, &updated)
	assert.Equal(t, models.BASIC_TIER, updated.SubscriptionTier)

	rr = doRequest(t, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", admin.user.ID), admin.token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Admins can't delete themselves")

	rr = doRequest(t, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", member.user.ID), admin.token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, http.MethodGet, fmt.Sprintf("/api/admin/users/%d", member.user.ID), admin.token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPublicRoutes(t *testing.T) {
	models.InitializeTestDb()

	rr := doRequest(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, http.MethodGet, "/api/auth/jwks", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), key.KEY_ID)

	rr = doRequest(t, http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestWrongMethodIsJSON(t *testing.T) {
	models.InitializeTestDb()
	caller := createTestUserWithPage(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPatch, "/api/page/medicines"},
		{http.MethodDelete, "/api/page"},
		{http.MethodPost, "/api/products"},
	}

	for _, tc := range cases {
		rr := doRequest(t, tc.method, tc.path, caller.token, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		errPayload := ErrorPayload{}
		decodeResponse(t, rr, &errPayload)
		assert.Equal(t, "method not allowed", errPayload.Error)
	}
}
