package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/floor-service/models"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouterForTest(db)

	// --- Register: role dari payload diabaikan, selalu customer ---
	w, response := doRequest(t, router, http.MethodPost, "/register", "", map[string]string{
		"name":     "Test User",
		"email":    "Test@Example.com",
		"password": "password123",
		"role":     "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, response["status"])
	data := dataMap(t, response)
	assert.NotEmpty(t, data["token"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, models.RoleCustomer, user["role"])
	assert.Equal(t, "test@example.com", user["email"])
	assert.NotContains(t, user, "password")

	// --- Duplicate email ---
	w, response = doRequest(t, router, http.MethodPost, "/register", "", map[string]string{
		"name":     "Again",
		"email":    "test@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "conflict", response["kind"])

	// --- Login ---
	w, response = doRequest(t, router, http.MethodPost, "/login", "", map[string]string{
		"email":    "test@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data = dataMap(t, response)
	assert.Equal(t, models.RoleCustomer, data["user_role"])
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)

	// --- Profile ---
	w, response = doRequest(t, router, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Test User", dataMap(t, response)["name"])

	// --- Wrong password ---
	w, response = doRequest(t, router, http.MethodPost, "/login", "", map[string]string{
		"email":    "test@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", response["kind"])
}

func TestLogoutRevokesToken(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouterForTest(db)
	_, token := createUser(t, db, "leaver", models.RoleCustomer)

	w, _ := doRequest(t, router, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doRequest(t, router, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, response := doRequest(t, router, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", response["kind"])
}

func TestAuthRequired(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouterForTest(db)

	w, _ := doRequest(t, router, http.MethodGet, "/api/requests", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doRequest(t, router, http.MethodGet, "/api/requests", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateUserIsAdminOnly(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouterForTest(db)
	_, adminToken := createUser(t, db, "admin", models.RoleAdmin)
	_, staffToken := createUser(t, db, "staff", models.RoleStaff)

	payload := map[string]string{
		"name":     "New Waiter",
		"email":    "waiter@example.com",
		"password": "password123",
	}

	w, response := doRequest(t, router, http.MethodPost, "/api/users", staffToken, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", response["kind"])

	w, response = doRequest(t, router, http.MethodPost, "/api/users", adminToken, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, models.RoleStaff, dataMap(t, response)["role"])

	payload["email"] = "chef@example.com"
	payload["role"] = "chef"
	w, _ = doRequest(t, router, http.MethodPost, "/api/users", adminToken, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
