package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/floor-service/models"
)

func TestNotificationInbox(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouterForTest(db)
	customer, customerToken := createUser(t, db, "guest", models.RoleCustomer)
	_, staffToken := createUser(t, db, "waiter", models.RoleStaff)
	createDevice(t, db, customer.ID, "D1")
	table := createTable(t, db, "12")

	for _, requestType := range []string{"WAITER", "BILL"} {
		w, _ := doRequest(t, router, http.MethodPost, "/api/requests", customerToken, map[string]interface{}{
			"table_id":     table.ID,
			"request_type": requestType,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w, response := doRequest(t, router, http.MethodGet, "/api/notifications/unread-count", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, dataMap(t, response)["unread_count"])

	w, response = doRequest(t, router, http.MethodGet, "/api/notifications", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	inbox := dataList(t, response)
	require.Len(t, inbox, 2)
	newest := inbox[0].(map[string]interface{})
	assert.Equal(t, "New Request Bill", newest["title"])
	assert.Equal(t, "Table 12 requires Request Bill", newest["message"])
	notifID := uint(newest["notification_id"].(float64))

	// customer tidak bisa membaca notifikasi staff
	w, _ = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/api/notifications/%d/read", notifID), customerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/notifications/%d", notifID), customerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, response = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/api/notifications/%d/read", notifID), staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, dataMap(t, response)["is_read"])

	w, response = doRequest(t, router, http.MethodGet, "/api/notifications?is_read=false", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, dataList(t, response), 1)

	w, response = doRequest(t, router, http.MethodPost, "/api/notifications/read-all", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, dataMap(t, response)["updated"])

	w, response = doRequest(t, router, http.MethodPost, "/api/notifications/read-all", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, dataMap(t, response)["updated"])

	w, response = doRequest(t, router, http.MethodGet, "/api/notifications/unread-count", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, dataMap(t, response)["unread_count"])

	w, _ = doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/notifications/%d", notifID), customerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/notifications/%d", notifID), staffToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/notifications/%d", notifID), staffToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSystemNotificationEndpoint(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouterForTest(db)
	customer, customerToken := createUser(t, db, "guest", models.RoleCustomer)
	_, staffToken := createUser(t, db, "waiter", models.RoleStaff)

	payload := map[string]interface{}{
		"recipient_id": customer.ID,
		"title":        "Happy hour",
		"message":      "Drinks half price until 7pm",
	}

	w, _ := doRequest(t, router, http.MethodPost, "/api/notifications", customerToken, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, response := doRequest(t, router, http.MethodPost, "/api/notifications", staffToken, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := dataList(t, response)
	require.Len(t, created, 1)
	assert.Equal(t, "SYSTEM", created[0].(map[string]interface{})["notification_type"])

	w, response = doRequest(t, router, http.MethodGet, "/api/notifications", customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, dataList(t, response), 1)

	w, _ = doRequest(t, router, http.MethodPost, "/api/notifications", staffToken, map[string]interface{}{"title": "no body"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
