package Controllers_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/floor-service/models"
)

func TestGetAllTables(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouterForTest(db)
	_, token := createUser(t, db, "guest", models.RoleCustomer)

	createTable(t, db, "A1")
	occupied := createTable(t, db, "B1")
	require.NoError(t, db.Model(&occupied).Update("is_occupied", true).Error)

	w, response := doRequest(t, router, http.MethodGet, "/api/tables", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "List of tables", response["message"])
	assert.Len(t, dataList(t, response), 2)

	w, response = doRequest(t, router, http.MethodGet, "/api/tables?occupied=true", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	tables := dataList(t, response)
	require.Len(t, tables, 1)
	assert.Equal(t, "B1", tables[0].(map[string]interface{})["table_number"])
}

func TestCreateTableIsStaffOnly(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouterForTest(db)
	_, customerToken := createUser(t, db, "guest", models.RoleCustomer)
	_, staffToken := createUser(t, db, "waiter", models.RoleStaff)

	payload := map[string]interface{}{"table_number": "C1", "capacity": 6}

	w, _ := doRequest(t, router, http.MethodPost, "/api/tables", customerToken, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, response := doRequest(t, router, http.MethodPost, "/api/tables", staffToken, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := dataMap(t, response)
	assert.Equal(t, "C1", data["table_number"])
	assert.EqualValues(t, 6, data["capacity"])
	assert.Equal(t, false, data["is_occupied"])

	w, response = doRequest(t, router, http.MethodPost, "/api/tables", staffToken, payload)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "conflict", response["kind"])

	w, _ = doRequest(t, router, http.MethodPost, "/api/tables", staffToken, map[string]interface{}{"table_number": "D1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAndToggleTable(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouterForTest(db)
	_, staffToken := createUser(t, db, "waiter", models.RoleStaff)
	table := createTable(t, db, "E1")
	createTable(t, db, "E2")
	url := "/api/tables/" + strconv.Itoa(int(table.ID))

	w, response := doRequest(t, router, http.MethodPatch, url, staffToken, map[string]interface{}{"capacity": 8})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 8, dataMap(t, response)["capacity"])
	assert.Equal(t, "E1", dataMap(t, response)["table_number"])

	w, _ = doRequest(t, router, http.MethodPatch, url, staffToken, map[string]interface{}{"table_number": "E2"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, response = doRequest(t, router, http.MethodPost, url+"/toggle-occupancy", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, dataMap(t, response)["is_occupied"])

	var stored models.Table
	require.NoError(t, db.First(&stored, table.ID).Error)
	assert.True(t, stored.IsOccupied)
	assert.Equal(t, 8, stored.Capacity)

	w, response = doRequest(t, router, http.MethodGet, "/api/tables/9999", staffToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Table not found", response["message"])
}

func TestDeleteTableRemovesItsRequests(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouterForTest(db)
	customer, customerToken := createUser(t, db, "guest", models.RoleCustomer)
	_, staffToken := createUser(t, db, "waiter", models.RoleStaff)
	createDevice(t, db, customer.ID, "D1")
	table := createTable(t, db, "F1")

	w, _ := doRequest(t, router, http.MethodPost, "/api/requests", customerToken, map[string]interface{}{
		"table_id":     table.ID,
		"request_type": "WAITER",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = doRequest(t, router, http.MethodDelete, "/api/tables/"+strconv.Itoa(int(table.ID)), staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var requests, notifications, tables int64
	db.Model(&models.ServiceRequest{}).Count(&requests)
	db.Model(&models.Notification{}).Count(&notifications)
	db.Model(&models.Table{}).Count(&tables)
	assert.Zero(t, requests)
	assert.Zero(t, notifications)
	assert.Zero(t, tables)
}
