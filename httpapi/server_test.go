package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taproom"
	"taproom/gateway"
	"taproom/storage"
	"taproom/txid"
)

func arrange(t *testing.T) *httptest.Server {
	db, err := taproom.NewDatabase(storage.NewSkipmapStorage[[]byte](), txid.NewAtomicIssuer())
	require.NoError(t, err)
	gw, err := gateway.New(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	srv := httptest.NewServer(New(gw, slog.New(slog.NewTextHandler(io.Discard, nil))).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) (*http.Response, map[string]any) {
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp, decode(t, resp)
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, map[string]any) {
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	return resp, decode(t, resp)
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var m map[string]any
	if len(b) > 0 && b[0] == '{' {
		require.NoError(t, json.Unmarshal(b, &m))
	}
	return m
}

func TestCreateDrink(t *testing.T) {
	// arrange
	srv := arrange(t)

	// act
	resp, body := post(t, srv, "/drinks", `{"name":"Coffee","description":"hot beverage"}`)

	// assert
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "Coffee", body["name"])
}

func TestDuplicateDrinkIs409(t *testing.T) {
	// arrange
	srv := arrange(t)
	post(t, srv, "/drinks", `{"name":"Coffee"}`)

	// act
	resp, body := post(t, srv, "/drinks", `{"name":"Coffee"}`)

	// assert
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body["message"], "name")
}

func TestCreateUserMissingFieldIs400WithFieldErrors(t *testing.T) {
	// arrange
	srv := arrange(t)

	// act
	resp, body := post(t, srv, "/api/users/", `{"name":"alice"}`)

	// assert
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errs := body["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].(map[string]any)["field"])
}

func TestPriceForMissingDrinkIs400(t *testing.T) {
	// arrange
	srv := arrange(t)

	// act
	resp, body := post(t, srv, "/prices", `{"drink_id":999,"price_amount":"3.50","effective_date":"2025-01-01"}`)

	// assert
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "referenced drink not found", body["message"])
}

func TestCreatePriceEchoesServerDefaults(t *testing.T) {
	// arrange
	srv := arrange(t)
	post(t, srv, "/drinks", `{"name":"Coffee"}`)

	// act
	resp, body := post(t, srv, "/prices", `{"drink_id":1,"price_amount":"3.50","effective_date":"2025-01-01"}`)

	// assert
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(1), body["price_id"])
	assert.Equal(t, "3.50", body["price_amount"])
	assert.Equal(t, "2025-01-01", body["effective_date"])
	assert.Nil(t, body["end_date"])
	assert.NotEmpty(t, body["created_at"])
}

func TestListAndGet(t *testing.T) {
	// arrange
	srv := arrange(t)
	post(t, srv, "/drinks", `{"name":"Coffee"}`)
	post(t, srv, "/drinks", `{"name":"Tea"}`)
	post(t, srv, "/api/users/", `{"name":"alice","email":"a@b.test"}`)

	// act
	listResp, err := http.Get(srv.URL + "/drinks")
	require.NoError(t, err)
	var drinks []map[string]any
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&drinks))
	listResp.Body.Close()

	oneResp, one := get(t, srv, "/drinks/2")
	userResp, user := get(t, srv, "/api/users/1")
	missingResp, _ := get(t, srv, "/api/users/99")

	// assert
	assert.Equal(t, http.StatusOK, listResp.StatusCode)
	require.Len(t, drinks, 2)
	assert.Equal(t, "Coffee", drinks[0]["name"])

	assert.Equal(t, http.StatusOK, oneResp.StatusCode)
	assert.Equal(t, "Tea", one["name"])

	assert.Equal(t, http.StatusOK, userResp.StatusCode)
	assert.Equal(t, "alice", user["name"])

	assert.Equal(t, http.StatusNotFound, missingResp.StatusCode)
}

func TestPricesForDrink(t *testing.T) {
	// arrange
	srv := arrange(t)
	post(t, srv, "/drinks", `{"name":"Coffee"}`)
	post(t, srv, "/prices", `{"drink_id":1,"price_amount":"3.50","effective_date":"2025-01-01"}`)
	post(t, srv, "/prices", `{"drink_id":1,"price_amount":"3.75","effective_date":"2025-06-01"}`)

	// act
	resp, err := http.Get(srv.URL + "/drinks/1/prices")
	require.NoError(t, err)
	defer resp.Body.Close()
	var prices []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&prices))

	missingResp, _ := get(t, srv, "/drinks/9/prices")

	// assert
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, prices, 2)
	assert.Equal(t, "3.75", prices[1]["price_amount"])
	assert.Equal(t, http.StatusNotFound, missingResp.StatusCode)
}

func TestMalformedBodyIs400(t *testing.T) {
	// arrange
	srv := arrange(t)

	// act
	resp, body := post(t, srv, "/drinks", `{not json`)

	// assert
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "request body must be a JSON object", body["message"])
}

func TestMethodNotAllowed(t *testing.T) {
	// arrange
	srv := arrange(t)

	// act
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/drinks", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	// assert
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
