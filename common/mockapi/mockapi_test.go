package mockapi

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexline/racedata/common/clients"
	"github.com/apexline/racedata/common/logger"
)

func startSeeded(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	api := New(logger.New("error", "json"))
	api.Seed()
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)
	return api, srv
}

func seededClient(t *testing.T, baseURL, password string) *clients.RacingClient {
	t.Helper()
	client, err := clients.NewRacingClient(clients.Config{
		BaseURL:  baseURL,
		Email:    "dev@example.com",
		Password: password,
		CustID:   100001,
	}, logger.New("error", "json"))
	require.NoError(t, err)
	return client
}

func TestMockAPI_InlineEndpoint(t *testing.T) {
	_, srv := startSeeded(t)
	client := seededClient(t, srv.URL, "racer")

	doc, err := client.MemberInfo(context.Background())
	require.NoError(t, err)

	var info struct {
		DisplayName string `json:"display_name"`
		CustID      int    `json:"cust_id"`
	}
	require.NoError(t, json.Unmarshal(doc, &info))
	assert.Equal(t, "Dev Driver", info.DisplayName)
	assert.Equal(t, 100001, info.CustID)
}

func TestMockAPI_LinkedEndpoint(t *testing.T) {
	_, srv := startSeeded(t)
	client := seededClient(t, srv.URL, "racer")

	doc, err := client.Cars(context.Background())
	require.NoError(t, err)

	var cars []struct {
		CarID int `json:"car_id"`
	}
	require.NoError(t, json.Unmarshal(doc, &cars))
	require.Len(t, cars, 3)
	assert.Equal(t, 1, cars[0].CarID, "link indirection must hand back the payload itself")
}

func TestMockAPI_ChunkedLapData(t *testing.T) {
	_, srv := startSeeded(t)
	client := seededClient(t, srv.URL, "racer")

	laps, err := client.ResultLapData(context.Background(), 68837306, 0, 100001, 0)
	require.NoError(t, err)
	require.Len(t, laps, 3)

	for i, lap := range laps {
		var parsed struct {
			LapNumber int `json:"lap_number"`
		}
		require.NoError(t, json.Unmarshal(lap, &parsed))
		assert.Equal(t, i+1, parsed.LapNumber, "laps must come back in chunk order")
	}
}

func TestMockAPI_NestedChunkedSearch(t *testing.T) {
	_, srv := startSeeded(t)
	client := seededClient(t, srv.URL, "racer")

	results, err := client.SearchSeries(context.Background(), clients.SearchSeriesOptions{
		SeasonYear:    2024,
		SeasonQuarter: 2,
	})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestMockAPI_RejectsBadPassword(t *testing.T) {
	_, srv := startSeeded(t)
	client := seededClient(t, srv.URL, "wrong")

	_, err := client.MemberInfo(context.Background())

	var authErr *clients.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, clients.AuthRejected, authErr.Kind)
}

func TestMockAPI_TransparentReauthAfterExpiry(t *testing.T) {
	api, srv := startSeeded(t)
	client := seededClient(t, srv.URL, "racer")

	_, err := client.MemberInfo(context.Background())
	require.NoError(t, err)

	api.ExpireSessions()

	doc, err := client.MemberInfo(context.Background())
	require.NoError(t, err, "client must re-authenticate and retry once")
	assert.NotNil(t, doc)
}

func TestMockAPI_UnknownEndpointIsBadStatus(t *testing.T) {
	_, srv := startSeeded(t)
	client := seededClient(t, srv.URL, "racer")

	_, err := client.Resolve(context.Background(), "/data/nope/nothing", nil)

	var resolveErr *clients.ResolveError
	require.ErrorAs(t, err, &resolveErr)
	assert.Equal(t, 404, resolveErr.StatusCode)
}
