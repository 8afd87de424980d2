package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	t.Helper()
	server := httptest.NewServer(handler)

	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	httpClient := NewRateLimitedHTTPClient(cfg, nil)

	return NewClient(server.URL, 2, httpClient), server.Close
}

func TestClientPaginatesSeasons(t *testing.T) {
	seasons := []string{"2021", "2022", "2023", "2024", "2025"}

	client, closeFn := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/seasons.json", r.URL.Path)

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		require.Equal(t, 2, limit)

		page := []map[string]string{}
		for i := offset; i < len(seasons) && i < offset+limit; i++ {
			page = append(page, map[string]string{"season": seasons[i]})
		}

		payload := map[string]any{
			"MRData": map[string]any{
				"total":       strconv.Itoa(len(seasons)),
				"limit":       strconv.Itoa(limit),
				"offset":      strconv.Itoa(offset),
				"SeasonTable": map[string]any{"Seasons": page},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	})
	defer closeFn()

	got, err := client.Seasons(context.Background())

	require.NoError(t, err)
	require.Len(t, got, len(seasons))
	assert.Equal(t, "2021", got[0].Season)
	assert.Equal(t, "2025", got[4].Season)
}

func TestClientScopesEndpointsToSeason(t *testing.T) {
	var requestedPath string

	client, closeFn := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		payload := map[string]any{
			"MRData": map[string]any{
				"total":       "0",
				"DriverTable": map[string]any{"Drivers": []any{}},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	})
	defer closeFn()

	_, err := client.Drivers(context.Background(), "2025")

	require.NoError(t, err)
	assert.Equal(t, "/2025/drivers.json", requestedPath)
}

func TestClientDecodesRaceResults(t *testing.T) {
	client, closeFn := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"MRData": {
				"total": "1",
				"RaceTable": {
					"Races": [{
						"season": "2025",
						"round": "9",
						"date": "2025-06-15",
						"Circuit": {"circuitId": "villeneuve"},
						"Results": [{
							"number": "1",
							"grid": "1",
							"position": "1",
							"positionText": "1",
							"points": "25",
							"laps": "70",
							"status": "Finished",
							"Driver": {"driverId": "max_verstappen"},
							"Constructor": {"constructorId": "red_bull"},
							"Time": {"time": "1:31:52.688"},
							"FastestLap": {"Time": {"time": "1:14.229"}}
						}, {
							"number": "44",
							"grid": "5",
							"position": "",
							"positionText": "R",
							"points": "0",
							"laps": "42",
							"status": "Collision",
							"Driver": {"driverId": "hamilton"},
							"Constructor": {"constructorId": "ferrari"}
						}]
					}]
				}
			}
		}`)
	})
	defer closeFn()

	races, err := client.Results(context.Background(), "2025")

	require.NoError(t, err)
	require.Len(t, races, 1)
	require.Len(t, races[0].Results, 2)

	winner := races[0].Results[0]
	assert.Equal(t, "max_verstappen", winner.Driver.DriverID)
	assert.Equal(t, "1:31:52.688", winner.raceTime())
	assert.Equal(t, "1:14.229", winner.fastestLapTime())

	retired := races[0].Results[1]
	assert.Equal(t, "R", retired.PositionText)
	assert.Empty(t, retired.raceTime())
	assert.Empty(t, retired.fastestLapTime())
}

func TestClientSurfacesServerErrors(t *testing.T) {
	client, closeFn := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer closeFn()

	_, err := client.Seasons(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}
