package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafesync/internal/config"
)

var fixedNow = time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)

func mockService() *WeatherService {
	ws := NewWeatherService(config.WeatherConfig{APIKey: "demo-key", Lat: 40.7128, Lon: -74.0060})
	ws.now = func() time.Time { return fixedNow }
	return ws
}

func TestMockMode(t *testing.T) {
	ws := mockService()
	ctx := context.Background()

	cur, err := ws.Current(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 22.0, cur.Temperature)
	assert.Equal(t, "sunny", cur.Condition)
	assert.Equal(t, 45, cur.Humidity)
	assert.True(t, cur.Mock)

	days, mock, err := ws.Forecast(ctx, nil, nil, 2)
	require.NoError(t, err)
	assert.True(t, mock)
	require.Len(t, days, 2)
	assert.Equal(t, "2024-01-21", days[0].Date)
	assert.Equal(t, "rainy", days[1].Condition)
}

func TestDemandPredictionOnMockForecast(t *testing.T) {
	rep, err := mockService().DemandPrediction(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, rep.Predictions, 3)
	// partly_cloudy has no multiplier, rainy 1.2, cloudy 1.0
	assert.Equal(t, 100, rep.Predictions[0].PredictedDemand)
	assert.Equal(t, 120, rep.Predictions[1].PredictedDemand)
	assert.Equal(t, 100, rep.Predictions[2].PredictedDemand)
	assert.Equal(t, 107, rep.AverageDemand)
	require.NotNil(t, rep.PeakDay)
	assert.Equal(t, "2024-01-22", rep.PeakDay.Date)
	assert.Equal(t, 0.85, rep.PeakDay.Confidence)
}

func TestImpact(t *testing.T) {
	ws := mockService()
	ctx := context.Background()

	rep, err := ws.Impact(ctx, "rainy", nil)
	require.NoError(t, err)
	assert.Equal(t, 0.20, rep.Impact.HotDrinks)
	assert.Equal(t, []string{
		"Increase hot drink inventory and staff",
		"Increase pastry production for higher demand",
		"Consider additional staff for expected high demand",
	}, rep.Recommendations)

	hot := 33.0
	rep, err = ws.Impact(ctx, "rainy", &hot)
	require.NoError(t, err)
	assert.Equal(t, 0.35, rep.Impact.ColdDrinks)
	assert.Equal(t, []string{"Prepare additional cold drink ingredients"}, rep.Recommendations)

	// no condition: current (mock) weather, sunny at 22 degrees
	rep, err = ws.Impact(ctx, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "sunny", rep.CurrentCondition)
	assert.Equal(t, 0.25, rep.Impact.ColdDrinks)
	assert.Equal(t, []string{"Prepare additional cold drink ingredients"}, rep.Recommendations)
}

func upstream(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	day := fixedNow.AddDate(0, 0, 1).Truncate(24 * time.Hour)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "secret", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/weather":
			fmt.Fprint(w, `{"name":"Brooklyn","main":{"temp":18.6,"humidity":70},"wind":{"speed":4.1},
				"weather":[{"main":"Drizzle","description":"light drizzle"}]}`)
		case "/forecast":
			assert.Equal(t, "16", r.URL.Query().Get("cnt"))
			fmt.Fprintf(w, `{"list":[
				{"dt":%d,"main":{"temp":10.4,"humidity":60},"wind":{"speed":2},"weather":[{"main":"Clouds"}],"pop":0.1},
				{"dt":%d,"main":{"temp":14.6,"humidity":70},"wind":{"speed":4},"weather":[{"main":"Rain"}],"pop":0.65},
				{"dt":%d,"main":{"temp":12.0,"humidity":80},"wind":{"speed":6},"weather":[{"main":"Rain"}],"pop":0.3},
				{"dt":%d,"main":{"temp":31.2,"humidity":40},"wind":{"speed":1},"weather":[{"main":"Clear"}],"pop":0}
			]}`, day.Unix(), day.Add(3*time.Hour).Unix(), day.Add(6*time.Hour).Unix(), day.Add(24*time.Hour).Unix())
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func liveService(baseURL string) *WeatherService {
	ws := NewWeatherService(config.WeatherConfig{APIKey: "secret", BaseURL: baseURL, Lat: 40.7128, Lon: -74.0060})
	ws.now = func() time.Time { return fixedNow }
	return ws
}

func TestCurrentFromUpstreamIsCached(t *testing.T) {
	var calls atomic.Int32
	ws := liveService(upstream(t, &calls).URL)
	ctx := context.Background()

	cur, err := ws.Current(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 19.0, cur.Temperature)
	assert.Equal(t, "rainy", cur.Condition)
	assert.Equal(t, "light drizzle", cur.Description)
	assert.Equal(t, "Brooklyn", cur.Location)
	assert.False(t, cur.Mock)

	_, err = ws.Current(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	lat := 51.5
	_, err = ws.Current(ctx, &lat, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())

	ws.now = func() time.Time { return fixedNow.Add(11 * time.Minute) }
	_, err = ws.Current(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestForecastAggregatesSlots(t *testing.T) {
	var calls atomic.Int32
	ws := liveService(upstream(t, &calls).URL)

	days, mock, err := ws.Forecast(context.Background(), nil, nil, 2)
	require.NoError(t, err)
	assert.False(t, mock)
	require.Len(t, days, 2)

	assert.Equal(t, "2024-01-21", days[0].Date)
	assert.Equal(t, 15.0, days[0].High)
	assert.Equal(t, 10.0, days[0].Low)
	assert.Equal(t, "rainy", days[0].Condition)
	assert.Equal(t, 65, days[0].Precipitation)
	assert.Equal(t, 70, days[0].Humidity)

	assert.Equal(t, "sunny", days[1].Condition)
	assert.Equal(t, 31.0, days[1].High)

	rep, err := ws.DemandPrediction(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, rep.Predictions, 2)
	assert.Equal(t, 120, rep.Predictions[0].PredictedDemand)
	assert.Equal(t, 121, rep.Predictions[1].PredictedDemand) // sunny 1.1, above 30 degrees 1.1
	assert.Equal(t, int32(1), calls.Load())
}

func TestUpstreamFailureFallsBackToMock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"cod":401,"message":"Invalid API key"}`, http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)
	ws := liveService(srv.URL)

	cur, err := ws.Current(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.True(t, cur.Mock)
	assert.Equal(t, "sunny", cur.Condition)

	days, mock, err := ws.Forecast(context.Background(), nil, nil, 5)
	require.NoError(t, err)
	assert.True(t, mock)
	assert.Len(t, days, 3)
}
