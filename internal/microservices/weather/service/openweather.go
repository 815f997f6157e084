package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const upstreamTimeout = 10 * time.Second

// OpenWeather is a minimal client for the 2.5 REST API in metric units.
type OpenWeather struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

func NewOpenWeather(baseURL, apiKey string) *OpenWeather {
	return &OpenWeather{
		http:    &http.Client{Timeout: upstreamTimeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type owCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type owMain struct {
	Temp     float64 `json:"temp"`
	Humidity int     `json:"humidity"`
}

type owWind struct {
	Speed float64 `json:"speed"`
}

type owCurrent struct {
	Name    string        `json:"name"`
	Main    owMain        `json:"main"`
	Wind    owWind        `json:"wind"`
	Weather []owCondition `json:"weather"`
}

type owSlot struct {
	Dt      int64         `json:"dt"`
	Main    owMain        `json:"main"`
	Wind    owWind        `json:"wind"`
	Weather []owCondition `json:"weather"`
	Pop     float64       `json:"pop"`
}

type owForecast struct {
	List []owSlot `json:"list"`
}

func (c *OpenWeather) get(ctx context.Context, path string, q url.Values, out any) error {
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("openweather %s: status %d: %s", path, resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func coords(lat, lon float64) url.Values {
	return url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon": {strconv.FormatFloat(lon, 'f', -1, 64)},
	}
}

func (c *OpenWeather) Current(ctx context.Context, lat, lon float64) (owCurrent, error) {
	var out owCurrent
	return out, c.get(ctx, "/weather", coords(lat, lon), &out)
}

// Forecast fetches cnt three-hour slots.
func (c *OpenWeather) Forecast(ctx context.Context, lat, lon float64, cnt int) (owForecast, error) {
	q := coords(lat, lon)
	q.Set("cnt", strconv.Itoa(cnt))
	var out owForecast
	return out, c.get(ctx, "/forecast", q, &out)
}
