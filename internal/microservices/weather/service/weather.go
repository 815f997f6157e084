package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"cafesync/internal/common/logger"
	"cafesync/internal/config"
	dto "cafesync/internal/microservices/weather/domain/dto"
)

const (
	cacheTTL        = 10 * time.Minute
	slotsPerDay     = 8
	maxForecastDays = 5
	baseDemand      = 100
	demandConfident = 0.85
	demoKey         = "demo-key"
)

type WeatherServiceInterface interface {
	Current(ctx context.Context, lat, lon *float64) (dto.Current, error)
	Forecast(ctx context.Context, lat, lon *float64, days int) ([]dto.ForecastDay, bool, error)
	Impact(ctx context.Context, condition string, temperature *float64) (dto.ImpactReport, error)
	DemandPrediction(ctx context.Context, days int) (dto.DemandReport, error)
}

type WeatherService struct {
	api      *OpenWeather // nil serves mock data
	lat, lon float64
	cache    *responseCache
	lg       *logger.Logger
	now      func() time.Time
}

func NewWeatherService(cfg config.WeatherConfig) *WeatherService {
	ws := &WeatherService{
		lat: cfg.Lat,
		lon: cfg.Lon,
		lg:  logger.New("weather-service"),
		now: func() time.Time { return time.Now().UTC() },
	}
	if cfg.APIKey != "" && cfg.APIKey != demoKey {
		ws.api = NewOpenWeather(cfg.BaseURL, cfg.APIKey)
	}
	ws.cache = newResponseCache(cacheTTL, func() time.Time { return ws.now() })
	return ws
}

func (ws *WeatherService) point(lat, lon *float64) (float64, float64) {
	la, lo := ws.lat, ws.lon
	if lat != nil {
		la = *lat
	}
	if lon != nil {
		lo = *lon
	}
	return la, lo
}

// mapCondition folds OpenWeather groups into the café's condition names.
func mapCondition(main string) string {
	switch main {
	case "Clear":
		return "sunny"
	case "Clouds":
		return "cloudy"
	case "Rain", "Drizzle":
		return "rainy"
	case "Snow":
		return "snowy"
	case "Thunderstorm":
		return "stormy"
	case "Mist", "Fog":
		return "foggy"
	default:
		return "cloudy"
	}
}

func (ws *WeatherService) mockCurrent() dto.Current {
	return dto.Current{
		Temperature: 22,
		Condition:   "sunny",
		Humidity:    45,
		WindSpeed:   8,
		Description: "Clear sky",
		Timestamp:   ws.now(),
		Mock:        true,
	}
}

// mockForecast starts tomorrow so the dates never go stale.
func (ws *WeatherService) mockForecast(days int) []dto.ForecastDay {
	day := ws.now().AddDate(0, 0, 1)
	fixed := []dto.ForecastDay{
		{High: 25, Low: 18, Condition: "partly_cloudy", Precipitation: 20},
		{High: 23, Low: 16, Condition: "rainy", Precipitation: 80},
		{High: 20, Low: 14, Condition: "cloudy", Precipitation: 40},
	}
	if days < len(fixed) {
		fixed = fixed[:days]
	}
	for i := range fixed {
		fixed[i].Date = day.AddDate(0, 0, i).Format(time.DateOnly)
	}
	return fixed
}

func (ws *WeatherService) Current(ctx context.Context, lat, lon *float64) (dto.Current, error) {
	if ws.api == nil {
		return ws.mockCurrent(), nil
	}
	la, lo := ws.point(lat, lon)
	key := fmt.Sprintf("current:%g:%g", la, lo)
	if v, ok := ws.cache.get(key); ok {
		return v.(dto.Current), nil
	}
	raw, err := ws.api.Current(ctx, la, lo)
	if err != nil {
		ws.lg.Warn("weather_upstream_failed", map[string]any{"endpoint": "current", "error": err.Error()})
		return ws.mockCurrent(), nil
	}
	out := dto.Current{
		Temperature: math.Round(raw.Main.Temp),
		Condition:   "cloudy",
		Humidity:    raw.Main.Humidity,
		WindSpeed:   raw.Wind.Speed,
		Location:    raw.Name,
		Timestamp:   ws.now(),
	}
	if len(raw.Weather) > 0 {
		out.Condition = mapCondition(raw.Weather[0].Main)
		out.Description = raw.Weather[0].Description
	}
	ws.cache.put(key, out)
	return out, nil
}

func clampDays(days int) int {
	if days <= 0 {
		return maxForecastDays
	}
	return min(days, maxForecastDays)
}

// Forecast returns one entry per calendar day. The bool reports mock data.
func (ws *WeatherService) Forecast(ctx context.Context, lat, lon *float64, days int) ([]dto.ForecastDay, bool, error) {
	days = clampDays(days)
	if ws.api == nil {
		return ws.mockForecast(days), true, nil
	}
	la, lo := ws.point(lat, lon)
	key := fmt.Sprintf("forecast:%g:%g:%d", la, lo, days)
	if v, ok := ws.cache.get(key); ok {
		return v.([]dto.ForecastDay), false, nil
	}
	raw, err := ws.api.Forecast(ctx, la, lo, days*slotsPerDay)
	if err != nil {
		ws.lg.Warn("weather_upstream_failed", map[string]any{"endpoint": "forecast", "error": err.Error()})
		return ws.mockForecast(days), true, nil
	}
	out := dailyForecast(raw.List)
	ws.cache.put(key, out)
	return out, false, nil
}

// dailyForecast folds three-hour slots into days: extremes for temperature,
// the most frequent condition, the highest chance of rain.
func dailyForecast(slots []owSlot) []dto.ForecastDay {
	type acc struct {
		temps      []float64
		conditions map[string]int
		order      []string
		pop        float64
		humidity   int
		wind       float64
	}
	var dates []string
	byDate := make(map[string]*acc)
	for _, s := range slots {
		date := time.Unix(s.Dt, 0).UTC().Format(time.DateOnly)
		a, ok := byDate[date]
		if !ok {
			a = &acc{conditions: make(map[string]int)}
			byDate[date] = a
			dates = append(dates, date)
		}
		a.temps = append(a.temps, s.Main.Temp)
		a.humidity += s.Main.Humidity
		a.wind += s.Wind.Speed
		a.pop = math.Max(a.pop, s.Pop)
		cond := "cloudy"
		if len(s.Weather) > 0 {
			cond = mapCondition(s.Weather[0].Main)
		}
		if a.conditions[cond] == 0 {
			a.order = append(a.order, cond)
		}
		a.conditions[cond]++
	}

	out := make([]dto.ForecastDay, 0, len(dates))
	for _, date := range dates {
		a := byDate[date]
		hi, lo := a.temps[0], a.temps[0]
		for _, t := range a.temps[1:] {
			hi, lo = math.Max(hi, t), math.Min(lo, t)
		}
		best := a.order[0]
		for _, c := range a.order[1:] {
			if a.conditions[c] > a.conditions[best] {
				best = c
			}
		}
		n := float64(len(a.temps))
		out = append(out, dto.ForecastDay{
			Date:          date,
			High:          math.Round(hi),
			Low:           math.Round(lo),
			Condition:     best,
			Precipitation: int(math.Round(a.pop * 100)),
			Humidity:      int(math.Round(float64(a.humidity) / n)),
			WindSpeed:     math.Round(a.wind / n),
		})
	}
	return out
}

var impactTable = map[string]dto.Impact{
	"sunny": {HotDrinks: -0.15, ColdDrinks: 0.25, Pastries: 0.10, Overall: 0.05},
	"rainy": {HotDrinks: 0.20, ColdDrinks: -0.10, Pastries: 0.15, Overall: 0.08},
	"cold":  {HotDrinks: 0.30, ColdDrinks: -0.20, Pastries: 0.20, Overall: 0.12},
	"hot":   {HotDrinks: -0.25, ColdDrinks: 0.35, Pastries: -0.05, Overall: 0.03},
}

// impactKey lets temperature extremes override the sky condition. Anything
// outside the table is treated as sunny.
func impactKey(condition string, temperature *float64) string {
	if temperature != nil {
		switch {
		case *temperature >= 30:
			return "hot"
		case *temperature <= 10:
			return "cold"
		}
	}
	if _, ok := impactTable[condition]; ok {
		return condition
	}
	return "sunny"
}

func recommendations(i dto.Impact) []string {
	out := []string{}
	if i.HotDrinks > 0.1 {
		out = append(out, "Increase hot drink inventory and staff")
	}
	if i.ColdDrinks > 0.1 {
		out = append(out, "Prepare additional cold drink ingredients")
	}
	if i.Pastries > 0.1 {
		out = append(out, "Increase pastry production for higher demand")
	}
	if i.Overall > 0.05 {
		out = append(out, "Consider additional staff for expected high demand")
	}
	return out
}

// Impact estimates sales shifts. Without a condition the current weather
// at the configured location is used.
func (ws *WeatherService) Impact(ctx context.Context, condition string, temperature *float64) (dto.ImpactReport, error) {
	if condition == "" {
		cur, err := ws.Current(ctx, nil, nil)
		if err != nil {
			return dto.ImpactReport{}, err
		}
		condition = cur.Condition
		if temperature == nil {
			t := cur.Temperature
			temperature = &t
		}
	}
	impact := impactTable[impactKey(condition, temperature)]
	return dto.ImpactReport{
		CurrentCondition: condition,
		Temperature:      temperature,
		Impact:           impact,
		Recommendations:  recommendations(impact),
	}, nil
}

var demandMultiplier = map[string]float64{
	"sunny":  1.1,
	"rainy":  1.2,
	"cloudy": 1.0,
	"cold":   1.15,
	"hot":    1.05,
}

// DemandPrediction scales a base demand of 100 units per forecast day.
func (ws *WeatherService) DemandPrediction(ctx context.Context, days int) (dto.DemandReport, error) {
	forecast, _, err := ws.Forecast(ctx, nil, nil, days)
	if err != nil {
		return dto.DemandReport{}, err
	}
	out := dto.DemandReport{Predictions: make([]dto.Prediction, 0, len(forecast))}
	total := 0
	for _, day := range forecast {
		m, ok := demandMultiplier[day.Condition]
		if !ok {
			m = 1.0
		}
		switch {
		case day.High > 30:
			m *= 1.1
		case day.High < 10:
			m *= 1.2
		}
		p := dto.Prediction{
			Date:            day.Date,
			PredictedDemand: int(math.Round(baseDemand * m)),
			Confidence:      demandConfident,
			Factors:         dto.DemandFactors{Weather: day.Condition, Temperature: day.High, Precipitation: day.Precipitation},
		}
		total += p.PredictedDemand
		out.Predictions = append(out.Predictions, p)
	}
	if n := len(out.Predictions); n > 0 {
		out.AverageDemand = int(math.Round(float64(total) / float64(n)))
		peak := out.Predictions[0]
		for _, p := range out.Predictions[1:] {
			if p.PredictedDemand > peak.PredictedDemand {
				peak = p
			}
		}
		out.PeakDay = &peak
	}
	return out, nil
}
