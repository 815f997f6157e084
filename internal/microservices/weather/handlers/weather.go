package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cafesync/internal/common/httpx"
	"cafesync/internal/domain"
	"cafesync/internal/microservices/weather/service"
)

const mockMessage = "Using mock weather data"

type WeatherHandler struct {
	service service.WeatherServiceInterface
}

func NewWeatherHandler(s service.WeatherServiceInterface) *WeatherHandler {
	return &WeatherHandler{service: s}
}

type Handler struct {
	WeatherHandler *WeatherHandler
}

func New(s *service.Service) *Handler {
	return &Handler{WeatherHandler: NewWeatherHandler(s.WeatherService)}
}

func (h *Handler) Routes(r chi.Router) {
	wh := h.WeatherHandler
	r.Get("/current", wh.Current)
	r.Get("/forecast", wh.Forecast)
	r.Get("/impact", wh.Impact)
	r.Get("/demand-prediction", wh.DemandPrediction)
}

// floatParam returns nil for an absent parameter.
func floatParam(r *http.Request, key string) (*float64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, domain.Invalid(key + " must be a number")
	}
	return &f, nil
}

func coords(r *http.Request) (lat, lon *float64, err error) {
	if lat, err = floatParam(r, "lat"); err != nil {
		return nil, nil, err
	}
	lon, err = floatParam(r, "lon")
	return lat, lon, err
}

func (wh *WeatherHandler) Current(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := coords(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	cur, err := wh.service.Current(r.Context(), lat, lon)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, cur)
}

func (wh *WeatherHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := coords(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	days, mock, err := wh.service.Forecast(r.Context(), lat, lon, httpx.AtoiDefault(r.URL.Query().Get("days"), 5))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if mock {
		httpx.Message(w, days, mockMessage)
		return
	}
	httpx.OK(w, days)
}

func (wh *WeatherHandler) Impact(w http.ResponseWriter, r *http.Request) {
	temp, err := floatParam(r, "temperature")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	rep, err := wh.service.Impact(r.Context(), r.URL.Query().Get("condition"), temp)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, rep)
}

func (wh *WeatherHandler) DemandPrediction(w http.ResponseWriter, r *http.Request) {
	rep, err := wh.service.DemandPrediction(r.Context(), httpx.AtoiDefault(r.URL.Query().Get("days"), 7))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, rep)
}
