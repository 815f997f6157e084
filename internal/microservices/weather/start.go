package weather

import (
	"cafesync/internal/config"
	"cafesync/internal/microservices/weather/handlers"
	"cafesync/internal/microservices/weather/service"
)

// Init serves mock data unless a real OpenWeather key is configured.
func Init(cfg config.WeatherConfig) (*service.Service, *handlers.Handler) {
	svc := service.New(cfg)
	return svc, handlers.New(svc)
}
