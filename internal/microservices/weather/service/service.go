package service

import "cafesync/internal/config"

type Service struct {
	WeatherService *WeatherService
}

func New(cfg config.WeatherConfig) *Service {
	return &Service{WeatherService: NewWeatherService(cfg)}
}
