package service

type Service struct {
	AnalyticsService *AnalyticsService
}

func New(orders OrderSource, stock StockSource) *Service {
	return &Service{AnalyticsService: NewAnalyticsService(orders, stock)}
}
