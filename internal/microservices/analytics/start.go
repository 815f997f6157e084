package analytics

import (
	"cafesync/internal/microservices/analytics/handlers"
	"cafesync/internal/microservices/analytics/service"
)

func Init(orders service.OrderSource, stock service.StockSource) (*service.Service, *handlers.Handler) {
	svc := service.New(orders, stock)
	return svc, handlers.New(svc)
}
