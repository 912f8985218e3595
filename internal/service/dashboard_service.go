package service

import (
	"go-order-api/internal/errx"
	"go-order-api/internal/repository"
)

type DashboardService interface {
	GetCatalogStats() (*repository.CatalogStats, error)
}

type dashboardService struct {
	productRepo       repository.ProductRepository
	lowStockThreshold int
}

func NewDashboardService(productRepo repository.ProductRepository, lowStockThreshold int) DashboardService {
	return &dashboardService{productRepo: productRepo, lowStockThreshold: lowStockThreshold}
}

func (s *dashboardService) GetCatalogStats() (*repository.CatalogStats, error) {
	stats, err := s.productRepo.Stats(s.lowStockThreshold)
	if err != nil {
		return nil, errx.Internal(err, "catalog stats")
	}
	return stats, nil
}
