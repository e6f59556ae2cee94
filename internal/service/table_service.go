package service

import (
	"context"
	"fmt"

	"github.com/Eursukkul/restaurant-booking/internal/models"
	"github.com/Eursukkul/restaurant-booking/internal/repository"
)

type TableService interface {
	ListTables(ctx context.Context) ([]models.Table, error)
}

type tableService struct {
	repo repository.TableRepository
}

func NewTableService(repo repository.TableRepository) TableService {
	return &tableService{repo: repo}
}

func (s *tableService) ListTables(ctx context.Context) ([]models.Table, error) {
	tables, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}
