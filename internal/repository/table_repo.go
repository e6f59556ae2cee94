package repository

import (
	"context"

	"github.com/Eursukkul/restaurant-booking/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TableRepository interface {
	FindAll(ctx context.Context) ([]models.Table, error)
	FindByID(ctx context.Context, id uint) (*models.Table, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Table, error)
}

type tableRepository struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) FindAll(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := r.db.WithContext(ctx).Order("area ASC, name ASC").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

func (r *tableRepository) FindByID(ctx context.Context, id uint) (*models.Table, error) {
	var table models.Table
	if err := r.db.WithContext(ctx).First(&table, id).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

// FindByIDForUpdate acquires a row-level lock on the table within the given
// transaction. SQLite ignores the locking clause.
func (r *tableRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Table, error) {
	var table models.Table
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&table, id).Error; err != nil {
		return nil, err
	}
	return &table, nil
}
