package repository

import (
	"context"

	"github.com/Eursukkul/restaurant-booking/internal/models"
	"gorm.io/gorm"
)

type MenuRepository interface {
	FindAll(ctx context.Context) ([]models.MenuItem, error)
	FindByID(ctx context.Context, id uint) (*models.MenuItem, error)
	Create(ctx context.Context, item *models.MenuItem) error
	// Update applies only the given columns and reports the matched row count.
	Update(ctx context.Context, id uint, fields map[string]any) (int64, error)
	// Delete soft-deletes the item and reports the affected row count.
	Delete(ctx context.Context, id uint) (int64, error)
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) FindAll(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.db.WithContext(ctx).Order("category ASC, name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *menuRepository) FindByID(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *menuRepository) Update(ctx context.Context, id uint, fields map[string]any) (int64, error) {
	if len(fields) == 0 {
		var count int64
		err := r.db.WithContext(ctx).Model(&models.MenuItem{}).Where("id = ?", id).Count(&count).Error
		return count, err
	}

	result := r.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("id = ?", id).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *menuRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.MenuItem{}, id)
	return result.RowsAffected, result.Error
}
