package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Eursukkul/restaurant-booking/internal/events"
	"github.com/Eursukkul/restaurant-booking/internal/models"
	"github.com/Eursukkul/restaurant-booking/internal/repository"
	"github.com/sirupsen/logrus"
)

type CreateMenuItemInput struct {
	Name        string
	Description string
	Price       *float64
	Category    models.MenuCategory
}

// MenuItemPatch holds the fields of a merge-patch update. Nil fields keep
// their stored value.
type MenuItemPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *models.MenuCategory
	IsAvailable *bool
}

type MenuService interface {
	ListMenu(ctx context.Context) ([]models.MenuItem, error)
	CreateMenuItem(ctx context.Context, in CreateMenuItemInput) (*models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id uint, patch MenuItemPatch) (int64, error)
	DeleteMenuItem(ctx context.Context, id uint) (int64, error)
}

type menuService struct {
	repo      repository.MenuRepository
	publisher events.Publisher
	log       *logrus.Logger
}

func NewMenuService(repo repository.MenuRepository, publisher events.Publisher, log *logrus.Logger) MenuService {
	return &menuService{repo: repo, publisher: publisher, log: log}
}

func (s *menuService) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	return items, nil
}

func (s *menuService) CreateMenuItem(ctx context.Context, in CreateMenuItemInput) (*models.MenuItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Price == nil || in.Category == "" {
		return nil, validationErrorf("name, price and category are required")
	}
	if *in.Price < 0 {
		return nil, validationErrorf("price must not be negative")
	}
	if !in.Category.Valid() {
		return nil, validationErrorf("unknown category %q", in.Category)
	}

	item := &models.MenuItem{
		Name:        name,
		Description: in.Description,
		Price:       *in.Price,
		Category:    in.Category,
		IsAvailable: true,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}

	s.publish(ctx, events.MenuCreated, item.ID, nil)
	return item, nil
}

func (s *menuService) UpdateMenuItem(ctx context.Context, id uint, patch MenuItemPatch) (int64, error) {
	fields, err := patch.columns()
	if err != nil {
		return 0, err
	}

	changes, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return 0, fmt.Errorf("update menu item %d: %w", id, err)
	}
	if changes == 0 {
		return 0, ErrMenuItemNotFound
	}

	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	s.publish(ctx, events.MenuUpdated, id, names)
	return changes, nil
}

func (s *menuService) DeleteMenuItem(ctx context.Context, id uint) (int64, error) {
	changes, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete menu item %d: %w", id, err)
	}
	if changes == 0 {
		return 0, ErrMenuItemNotFound
	}

	s.publish(ctx, events.MenuDeleted, id, nil)
	return changes, nil
}

func (p MenuItemPatch) columns() (map[string]any, error) {
	fields := make(map[string]any)
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, validationErrorf("name must not be empty")
		}
		fields["name"] = name
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Price != nil {
		if *p.Price < 0 {
			return nil, validationErrorf("price must not be negative")
		}
		fields["price"] = *p.Price
	}
	if p.Category != nil {
		if !p.Category.Valid() {
			return nil, validationErrorf("unknown category %q", *p.Category)
		}
		fields["category"] = *p.Category
	}
	if p.IsAvailable != nil {
		fields["is_available"] = *p.IsAvailable
	}
	return fields, nil
}

func (s *menuService) publish(ctx context.Context, key string, id uint, fields []string) {
	if s.publisher == nil {
		return
	}
	evt := events.MenuEvent{MenuItemID: id, Fields: fields, OccurredAt: time.Now().UTC()}
	if err := s.publisher.Publish(ctx, key, evt); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"routing_key": key, "menu_item_id": id}).
			Warn("failed to publish menu event")
	}
}
