package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"cafesync/internal/common/logger"
	"cafesync/internal/common/validate"
	"cafesync/internal/domain"
	dto "cafesync/internal/microservices/menu/domain/dto"
	"cafesync/internal/microservices/menu/repository"
)

const (
	defaultPrepTime = 5
	cacheTTL        = 10 * time.Minute
)

type MenuServiceInterface interface {
	List(ctx context.Context, f domain.MenuFilter) ([]domain.MenuItem, error)
	Get(ctx context.Context, id int) (domain.MenuItem, error)
	Create(ctx context.Context, req dto.CreateMenuItemRequest) (domain.MenuItem, error)
	Update(ctx context.Context, patch domain.MenuPatch) (domain.MenuItem, error)
	Delete(ctx context.Context, id int) error
	Categories(ctx context.Context) ([]string, error)
	BulkUpdate(ctx context.Context, req dto.BulkUpdateRequest) ([]domain.MenuItem, error)
	Seed(ctx context.Context) error
}

type MenuService struct {
	db    repository.MenuRepositoryInterface
	cache *menuCache
	lg    *logger.Logger
	now   func() time.Time
}

func NewMenuService(db repository.MenuRepositoryInterface) *MenuService {
	return &MenuService{
		db:    db,
		cache: newMenuCache(cacheTTL, db.List),
		lg:    logger.New("menu-service"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (ms *MenuService) Seed(ctx context.Context) error {
	defer ms.cache.Invalidate()
	return ms.db.Seed(ctx, seedMenu(ms.now()))
}

func (ms *MenuService) List(ctx context.Context, f domain.MenuFilter) ([]domain.MenuItem, error) {
	all, err := ms.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.MenuItem, 0, len(all))
	for _, m := range all {
		if f.Matches(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (ms *MenuService) Get(ctx context.Context, id int) (domain.MenuItem, error) {
	return ms.db.Get(ctx, id)
}

func (ms *MenuService) Create(ctx context.Context, req dto.CreateMenuItemRequest) (domain.MenuItem, error) {
	req.Name, req.Category = strings.TrimSpace(req.Name), strings.TrimSpace(req.Category)
	if err := validate.Struct(req, "Name, price, and category are required"); err != nil {
		return domain.MenuItem{}, err
	}
	now := ms.now()
	item := domain.MenuItem{
		Name:            req.Name,
		Price:           *req.Price,
		Category:        req.Category,
		Description:     strings.TrimSpace(req.Description),
		ImageURL:        req.ImageURL,
		IsAvailable:     req.IsAvailable == nil || *req.IsAvailable,
		PreparationTime: req.PreparationTime,
		Ingredients:     nonNil(req.Ingredients),
		Allergens:       nonNil(req.Allergens),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if item.PreparationTime == 0 {
		item.PreparationTime = defaultPrepTime
	}
	item, err := ms.db.Create(ctx, item)
	if err != nil {
		return domain.MenuItem{}, err
	}
	ms.cache.Invalidate()
	ms.lg.Info("menu_item_created", map[string]any{"menu_id": item.ID, "name": item.Name})
	return item, nil
}

func (ms *MenuService) Update(ctx context.Context, patch domain.MenuPatch) (domain.MenuItem, error) {
	if err := validate.Struct(patch, ""); err != nil {
		return domain.MenuItem{}, err
	}
	item, err := ms.db.Update(ctx, patch.ID, func(m domain.MenuItem) domain.MenuItem {
		m = patch.Apply(m)
		m.UpdatedAt = ms.now()
		return m
	})
	if err != nil {
		return domain.MenuItem{}, err
	}
	ms.cache.Invalidate()
	ms.lg.Info("menu_item_updated", map[string]any{"menu_id": item.ID})
	return item, nil
}

func (ms *MenuService) Delete(ctx context.Context, id int) error {
	if err := ms.db.Delete(ctx, id); err != nil {
		return err
	}
	ms.cache.Invalidate()
	ms.lg.Info("menu_item_deleted", map[string]any{"menu_id": id})
	return nil
}

func (ms *MenuService) Categories(ctx context.Context) ([]string, error) {
	all, err := ms.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := []string{}
	for _, m := range all {
		if _, ok := seen[m.Category]; !ok {
			seen[m.Category] = struct{}{}
			out = append(out, m.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

// BulkUpdate applies each patch in turn. Unknown ids are skipped.
func (ms *MenuService) BulkUpdate(ctx context.Context, req dto.BulkUpdateRequest) ([]domain.MenuItem, error) {
	if req.Updates == nil {
		return nil, domain.Invalid("Updates must be an array")
	}
	if err := validate.Struct(req, ""); err != nil {
		return nil, err
	}
	defer ms.cache.Invalidate()
	updated := []domain.MenuItem{}
	for _, p := range req.Updates {
		item, err := ms.db.Update(ctx, p.ID, func(m domain.MenuItem) domain.MenuItem {
			m = p.Apply(m)
			m.UpdatedAt = ms.now()
			return m
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return updated, fmt.Errorf("bulk update stopped at %d: %w", p.ID, err)
		}
		updated = append(updated, item)
	}
	return updated, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
