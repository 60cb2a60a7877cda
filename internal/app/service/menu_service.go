package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"cocoa_backend/internal/common"
	"cocoa_backend/internal/domain/model"
	"cocoa_backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var errMenuItemNotFound = common.NewError(common.ErrNotFound, "Menu item not found")

type MenuService struct {
	menuRepo repository.MenuRepository
	now      func() time.Time
}

func NewMenuService(menuRepo repository.MenuRepository) *MenuService {
	return &MenuService{menuRepo: menuRepo, now: time.Now}
}

// CreateMenuItemRequest uses pointers so a missing field can be told apart
// from a zero value.
type CreateMenuItemRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	ImageURL    *string  `json:"image_url"`
	Ingredients []string `json:"ingredients"`
	Calories    *int     `json:"calories"`
	Available   *bool    `json:"available"`
}

type UpdateMenuItemRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	ImageURL    *string  `json:"image_url"`
	Ingredients []string `json:"ingredients"`
	Calories    *int     `json:"calories"`
	Available   *bool    `json:"available"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

func validatePrice(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		return common.NewError(common.ErrValidation, "price must be a positive number")
	}
	return nil
}

func requireString(field string, v *string) (string, error) {
	if v == nil {
		return "", common.NewError(common.ErrValidation, field+" is required")
	}
	return strings.TrimSpace(*v), nil
}

func (s *MenuService) CreateMenuItem(ctx context.Context, req CreateMenuItemRequest) (*model.MenuItem, error) {
	name, err := requireString("name", req.Name)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, common.NewError(common.ErrValidation, "name must not be empty")
	}
	description, err := requireString("description", req.Description)
	if err != nil {
		return nil, err
	}
	category, err := requireString("category", req.Category)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return nil, common.NewError(common.ErrValidation, "category must not be empty")
	}
	imageURL, err := requireString("image_url", req.ImageURL)
	if err != nil {
		return nil, err
	}
	if req.Price == nil {
		return nil, common.NewError(common.ErrValidation, "price is required")
	}
	if err := validatePrice(*req.Price); err != nil {
		return nil, err
	}
	if req.Ingredients == nil {
		return nil, common.NewError(common.ErrValidation, "ingredients is required")
	}
	if req.Calories == nil {
		return nil, common.NewError(common.ErrValidation, "calories is required")
	}
	if *req.Calories < 0 {
		return nil, common.NewError(common.ErrValidation, "calories must not be negative")
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	itemSlug, err := s.uniqueSlug(ctx, name, "")
	if err != nil {
		return nil, err
	}

	item := &model.MenuItem{
		ID:          uuid.NewString(),
		Slug:        itemSlug,
		Name:        name,
		Description: description,
		Price:       *req.Price,
		Category:    category,
		ImageURL:    imageURL,
		Ingredients: req.Ingredients,
		Calories:    *req.Calories,
		Available:   available,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.menuRepo.Create(ctx, item); err != nil {
		if errors.Is(err, repository.ErrSlugTaken) {
			return nil, repository.ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}
	return item, nil
}

const maxSlugSuffix = 50

// uniqueSlug derives a slug from name and appends -2, -3, ... until no other
// item holds it. selfID is the item being renamed, if any.
func (s *MenuService) uniqueSlug(ctx context.Context, name, selfID string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "item"
	}
	candidate := base
	for i := 2; i <= maxSlugSuffix; i++ {
		existing, err := s.menuRepo.FindBySlug(ctx, candidate)
		if errors.Is(err, common.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if existing.ID == selfID {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return base + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8], nil
}

func (s *MenuService) UpdateMenuItem(ctx context.Context, id string, req UpdateMenuItemRequest) (*model.MenuItem, error) {
	patch := model.MenuItemPatch{
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Ingredients: req.Ingredients,
		Available:   req.Available,
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, common.NewError(common.ErrValidation, "name must not be empty")
		}
		itemSlug, err := s.uniqueSlug(ctx, name, id)
		if err != nil {
			return nil, err
		}
		patch.Name, patch.Slug = &name, &itemSlug
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return nil, common.NewError(common.ErrValidation, "category must not be empty")
		}
		patch.Category = &category
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return nil, err
		}
		patch.Price = req.Price
	}
	if req.Calories != nil {
		if *req.Calories < 0 {
			return nil, common.NewError(common.ErrValidation, "calories must not be negative")
		}
		patch.Calories = req.Calories
	}

	item, err := s.menuRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errMenuItemNotFound
		}
		if errors.Is(err, repository.ErrSlugTaken) {
			return nil, repository.ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	return item, nil
}

func (s *MenuService) DeleteMenuItem(ctx context.Context, id string) error {
	if err := s.menuRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errMenuItemNotFound
		}
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	return nil
}

// ListAvailable returns the public menu, optionally narrowed to one category.
func (s *MenuService) ListAvailable(ctx context.Context, category string) ([]model.MenuItem, error) {
	items, err := s.menuRepo.List(ctx, model.MenuFilter{Category: category, AvailableOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	return items, nil
}

// GetAvailable looks an item up by id, then by slug. Unavailable items are hidden.
func (s *MenuService) GetAvailable(ctx context.Context, idOrSlug string) (*model.MenuItem, error) {
	item, err := s.menuRepo.FindByID(ctx, idOrSlug)
	if errors.Is(err, common.ErrNotFound) {
		item, err = s.menuRepo.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	if !item.Available {
		return nil, errMenuItemNotFound
	}
	return item, nil
}

func (s *MenuService) Categories(ctx context.Context) (*CategoriesResponse, error) {
	categories, err := s.menuRepo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return &CategoriesResponse{Categories: categories}, nil
}
