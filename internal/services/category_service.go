package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/farellandr/eventreg/internal/auth"
	"github.com/farellandr/eventreg/internal/models"
)

const categoryNameTaken = "category with this name already exists"

type CategoryInput struct {
	Name        *string
	Description *string
}

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) List(ctx context.Context, search string, page Page) (PageResult[models.Category], error) {
	query := s.db.WithContext(ctx).Model(&models.Category{})
	if search = strings.TrimSpace(search); search != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", likePattern(search))
	}

	result, err := paginate[models.Category](query, page, "id ASC")
	if err != nil {
		return result, fmt.Errorf("list categories: %w", err)
	}
	return result, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) Create(ctx context.Context, actor *auth.Actor, in CategoryInput) (*models.Category, error) {
	if err := requirePrivileged(actor); err != nil {
		return nil, err
	}

	category := models.Category{}
	if in.Name == nil {
		return nil, newValidationError("nombre", "this field is required")
	}
	applyCategoryInput(&category, in)
	if err := s.validate(ctx, &category); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newValidationError("nombre", categoryNameTaken)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) Update(ctx context.Context, actor *auth.Actor, id uint, in CategoryInput) (*models.Category, error) {
	if err := requirePrivileged(actor); err != nil {
		return nil, err
	}

	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyCategoryInput(category, in)
	if err := s.validate(ctx, category); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newValidationError("nombre", categoryNameTaken)
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// Delete removes the category; its events and their participants go with it
// through the foreign key cascade.
func (s *CategoryService) Delete(ctx context.Context, actor *auth.Actor, id uint) error {
	if err := requirePrivileged(actor); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Delete(&models.Category{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func applyCategoryInput(category *models.Category, in CategoryInput) {
	if in.Name != nil {
		category.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		category.Description = in.Description
	}
}

func (s *CategoryService) validate(ctx context.Context, category *models.Category) error {
	verr := &ValidationError{}
	checkText(verr, "nombre", category.Name, 100, true)
	if !verr.empty() {
		return verr
	}

	var taken int64
	err := s.db.WithContext(ctx).Model(&models.Category{}).
		Where("name = ? AND id <> ?", category.Name, category.ID).
		Count(&taken).Error
	if err != nil {
		return fmt.Errorf("check category name: %w", err)
	}
	if taken > 0 {
		return newValidationError("nombre", categoryNameTaken)
	}
	return nil
}

func likePattern(search string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(search))
	return "%" + escaped + "%"
}
