// Package product содержит бизнес-логику каталога товаров и кеширование карточек.
package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/storage/repository"
)

const cacheTTL = time.Hour

var (
	// ErrNotFound товар не найден.
	ErrNotFound = errors.New("product not found")
	// ErrSlugTaken slug уже занят другим товаром.
	ErrSlugTaken = errors.New("product with this slug already exists")
	// ErrEmptySlug из названия не удалось получить slug.
	ErrEmptySlug = errors.New("product slug is required")
)

// Repository определяет методы для работы с товарами в хранилище.
type Repository interface {
	// CreateProduct сохраняет новый товар.
	CreateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	// GetProduct ищет товар по slug или числовому id.
	GetProduct(ctx context.Context, key string) (*models.Product, error)
	// ListProducts возвращает товары по фильтру.
	ListProducts(ctx context.Context, f models.ProductFilter) ([]*models.Product, error)
	// UpdateProduct сохраняет товар целиком.
	UpdateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	// DeleteProduct удаляет товар по id.
	DeleteProduct(ctx context.Context, id int64) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значения из кеша по ключам.
	Invalidate(ctx context.Context, keys ...string) error
}

// Service реализует работу с каталогом, включая кеширование карточек.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// List возвращает товары каталога. Неактивные товары видны только при IncludeInactive.
func (s *Service) List(ctx context.Context, f models.ProductFilter) ([]*models.Product, error) {
	const op = "product.List"
	if f.Category == "all" {
		f.Category = ""
	}
	products, err := s.repo.ListProducts(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

// Get возвращает товар по slug или id, используя кеш или репозиторий.
func (s *Service) Get(ctx context.Context, key string) (*models.Product, error) {
	const op = "product.Get"
	var result *models.Product
	cacheKey := productKey(key)
	found, err := s.cache.Get(ctx, cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found && result != nil {
		return result, nil
	}

	result, err = s.repo.GetProduct(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(ctx, cacheKey, result, cacheTTL); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// Create сохраняет товар. Пустой slug выводится из названия.
func (s *Service) Create(ctx context.Context, p models.Product) (*models.Product, error) {
	const op = "product.Create"
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	if p.Slug == "" {
		return nil, ErrEmptySlug
	}
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	if p.Features == nil {
		p.Features = []string{}
	}

	created, err := s.repo.CreateProduct(ctx, p)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new product", slog.Int64("id", created.ID), slog.String("slug", created.Slug))
	return created, nil
}

// Update применяет частичное изменение к товару и сбрасывает его кеш.
func (s *Service) Update(ctx context.Context, key string, patch models.ProductPatch) (*models.Product, error) {
	const op = "product.Update"
	current, err := s.repo.GetProduct(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	oldSlug := current.Slug

	patch.Apply(current)
	if current.Slug == "" {
		return nil, ErrEmptySlug
	}
	updated, err := s.repo.UpdateProduct(ctx, *current)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyExists):
			return nil, ErrSlugTaken
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx, key, oldSlug, updated.Slug, strconv.FormatInt(updated.ID, 10))
	return updated, nil
}

// Delete удаляет товар по slug или id и сбрасывает его кеш.
func (s *Service) Delete(ctx context.Context, key string) error {
	const op = "product.Delete"
	current, err := s.repo.GetProduct(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.DeleteProduct(ctx, current.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx, key, current.Slug, strconv.FormatInt(current.ID, 10))
	s.log.Info("product deleted", slog.Int64("id", current.ID))
	return nil
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	cacheKeys := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok || k == "" {
			continue
		}
		seen[k] = struct{}{}
		cacheKeys = append(cacheKeys, productKey(k))
	}
	if err := s.cache.Invalidate(ctx, cacheKeys...); err != nil {
		s.log.Warn("failed to remove from cache", slog.Any("keys", cacheKeys), sl.Err(err))
	}
}

func productKey(key string) string {
	return "product:" + key
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify приводит название к виду a-z0-9 через дефис.
func Slugify(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}
