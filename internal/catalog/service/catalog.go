package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/storefront/internal/access"
	"github.com/Skotchmaster/storefront/internal/catalog/repo"
	"github.com/Skotchmaster/storefront/internal/catalog/transport"
	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/pagination"
	"github.com/Skotchmaster/storefront/internal/search"
)

type CatalogService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	// Index is nil when full-text search is not configured.
	Index search.Index
}

func requireName(name, what string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: %s name is required", domain.ErrValidation, what)
	}
	return name, nil
}

// Categories

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, caller access.Caller, req transport.CategoryRequest) (*models.Category, error) {
	if err := access.IsAdmin(caller); err != nil {
		return nil, err
	}
	name, err := requireName(req.Name, "category")
	if err != nil {
		return nil, err
	}
	cat := &models.Category{Name: name}
	if err := s.Repo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, caller access.Caller, id uint, req transport.CategoryRequest) (*models.Category, error) {
	if err := access.IsAdmin(caller); err != nil {
		return nil, err
	}
	name, err := requireName(req.Name, "category")
	if err != nil {
		return nil, err
	}
	return s.Repo.RenameCategory(ctx, id, name)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, caller access.Caller, id uint) (*models.Category, error) {
	if err := access.IsAdmin(caller); err != nil {
		return nil, err
	}
	return s.Repo.DeleteCategory(ctx, id)
}

// Galleries

func (s *CatalogService) ListGalleries(ctx context.Context, p pagination.Page) ([]transport.GalleryView, pagination.Meta, error) {
	gals, total, err := s.Repo.ListGalleries(ctx, p)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return transport.NewGalleryViews(gals), p.Meta(total), nil
}

func (s *CatalogService) SearchGalleries(ctx context.Context, keyword string, p pagination.Page) ([]transport.GalleryView, pagination.Meta, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, pagination.Meta{}, fmt.Errorf("%w: keyword is required", domain.ErrValidation)
	}
	gals, total, err := s.Repo.SearchGalleries(ctx, keyword, p)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return transport.NewGalleryViews(gals), p.Meta(total), nil
}

func (s *CatalogService) CreateGallery(ctx context.Context, caller access.Caller, req transport.CreateGalleryRequest) (transport.GalleryView, error) {
	if err := access.IsAdmin(caller); err != nil {
		return transport.GalleryView{}, err
	}
	name, err := requireName(req.Name, "gallery")
	if err != nil {
		return transport.GalleryView{}, err
	}
	if len(req.Thumbnails) == 0 {
		return transport.GalleryView{}, fmt.Errorf("%w: at least one thumbnail is required", domain.ErrValidation)
	}
	gal := &models.Gallery{Name: name, Thumbnails: models.Thumbnails(req.Thumbnails)}
	if err := s.Repo.CreateGallery(ctx, gal); err != nil {
		return transport.GalleryView{}, err
	}
	return transport.NewGalleryView(gal), nil
}

func (s *CatalogService) UpdateGallery(ctx context.Context, caller access.Caller, id uint, req transport.UpdateGalleryRequest) (transport.GalleryView, error) {
	if err := access.IsAdmin(caller); err != nil {
		return transport.GalleryView{}, err
	}
	if req.Name == nil && req.Thumbnails == nil {
		return transport.GalleryView{}, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}
	if req.Name != nil {
		name, err := requireName(*req.Name, "gallery")
		if err != nil {
			return transport.GalleryView{}, err
		}
		req.Name = &name
	}
	var thumbs models.Thumbnails
	if req.Thumbnails != nil {
		thumbs = models.Thumbnails(req.Thumbnails)
	}
	gal, err := s.Repo.UpdateGallery(ctx, id, req.Name, thumbs)
	if err != nil {
		return transport.GalleryView{}, err
	}
	return transport.NewGalleryView(gal), nil
}

func (s *CatalogService) DeleteGallery(ctx context.Context, caller access.Caller, id uint) (transport.GalleryView, error) {
	if err := access.IsAdmin(caller); err != nil {
		return transport.GalleryView{}, err
	}
	gal, err := s.Repo.DeleteGallery(ctx, id)
	if err != nil {
		return transport.GalleryView{}, err
	}
	return transport.NewGalleryView(gal), nil
}

// Products

func (s *CatalogService) ListProducts(ctx context.Context, categoryID *uint, p pagination.Page) ([]transport.ProductView, pagination.Meta, error) {
	return s.list(ctx, repo.ProductFilter{CategoryID: categoryID}, p)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (transport.ProductView, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return transport.ProductView{}, err
	}
	return transport.NewProductView(product), nil
}

func (s *CatalogService) ListByCategoryID(ctx context.Context, categoryID uint, p pagination.Page) ([]transport.ProductView, pagination.Meta, error) {
	if _, err := s.Repo.FindCategory(ctx, categoryID); err != nil {
		return nil, pagination.Meta{}, err
	}
	return s.list(ctx, repo.ProductFilter{CategoryID: &categoryID}, p)
}

func (s *CatalogService) ListByCategoryName(ctx context.Context, name string, p pagination.Page) ([]transport.ProductView, pagination.Meta, error) {
	name, err := requireName(name, "category")
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	cat, err := s.Repo.FindCategoryByName(ctx, name)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return s.list(ctx, repo.ProductFilter{CategoryID: &cat.ID}, p)
}

func (s *CatalogService) ListByTitle(ctx context.Context, title string, p pagination.Page) ([]transport.ProductView, pagination.Meta, error) {
	if strings.TrimSpace(title) == "" {
		return nil, pagination.Meta{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	return s.list(ctx, repo.ProductFilter{Title: title}, p)
}

// Search matches keyword against title, size and description; a numeric
// keyword also matches price or discount exactly.
func (s *CatalogService) Search(ctx context.Context, keyword string, categoryID *uint, p pagination.Page) ([]transport.ProductView, pagination.Meta, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, pagination.Meta{}, fmt.Errorf("%w: keyword is required", domain.ErrValidation)
	}
	return s.list(ctx, repo.ProductFilter{Keyword: keyword, CategoryID: categoryID}, p)
}

// FullText queries the search index and falls back to keyword search when
// no index is configured or the index is unavailable.
func (s *CatalogService) FullText(ctx context.Context, q string, p pagination.Page) ([]transport.ProductView, pagination.Meta, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.fulltext")

	q = strings.TrimSpace(q)
	if q == "" {
		return nil, pagination.Meta{}, fmt.Errorf("%w: q is required", domain.ErrValidation)
	}
	if s.Index == nil {
		return s.Search(ctx, q, nil, p)
	}

	ids, total, err := s.Index.Query(ctx, q, p.Offset(), p.Limit)
	if err != nil {
		l.Warn("search_index_error", "reason", "falling back to keyword search", "error", err)
		return s.Search(ctx, q, nil, p)
	}
	products, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return transport.NewProductViews(products), p.Meta(total), nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, caller access.Caller, req transport.ProductRequest) (transport.ProductView, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_product")

	if err := access.IsAdmin(caller); err != nil {
		return transport.ProductView{}, err
	}
	if err := s.checkProduct(ctx, req); err != nil {
		return transport.ProductView{}, err
	}

	product := &models.Product{}
	applyProduct(product, req)
	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		return transport.ProductView{}, err
	}
	saved, err := s.Repo.GetProduct(ctx, product.ID)
	if err != nil {
		return transport.ProductView{}, err
	}

	s.sync(ctx, l, events.ProductCreated, saved)
	return transport.NewProductView(saved), nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, caller access.Caller, id uint, req transport.ProductRequest) (transport.ProductView, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update_product")

	if err := access.IsAdmin(caller); err != nil {
		return transport.ProductView{}, err
	}
	if err := s.checkProduct(ctx, req); err != nil {
		return transport.ProductView{}, err
	}

	if _, err := s.Repo.UpdateProduct(ctx, id, func(p *models.Product) { applyProduct(p, req) }); err != nil {
		return transport.ProductView{}, err
	}
	saved, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return transport.ProductView{}, err
	}

	s.sync(ctx, l, events.ProductUpdated, saved)
	return transport.NewProductView(saved), nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, caller access.Caller, id uint) (transport.ProductView, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.delete_product")

	if err := access.IsAdmin(caller); err != nil {
		return transport.ProductView{}, err
	}
	product, err := s.Repo.DeleteProduct(ctx, id)
	if err != nil {
		return transport.ProductView{}, err
	}

	s.sync(ctx, l, events.ProductDeleted, product)
	return transport.NewProductView(product), nil
}

func (s *CatalogService) list(ctx context.Context, f repo.ProductFilter, p pagination.Page) ([]transport.ProductView, pagination.Meta, error) {
	products, total, err := s.Repo.ListProducts(ctx, f, p)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return transport.NewProductViews(products), p.Meta(total), nil
}

func (s *CatalogService) checkProduct(ctx context.Context, req transport.ProductRequest) error {
	switch {
	case strings.TrimSpace(req.Title) == "":
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	case strings.TrimSpace(req.Size) == "":
		return fmt.Errorf("%w: size is required", domain.ErrValidation)
	case strings.TrimSpace(req.Description) == "":
		return fmt.Errorf("%w: description is required", domain.ErrValidation)
	case req.Price <= 0:
		return fmt.Errorf("%w: price must be greater than 0", domain.ErrValidation)
	case req.Discount < 0 || req.Discount > domain.MaxDiscount:
		return fmt.Errorf("%w: discount must be between 0 and %d", domain.ErrValidation, domain.MaxDiscount)
	}
	if _, err := s.Repo.FindCategory(ctx, req.CategoryID); err != nil {
		return err
	}
	if _, err := s.Repo.FindGallery(ctx, req.GalleryID); err != nil {
		return err
	}
	return nil
}

func applyProduct(p *models.Product, req transport.ProductRequest) {
	p.CategoryID = req.CategoryID
	p.GalleryID = req.GalleryID
	p.Title = strings.TrimSpace(req.Title)
	p.Price = req.Price
	p.Discount = req.Discount
	p.Size = strings.TrimSpace(req.Size)
	p.Description = strings.TrimSpace(req.Description)
}

// sync publishes the product event and updates the search index. Neither
// failure reaches the caller.
func (s *CatalogService) sync(ctx context.Context, l *slog.Logger, kind string, p *models.Product) {
	if s.Events != nil {
		ev := events.ProductEvent{
			Type:      kind,
			ProductID: p.ID,
			Title:     p.Title,
			Price:     p.Price,
			Discount:  p.Discount,
			At:        time.Now().UTC(),
		}
		if err := s.Events.Publish(ctx, events.TopicProducts, strconv.FormatUint(uint64(p.ID), 10), ev); err != nil {
			l.Warn("publish_error", "topic", events.TopicProducts, "event", kind, "error", err)
		}
	}

	if s.Index == nil {
		return
	}
	var err error
	if kind == events.ProductDeleted {
		err = s.Index.Remove(ctx, p.ID)
	} else {
		err = s.Index.Put(ctx, search.Document{
			ID:          p.ID,
			CategoryID:  p.CategoryID,
			Title:       p.Title,
			Description: p.Description,
			Size:        p.Size,
			Price:       p.Price,
			Discount:    p.Discount,
		})
	}
	if err != nil {
		l.Warn("search_index_error", "event", kind, "product_id", p.ID, "error", err)
	}
}
