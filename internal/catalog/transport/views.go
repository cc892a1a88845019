package transport

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
)

type GalleryView struct {
	ID         uint     `json:"id_gallery"`
	Name       string   `json:"name"`
	Thumbnails []string `json:"thumbnails"`
}

type ProductView struct {
	ID               uint         `json:"id_product"`
	CategoryID       uint         `json:"id_category"`
	CategoryName     string       `json:"category_name,omitempty"`
	GalleryID        uint         `json:"id_gallery"`
	Gallery          *GalleryView `json:"gallery,omitempty"`
	Title            string       `json:"title"`
	Price            int64        `json:"price"`
	Discount         int          `json:"discount"`
	EffectivePrice   int64        `json:"effective_price"`
	Size             string       `json:"size"`
	Description      string       `json:"description"`
	DescriptionLines []string     `json:"description_lines"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

func NewGalleryView(g *models.Gallery) GalleryView {
	return GalleryView{ID: g.ID, Name: g.Name, Thumbnails: g.Thumbnails.List()}
}

func NewGalleryViews(gs []models.Gallery) []GalleryView {
	return lo.Map(gs, func(g models.Gallery, _ int) GalleryView { return NewGalleryView(&g) })
}

func NewProductView(p *models.Product) ProductView {
	v := ProductView{
		ID:               p.ID,
		CategoryID:       p.CategoryID,
		GalleryID:        p.GalleryID,
		Title:            p.Title,
		Price:            p.Price,
		Discount:         p.Discount,
		Size:             p.Size,
		Description:      p.Description,
		DescriptionLines: DescriptionLines(p.Description),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if eff, err := domain.EffectivePrice(p.Price, p.Discount); err == nil {
		v.EffectivePrice = eff
	}
	if p.Category != nil {
		v.CategoryName = p.Category.Name
	}
	if p.Gallery != nil {
		g := NewGalleryView(p.Gallery)
		v.Gallery = &g
	}
	return v
}

func NewProductViews(ps []models.Product) []ProductView {
	return lo.Map(ps, func(p models.Product, _ int) ProductView { return NewProductView(&p) })
}

// DescriptionLines splits a description into its sentences.
func DescriptionLines(description string) []string {
	parts := strings.Split(description, ". ")
	return lo.FilterMap(parts, func(s string, _ int) (string, bool) {
		s = strings.TrimSpace(s)
		return s, s != ""
	})
}
