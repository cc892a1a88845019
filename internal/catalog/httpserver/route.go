package httpserver

import "github.com/labstack/echo/v4"

type Deps struct {
	CatalogHandler *CatalogHTTP
	RequireAuth    echo.MiddlewareFunc
	RequireAdmin   echo.MiddlewareFunc
}

func Register(g *echo.Group, d *Deps) {
	h := d.CatalogHandler
	admin := []echo.MiddlewareFunc{d.RequireAuth, d.RequireAdmin}

	categories := g.Group("/categories")
	categories.GET("", h.ListCategories)
	categories.POST("", h.CreateCategory, admin...)
	categories.PUT("/:id", h.UpdateCategory, admin...)
	categories.DELETE("/:id", h.DeleteCategory, admin...)

	galleries := g.Group("/galleries")
	galleries.GET("", h.ListGalleries)
	galleries.GET("/search/:keyword", h.SearchGalleries)
	galleries.POST("", h.CreateGallery, admin...)
	galleries.PUT("/:id", h.UpdateGallery, admin...)
	galleries.DELETE("/:id", h.DeleteGallery, admin...)

	products := g.Group("/products")
	products.GET("", h.GetProducts)
	products.GET("/fulltext", h.FullTextSearch)
	products.GET("/search/:keyword", h.SearchProducts)
	products.GET("/category/:id", h.GetProductsByCategory)
	products.GET("/category-name/:name", h.GetProductsByCategoryName)
	products.GET("/title/:title", h.GetProductsByTitle)
	products.GET("/:id", h.GetProduct)
	products.POST("", h.CreateProduct, admin...)
	products.PUT("/:id", h.UpdateProduct, admin...)
	products.DELETE("/:id", h.DeleteProduct, admin...)
}
