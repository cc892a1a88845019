package transport

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type CreateGalleryRequest struct {
	Name       string   `json:"name"       validate:"required,max=255"`
	Thumbnails []string `json:"thumbnails" validate:"required,min=1,dive,url"`
}

type UpdateGalleryRequest struct {
	Name       *string  `json:"name"       validate:"omitempty,min=1,max=255"`
	Thumbnails []string `json:"thumbnails" validate:"omitempty,min=1,dive,url"`
}

type ProductRequest struct {
	CategoryID  uint   `json:"id_category" validate:"required"`
	GalleryID   uint   `json:"id_gallery"  validate:"required"`
	Title       string `json:"title"       validate:"required,max=150"`
	Price       int64  `json:"price"       validate:"required,gt=0"`
	Discount    int    `json:"discount"    validate:"gte=0,lte=99"`
	Size        string `json:"size"        validate:"required,max=20"`
	Description string `json:"description" validate:"required"`
}
