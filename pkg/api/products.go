package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/evoshop/pkg/catalog"
	"github.com/example/evoshop/pkg/models"
	"github.com/example/evoshop/pkg/repository"
)

func (s *Server) listProducts(c *gin.Context) {
	q := catalog.Query{
		Category:    c.Query("category"),
		Gender:      c.Query("gender"),
		Search:      c.Query("search"),
		Featured:    boolQuery(c, "featured"),
		NewArrivals: boolQuery(c, "newArrivals"),
		BestSellers: boolQuery(c, "bestSellers"),
		InStock:     boolQuery(c, "inStock"),
		Sort:        catalog.Sort(c.Query("sort")),
		Page:        intQuery(c, "page", 1),
		Limit:       intQuery(c, "limit", catalog.DefaultLimit),
	}

	result, err := s.services.Catalog.List(c.Request.Context(), q)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondPage(c, result)
}

type createProductRequest struct {
	Name           string                `json:"name"`
	Slug           string                `json:"slug"`
	Price          float64               `json:"price"`
	CompareAtPrice float64               `json:"compareAtPrice"`
	Description    string                `json:"description"`
	Details        []string              `json:"details"`
	Category       string                `json:"category"`
	Subcategory    string                `json:"subcategory"`
	Gender         models.Gender         `json:"gender"`
	Colors         []models.ProductColor `json:"colors"`
	Sizes          []models.ProductSize  `json:"sizes"`
	Images         []string              `json:"images"`
	Thumbnail      string                `json:"thumbnail"`
	Quantity       int                   `json:"quantity"`
	Tags           []string              `json:"tags"`
	Featured       bool                  `json:"featured"`
	NewArrival     bool                  `json:"newArrival"`
	BestSeller     bool                  `json:"bestSeller"`
}

func (s *Server) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.Name == "" || req.Price == 0 || req.Description == "" ||
		req.Category == "" || len(req.Images) == 0 || req.Thumbnail == "" {
		respondBadRequest(c, "missing required fields")
		return
	}
	if req.Gender != "" && !req.Gender.Valid() {
		respondBadRequest(c, "invalid gender")
		return
	}

	// Generate slug from name if not provided
	if req.Slug == "" {
		req.Slug = models.Slugify(req.Name)
	}

	product := &models.Product{
		Name:           req.Name,
		Slug:           req.Slug,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
		Description:    req.Description,
		Details:        req.Details,
		Category:       req.Category,
		Subcategory:    req.Subcategory,
		Gender:         req.Gender,
		Colors:         req.Colors,
		Sizes:          req.Sizes,
		Images:         req.Images,
		Thumbnail:      req.Thumbnail,
		Quantity:       req.Quantity,
		Tags:           req.Tags,
		Featured:       req.Featured,
		NewArrival:     req.NewArrival,
		BestSeller:     req.BestSeller,
	}

	if err := s.services.Products.Create(c.Request.Context(), product); err != nil {
		s.respondError(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, product, "Product created successfully")
}

func (s *Server) getProduct(c *gin.Context) {
	product, err := s.services.Products.GetByIDOrSlug(c.Request.Context(), c.Param("idOrSlug"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, product)
}

func (s *Server) updateProduct(c *gin.Context) {
	product, err := s.services.Products.GetByIDOrSlug(c.Request.Context(), c.Param("idOrSlug"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	var update repository.ProductUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if update.Gender != nil && !update.Gender.Valid() {
		respondBadRequest(c, "invalid gender")
		return
	}

	updated, err := s.services.Products.Update(c.Request.Context(), product.ID, &update)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, updated, "Product updated successfully")
}

func (s *Server) deleteProduct(c *gin.Context) {
	product, err := s.services.Products.GetByIDOrSlug(c.Request.Context(), c.Param("idOrSlug"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	if err := s.services.Products.Delete(c.Request.Context(), product.ID); err != nil {
		s.respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, nil, "Product deleted successfully")
}
