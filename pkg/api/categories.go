package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/evoshop/pkg/models"
)

func (s *Server) listCategories(c *gin.Context) {
	categories, err := s.services.Categories.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	respondData(c, http.StatusOK, categories)
}

func (s *Server) getCategory(c *gin.Context) {
	category, err := s.services.Categories.GetByIDOrSlug(c.Request.Context(), c.Param("idOrSlug"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, category)
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

func (s *Server) createCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Name == "" {
		respondBadRequest(c, "category name is required")
		return
	}
	if req.Slug == "" {
		req.Slug = models.Slugify(req.Name)
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := s.services.Categories.Create(c.Request.Context(), category); err != nil {
		s.respondError(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, category, "Category created successfully")
}
