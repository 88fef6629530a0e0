package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/evoshop/pkg/reviews"
)

func (s *Server) addReview(c *gin.Context) {
	product, err := s.services.Products.GetByIDOrSlug(c.Request.Context(), c.Param("idOrSlug"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	var req reviews.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	summary, err := s.services.Reviews.Add(c.Request.Context(), product.ID, &req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, summary)
}

func (s *Server) listReviews(c *gin.Context) {
	product, err := s.services.Products.GetByIDOrSlug(c.Request.Context(), c.Param("idOrSlug"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	result, err := s.services.Reviews.List(c.Request.Context(), product.ID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}
