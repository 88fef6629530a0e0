package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listFeedProducts serves the cached demo feed. It is read-only and separate
// from the store-backed catalog.
func (s *Server) listFeedProducts(c *gin.Context) {
	products, err := s.services.Feed.FashionProducts(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, products)
}
