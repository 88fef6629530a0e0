package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) uploadImage(c *gin.Context) {
	if s.services.Uploader == nil {
		respondBadRequest(c, "image uploads are not configured")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer file.Close()

	upload, err := s.services.Uploader.Upload(c.Request.Context(), file)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, upload, "Image uploaded successfully")
}
