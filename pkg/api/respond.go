package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/evoshop/pkg/catalog"
	"github.com/example/evoshop/pkg/errs"
)

// response is the uniform JSON envelope every endpoint returns.
type response struct {
	Success    bool                `json:"success"`
	Data       interface{}         `json:"data,omitempty"`
	Message    string              `json:"message,omitempty"`
	Error      string              `json:"error,omitempty"`
	Pagination *catalog.Pagination `json:"pagination,omitempty"`
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, response{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, response{Success: true, Data: data, Message: message})
}

func respondPage(c *gin.Context, result *catalog.Result) {
	c.JSON(http.StatusOK, response{
		Success:    true,
		Data:       result.Products,
		Pagination: &result.Pagination,
	})
}

// respondError maps the error taxonomy onto HTTP statuses. Internal errors
// are logged with the request id and hidden behind a generic message.
func (s *Server) respondError(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	message := err.Error()

	status := http.StatusInternalServerError
	switch kind {
	case errs.KindValidation:
		status = http.StatusBadRequest
	case errs.KindNotFound:
		status = http.StatusNotFound
	case errs.KindConflict:
		status = http.StatusConflict
	default:
		s.logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err))
		message = "internal server error"
	}

	c.JSON(status, response{Success: false, Error: message})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, response{Success: false, Error: message})
}

// intQuery parses a numeric query parameter, falling back to def on absence
// or malformed input.
func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func boolQuery(c *gin.Context, name string) bool {
	return c.Query(name) == "true"
}
