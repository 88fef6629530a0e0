package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/evoshop/pkg/newsletter"
)

func (s *Server) subscribe(c *gin.Context) {
	var req newsletter.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	subscriber, reactivated, err := s.services.Newsletter.Subscribe(c.Request.Context(), &req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if reactivated {
		respondMessage(c, http.StatusOK, subscriber, "Subscription reactivated")
		return
	}
	respondMessage(c, http.StatusCreated, subscriber, "Successfully subscribed")
}

func (s *Server) listSubscribers(c *gin.Context) {
	var active *bool
	if raw := c.Query("active"); raw != "" {
		value := raw == "true"
		active = &value
	}

	subscribers, err := s.services.Newsletter.List(c.Request.Context(), active)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, subscribers)
}

func (s *Server) unsubscribe(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		respondBadRequest(c, "email is required")
		return
	}

	if err := s.services.Newsletter.Unsubscribe(c.Request.Context(), email); err != nil {
		s.respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, nil, "Successfully unsubscribed")
}
