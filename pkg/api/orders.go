package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/example/evoshop/pkg/checkout"
	"github.com/example/evoshop/pkg/repository"
)

func (s *Server) createOrder(c *gin.Context) {
	var req checkout.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	order, err := s.services.Checkout.PlaceOrder(c.Request.Context(), &req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, order, "Order created successfully")
}

func (s *Server) findOrders(c *gin.Context) {
	email := c.Query("email")
	orderNumber := c.Query("orderNumber")

	// An unfiltered listing exposes every customer's orders, so it is
	// admin-only.
	if email == "" && orderNumber == "" {
		token := s.config.Server.AdminToken
		if token == "" || c.GetHeader("X-Admin-Token") != token {
			respondBadRequest(c, "email or orderNumber is required")
			return
		}
	}

	orders, err := s.services.Orders.Find(c.Request.Context(), email, orderNumber)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, orders)
}

func (s *Server) getOrder(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid order ID")
		return
	}

	order, err := s.services.Orders.GetByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

func (s *Server) updateOrder(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid order ID")
		return
	}

	var update repository.OrderUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if update.Status != nil && !update.Status.Valid() {
		respondBadRequest(c, "invalid order status")
		return
	}
	if update.PaymentStatus != nil && !update.PaymentStatus.Valid() {
		respondBadRequest(c, "invalid payment status")
		return
	}

	order, err := s.services.Orders.Update(c.Request.Context(), id, &update)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, order, "Order updated successfully")
}
