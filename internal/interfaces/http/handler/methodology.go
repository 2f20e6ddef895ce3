package handler

import (
	"github.com/gin-gonic/gin"

	appzakat "github.com/zakatledger/backend/internal/application/zakat"
)

// MethodologyHandler serves the fiqh methodology catalog. The catalog is
// compiled in, so these endpoints need no owner scoping.
type MethodologyHandler struct {
	BaseHandler
	service *appzakat.MethodologyService
}

// NewMethodologyHandler creates a new MethodologyHandler
func NewMethodologyHandler(service *appzakat.MethodologyService) *MethodologyHandler {
	return &MethodologyHandler{service: service}
}

// List returns every supported methodology.
// GET /api/v1/methodologies
func (h *MethodologyHandler) List(c *gin.Context) {
	h.Success(c, h.service.List())
}

// Get returns one methodology by identifier.
// GET /api/v1/methodologies/:id
func (h *MethodologyHandler) Get(c *gin.Context) {
	m, err := h.service.Get(c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, m)
}
