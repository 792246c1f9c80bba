package menu

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if errors.Is(err, ErrMenuNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// --------------------------------------------------
// Menus
// --------------------------------------------------

func (h *Handler) GetMenu(c *gin.Context) {
	m, err := h.service.GetMenu(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) ListMenus(c *gin.Context) {
	userID := c.GetString("userID")

	menus, err := h.service.ListMenus(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menus": menus})
}

// --------------------------------------------------
// Selection
// --------------------------------------------------

func (h *Handler) ToggleItem(c *gin.Context) {
	userID := c.GetString("userID")

	var req struct {
		ItemID string `json:"item_id"`
	}
	if err := c.BindJSON(&req); err != nil || req.ItemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_id is required"})
		return
	}

	summary, err := h.service.ToggleItem(c.Request.Context(), c.Param("id"), userID, req.ItemID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) SetQuantity(c *gin.Context) {
	userID := c.GetString("userID")

	var req struct {
		ItemID   string `json:"item_id"`
		Quantity int    `json:"quantity"`
	}
	if err := c.BindJSON(&req); err != nil || req.ItemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_id and quantity are required"})
		return
	}

	summary, err := h.service.SetQuantity(c.Request.Context(), c.Param("id"), userID, req.ItemID, req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) SelectVariant(c *gin.Context) {
	userID := c.GetString("userID")

	var req struct {
		ItemID  string  `json:"item_id"`
		Variant Variant `json:"variant"`
	}
	if err := c.BindJSON(&req); err != nil || req.ItemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_id and variant are required"})
		return
	}
	if _, err := NewVariant(req.Variant.Spec, req.Variant.Price, req.Variant.TaxStatus); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.service.SelectVariant(c.Request.Context(), c.Param("id"), userID, req.ItemID, req.Variant)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) ClearSelection(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.service.ClearSelection(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (h *Handler) OrderSummary(c *gin.Context) {
	userID := c.GetString("userID")

	summary, err := h.service.OrderSummaryFor(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
