package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mkowalczyk/prodtrack-api/config"
	"github.com/mkowalczyk/prodtrack-api/metrics"
	"github.com/mkowalczyk/prodtrack-api/models"
	"github.com/mkowalczyk/prodtrack-api/services"
)

// CreateOrderRequest represents the request body for creating an order.
// Binding tags enforce the value domains before anything touches the store.
type CreateOrderRequest struct {
	OrderNumber      string  `json:"order_number" binding:"required,max=100"`
	Description      string  `json:"description"`
	SystemType       *string `json:"system_type" binding:"omitempty,oneof=PCV ALU DREWNO"`
	HandleType       *string `json:"handle_type" binding:"omitempty,oneof=standardowa antywlamaniowa z-kluczykiem"`
	WeldingFramesQty *int    `json:"welding_frames_qty" binding:"omitempty,min=1,max=15"`
	GlazingFramesQty *int    `json:"glazing_frames_qty" binding:"omitempty,min=1,max=15"`
	ComplexityRating *int    `json:"complexity_rating" binding:"omitempty,min=1,max=5"`
}

// CreateOrder handles POST /api/orders
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	order := models.Order{
		OrderNumber:      req.OrderNumber,
		Description:      req.Description,
		SystemType:       req.SystemType,
		HandleType:       req.HandleType,
		WeldingFramesQty: req.WeldingFramesQty,
		GlazingFramesQty: req.GlazingFramesQty,
		ComplexityRating: req.ComplexityRating,
	}

	orderService := services.NewOrderService(config.GetDB())
	if err := orderService.CreateOrder(&order); err != nil {
		if errors.Is(err, services.ErrDuplicateOrderNumber) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DUPLICATE_ORDER_NUMBER",
					"message": "Order number already exists",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	metrics.OrderCreatedCount.Inc()
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/orders - newest orders first
func ListOrders(c *gin.Context) {
	orderService := services.NewOrderService(config.GetDB())
	orders, err := orderService.ListOrders()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/orders/:id
func GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	orderService := services.NewOrderService(config.GetDB())
	order, err := orderService.FindOrderByID(id)
	if err != nil {
		respondOrderLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// DeleteOrder handles DELETE /api/orders/:id - removes the order together
// with all of its time logs
func DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	orderService := services.NewOrderService(config.GetDB())
	if err := orderService.DeleteOrder(id); err != nil {
		respondOrderLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order and its time logs deleted",
	})
}

func respondOrderLookupError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": "Failed to access order",
		},
	})
}

// parseIDParam parses the :id path parameter, responding with a validation
// error when it is not a positive integer
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid id parameter",
			},
		})
		return 0, false
	}
	return uint(id), true
}
