// internal/handlers/preorder.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopsmith/storefront/internal/services"
	"github.com/shopsmith/storefront/internal/utils"
)

type PreorderHandler struct {
	preorderService *services.PreorderService
	productService  *services.ProductService
}

func NewPreorderHandler(preorderService *services.PreorderService, productService *services.ProductService) *PreorderHandler {
	return &PreorderHandler{
		preorderService: preorderService,
		productService:  productService,
	}
}

// GET /products/:id/preorder
func (h *PreorderHandler) GetEligibility(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	product, err := h.productService.GetProduct(id)
	if err != nil {
		utils.NotFoundResponse(c, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"can_preorder":       product.CanPreorder(),
		"preorder_remaining": product.PreorderRemaining(),
		"available_date":     product.PreorderAvailableDate,
		"message":            product.PreorderMessage,
		"terms":              product.PreorderTerms,
	})
}

// POST /products/:id/preorder/enable
func (h *PreorderHandler) EnablePreorder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var req services.EnablePreorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	product, err := h.preorderService.EnablePreorder(id, &req)
	if err != nil {
		switch err.Error() {
		case "product not found":
			utils.NotFoundResponse(c, "product")
		case "preorder already enabled":
			utils.ConflictResponse(c, err.Error())
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{"product": product})
}

// POST /products/:id/preorder/disable
func (h *PreorderHandler) DisablePreorder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var req services.DisablePreorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	product, err := h.preorderService.DisablePreorder(id, &req)
	if err != nil {
		switch err.Error() {
		case "product not found":
			utils.NotFoundResponse(c, "product")
		case "preorder not enabled":
			utils.ConflictResponse(c, err.Error())
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{"product": product})
}

// POST /products/:id/preorder/reserve
func (h *PreorderHandler) Reserve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var req services.ReservePreorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	reservation, err := h.preorderService.Reserve(id, &req)
	if err != nil {
		switch err.Error() {
		case "product not found":
			utils.NotFoundResponse(c, "product")
		case "product is not available for preorder", "preorder limit reached":
			utils.ConflictResponse(c, err.Error())
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.CreatedResponse(c, gin.H{"reservation": reservation})
}

// DELETE /preorder-reservations/:id
func (h *PreorderHandler) CancelReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid reservation ID", nil)
		return
	}

	if err := h.preorderService.CancelReservation(id); err != nil {
		switch err.Error() {
		case "reservation not found":
			utils.NotFoundResponse(c, "reservation")
		case "reservation already cancelled":
			utils.ConflictResponse(c, err.Error())
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{"cancelled": true})
}

// GET /products/:id/preorder/reservations
func (h *PreorderHandler) GetReservations(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	params := utils.GetPaginationParams(c)
	reservations, total, err := h.preorderService.GetReservations(id, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(reservations, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /admin/inventory/reevaluate
func (h *PreorderHandler) ReevaluateStockouts(c *gin.Context) {
	batchSize := 200
	if raw := c.Query("batch_size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			batchSize = parsed
		}
	}

	transitioned, err := h.preorderService.ReevaluateStockouts(batchSize)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"transitioned": transitioned})
}
