// internal/handlers/product.go
package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopsmith/storefront/internal/models"
	"github.com/shopsmith/storefront/internal/services"
	"github.com/shopsmith/storefront/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.ProductSearchParams{
		PaginationParams: params,
	}

	if status := c.Query("status"); status != "" {
		productStatus := models.ProductStatus(status)
		searchParams.Status = &productStatus
	}

	if priceMinStr := c.Query("price_min"); priceMinStr != "" {
		if priceMin, err := strconv.ParseFloat(priceMinStr, 64); err == nil {
			searchParams.PriceMin = &priceMin
		}
	}

	if priceMaxStr := c.Query("price_max"); priceMaxStr != "" {
		if priceMax, err := strconv.ParseFloat(priceMaxStr, 64); err == nil {
			searchParams.PriceMax = &priceMax
		}
	}

	if tags := c.Query("tags"); tags != "" {
		searchParams.Tags = strings.Split(tags, ",")
	}

	if inStockStr := c.Query("in_stock"); inStockStr != "" {
		if inStock, err := strconv.ParseBool(inStockStr); err == nil {
			searchParams.InStock = &inStock
		}
	}

	if preorderStr := c.Query("preorder"); preorderStr != "" {
		if preorder, err := strconv.ParseBool(preorderStr); err == nil {
			searchParams.Preorder = &preorder
		}
	}

	// Staff see drafts and hidden products too
	if _, authenticated := utils.GetUserIDFromContext(c); authenticated {
		searchParams.WithHidden = true
	}

	products, total, err := h.productService.SearchProducts(searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(products, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.productService.CreateProduct(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"product": product,
	})
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// Fall back to slug lookup for storefront URLs
		product, slugErr := h.productService.GetProductBySlug(c.Param("id"))
		if slugErr != nil {
			utils.NotFoundResponse(c, "product")
			return
		}
		utils.SuccessResponse(c, gin.H{"product": product})
		return
	}

	product, err := h.productService.GetProduct(id)
	if err != nil {
		utils.NotFoundResponse(c, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{"product": product})
}

// PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(id, &req)
	if err != nil {
		if err.Error() == "product not found" {
			utils.NotFoundResponse(c, "product")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{"product": product})
}

// DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	if err := h.productService.DeleteProduct(id); err != nil {
		if err.Error() == "product not found" {
			utils.NotFoundResponse(c, "product")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// POST /products/:id/restore
func (h *ProductHandler) RestoreProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	product, err := h.productService.RestoreProduct(id)
	if err != nil {
		if err.Error() == "product not found" {
			utils.NotFoundResponse(c, "product")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{"product": product})
}

// PUT /products/:id/stock
func (h *ProductHandler) SetStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var req services.SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	product, err := h.productService.SetStock(id, actorID(c), &req)
	if err != nil {
		if err.Error() == "product not found" {
			utils.NotFoundResponse(c, "product")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{"product": product})
}

// POST /products/:id/stock/adjust
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var req services.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	product, err := h.productService.AdjustStock(id, actorID(c), &req)
	if err != nil {
		if err.Error() == "product not found" {
			utils.NotFoundResponse(c, "product")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{"product": product})
}

// GET /products/:id/movements
func (h *ProductHandler) GetStockMovements(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	params := utils.GetPaginationParams(c)
	movements, total, err := h.productService.GetStockMovements(id, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(movements, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /products/low-stock
func (h *ProductHandler) GetLowStockProducts(c *gin.Context) {
	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	products, err := h.productService.LowStockProducts(limit)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"products": products})
}

func actorID(c *gin.Context) *uuid.UUID {
	if userIDStr, exists := utils.GetUserIDFromContext(c); exists {
		if uid, err := uuid.Parse(userIDStr); err == nil {
			return &uid
		}
	}
	return nil
}
