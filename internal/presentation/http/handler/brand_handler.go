package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stockpilot-api/internal/application/service"
	"github.com/sangkips/stockpilot-api/internal/presentation/http/dto/response"
)

// BrandHandler handles brand-related HTTP requests
type BrandHandler struct {
	brandService *service.BrandService
}

// NewBrandHandler creates a new brand handler
func NewBrandHandler(brandService *service.BrandService) *BrandHandler {
	return &BrandHandler{brandService: brandService}
}

// List handles listing brands
func (h *BrandHandler) List(c *gin.Context) {
	brands, err := h.brandService.ListBrands(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Brands retrieved successfully", brands)
}

// Create handles creating a brand
func (h *BrandHandler) Create(c *gin.Context) {
	var input service.BrandInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}
	brand, err := h.brandService.CreateBrand(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Brand created successfully", brand)
}

// Get handles getting a brand by id
func (h *BrandHandler) Get(c *gin.Context) {
	brand, err := h.brandService.GetBrand(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Brand retrieved successfully", brand)
}

// Update handles renaming a brand
func (h *BrandHandler) Update(c *gin.Context) {
	var input service.BrandInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}
	brand, err := h.brandService.UpdateBrand(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Brand updated successfully", brand)
}

// Delete handles deleting a brand
func (h *BrandHandler) Delete(c *gin.Context) {
	if err := h.brandService.DeleteBrand(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Brand deleted successfully", nil)
}
