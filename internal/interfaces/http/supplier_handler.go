package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/supplier"
)

// SupplierHandler inteligencia de proveedores (protegido).
type SupplierHandler struct {
	uc *supplier.IntelligenceUseCase
}

// NewSupplierHandler construye el handler.
func NewSupplierHandler(uc *supplier.IntelligenceUseCase) *SupplierHandler {
	return &SupplierHandler{uc: uc}
}

// Performance godoc
// @Summary      Ranking de proveedores
// @Description  Puntaje de confiabilidad de todos los proveedores, de mayor a menor.
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SupplierPerformanceResponse
// @Router       /api/suppliers/performance [get]
func (h *SupplierHandler) Performance(c *fiber.Ctx) error {
	out, err := h.uc.SupplierPerformance(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reliability godoc
// @Summary      Confiabilidad de un proveedor
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proveedor"
// @Success      200  {object}  dto.SupplierReliabilityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id}/reliability [get]
func (h *SupplierHandler) Reliability(c *fiber.Ctx) error {
	out, err := h.uc.SupplierReliability(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Comparison godoc
// @Summary      Comparar proveedores de un producto
// @Description  Costo promedio, mejor y peor precio por proveedor; el más barato queda primero.
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.SupplierComparisonResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/supplier-comparison [get]
func (h *SupplierHandler) Comparison(c *fiber.Ctx) error {
	out, err := h.uc.CompareSuppliers(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
