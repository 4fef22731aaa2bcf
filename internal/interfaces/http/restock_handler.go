package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/restock"
)

// RestockHandler entradas de mercancía, historial y sugerencias de pedido (protegido).
type RestockHandler struct {
	register    *restock.RegisterRestockUseCase
	history     *restock.HistoryUseCase
	suggestions *restock.SuggestionUseCase
}

// NewRestockHandler construye el handler.
func NewRestockHandler(register *restock.RegisterRestockUseCase, history *restock.HistoryUseCase, suggestions *restock.SuggestionUseCase) *RestockHandler {
	return &RestockHandler{register: register, history: history, suggestions: suggestions}
}

// Register godoc
// @Summary      Registrar entrada de mercancía
// @Description  Guarda el evento, suma el stock y recalcula el costo promedio ponderado del producto.
// @Tags         restock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRestockRequest  true  "product_id, supplier_id, quantity, cost_price"
// @Success      201   {object}  dto.RegisterRestockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/restocks [post]
func (h *RestockHandler) Register(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterRestockRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if vErr := validationError(in); vErr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(vErr)
	}
	out, err := h.register.RegisterRestock(c.UserContext(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Historial de reabastecimiento
// @Tags         restock
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Filtrar por producto"
// @Param        supplier_id  query  string  false  "Filtrar por proveedor"
// @Param        from         query  string  false  "Desde (RFC3339 o AAAA-MM-DD)"
// @Param        to           query  string  false  "Hasta (RFC3339 o AAAA-MM-DD, día completo)"
// @Param        limit        query  int     false  "Máximo 100 (default 20)"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.RestockHistoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/restocks [get]
func (h *RestockHandler) List(c *fiber.Ctx) error {
	in := dto.RestockHistoryRequest{
		ProductID:  c.Query("product_id"),
		SupplierID: c.Query("supplier_id"),
		PageRequest: dto.PageRequest{
			Limit:  c.QueryInt("limit", 0),
			Offset: c.QueryInt("offset", 0),
		},
	}
	var err error
	if in.From, err = parseDateParam(c.Query("from"), false); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida", Field: "from"})
	}
	if in.To, err = parseDateParam(c.Query("to"), true); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida", Field: "to"})
	}
	if vErr := validationError(in); vErr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(vErr)
	}

	out, err := h.history.ListRestocks(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Suggestions godoc
// @Summary      Sugerencias de pedido
// @Description  Productos en o bajo su stock mínimo con la cantidad sugerida, ordenados por prioridad.
// @Tags         restock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RestockSuggestionsResponse
// @Router       /api/restock/suggestions [get]
func (h *RestockHandler) Suggestions(c *fiber.Ctx) error {
	out, err := h.suggestions.Suggestions(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SuggestionsPDF godoc
// @Summary      Hoja de pedido en PDF
// @Tags         restock
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/restock/suggestions/pdf [get]
func (h *RestockHandler) SuggestionsPDF(c *fiber.Ctx) error {
	raw, filename, err := h.suggestions.SuggestionsPDF(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(raw)
}
