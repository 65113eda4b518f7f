package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/paws-pos/internal/application/dto"
	"github.com/jhoicas/paws-pos/internal/application/sales"
	"github.com/jhoicas/paws-pos/internal/domain"
)

// SaleHandler registro y consulta de ventas.
type SaleHandler struct {
	uc *sales.SaleUseCase
}

func NewSaleHandler(uc *sales.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta stock y registra la venta en una sola transacción.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Líneas y medio de pago"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	cashier := GetUser(c)
	if cashier == nil {
		return fmt.Errorf("%w: usuario no autenticado", domain.ErrUnauthorized)
	}
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return errInvalidBody
	}
	out, err := h.uc.Create(c.UserContext(), cashier, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Description  Con summary=true devuelve solo {total, count} de la ventana.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        skip        query  int     false  "Desplazamiento"  default(0)
// @Param        limit       query  int     false  "Límite (máx. 1000)"  default(100)
// @Param        start_date  query  string  false  "YYYY-MM-DD o RFC 3339"
// @Param        end_date    query  string  false  "YYYY-MM-DD o RFC 3339"
// @Param        today       query  bool    false  "Solo el día local actual"
// @Param        summary     query  bool    false  "Devolver el agregado"
// @Success      200  {object}  dto.SaleListResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var q dto.ListSalesQuery
	if err := c.QueryParser(&q); err != nil {
		return errInvalidBody
	}
	if q.Summary {
		out, err := h.uc.Summary(c.UserContext(), q)
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
