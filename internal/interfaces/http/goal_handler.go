package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Vendas-api/internal/application/dto"
	"github.com/jhoicas/Vendas-api/internal/application/goals"
)

// GoalHandler metas personales del usuario autenticado.
type GoalHandler struct {
	uc *goals.UseCase
}

// NewGoalHandler construye el handler.
func NewGoalHandler(uc *goals.UseCase) *GoalHandler {
	return &GoalHandler{uc: uc}
}

// List godoc
// @Summary      Metas propias con progreso
// @Tags         goals
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.GoalResponse
// @Router       /api/goals [get]
func (h *GoalHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListMine(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear meta
// @Tags         goals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateGoalRequest  true  "title, target_amount, deadline"
// @Success      201   {object}  dto.GoalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/goals [post]
func (h *GoalHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateGoalRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get progreso de una meta propia.
func (h *GoalHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Progress(c.UserContext(), GetUserID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina una meta propia.
func (h *GoalHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err = h.uc.Delete(c.UserContext(), GetUserID(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
