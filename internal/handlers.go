package internal

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"cafeboard/internal/model"
)

type Handlers struct {
	Service IService
	logger  *zap.SugaredLogger
}

func NewHandlers(Service IService, logger *zap.SugaredLogger) *Handlers {
	return &Handlers{Service: Service, logger: logger}
}

func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

func (h *Handlers) GetLiveOrders(c *fiber.Ctx) error {
	orders := h.Service.Live()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"orders": orders})
}

func (h *Handlers) GetStats(c *fiber.Ctx) error {
	summary, ok := h.Service.Summary()
	if !ok {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Status(fiber.StatusOK).JSON(summary)
}

func (h *Handlers) GetOrders(c *fiber.Ctx) error {
	params := ListOrdersParams{
		Filter: c.Query("filter"),
		Range:  c.Query("range"),
		Date:   c.Query("date"),
		Search: c.Query("search"),
		Page:   c.QueryInt("page"),
		Limit:  c.QueryInt("limit"),
	}

	page, err := h.Service.ListOrders(c.Context(), params)
	if err != nil {
		h.logger.Errorf("Error on orders listing request: %s", err.Error())
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"status": "error", "message": "Error on orders listing request", "data": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(page)
}

type statusInput struct {
	Status string `json:"status"`
}

func (h *Handlers) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := orderID(c)
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	var i statusInput
	if err = c.BodyParser(&i); err != nil || !model.ValidStatus(i.Status) {
		h.logger.Errorf("Error on status update request: invalid body")
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error", "message": "Error on status update request", "data": "unknown status"})
	}

	err = h.Service.ChangeStatus(c.Context(), id, i.Status)
	if err != nil {
		h.logger.Errorf("Error on status update request: %s", err.Error())
		if errors.Is(err, ErrOrderNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		if errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrInvalidStatus) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error", "message": "Error on status update request", "data": err.Error()})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"status": "error", "message": "Error on status update request", "data": err.Error()})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *Handlers) MarkOrderPaid(c *fiber.Ctx) error {
	id, err := orderID(c)
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	err = h.Service.MarkPaid(c.Context(), id)
	if err != nil {
		h.logger.Errorf("Error on mark paid request: %s", err.Error())
		if errors.Is(err, ErrOrderNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		if errors.Is(err, ErrAlreadyPaid) {
			return c.SendStatus(fiber.StatusConflict)
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"status": "error", "message": "Error on mark paid request", "data": err.Error()})
	}

	return c.SendStatus(fiber.StatusOK)
}

func orderID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
