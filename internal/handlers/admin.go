package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/alidoner/orderbot/internal/storage"
)

// AdminHandler exposes the order ledger and live sessions to the vendor
type AdminHandler struct {
	orders   storage.OrderStore
	sessions SessionLister
}

// SessionLister is the read side of the session store
type SessionLister interface {
	CustomerIDs() []string
	Count() int
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(orders storage.OrderStore, sessions SessionLister) *AdminHandler {
	return &AdminHandler{
		orders:   orders,
		sessions: sessions,
	}
}

// ListOrders returns the newest orders; ?limit=N
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", storage.DefaultListLimit)

	orders, err := h.orders.ListOrders(c.UserContext(), limit)
	if err != nil {
		log.Printf("❌ Failed to list orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch orders",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"orders":  orders,
		"count":   len(orders),
	})
}

// GetOrder returns one order by its order id
func (h *AdminHandler) GetOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")

	order, err := h.orders.GetOrder(c.UserContext(), orderID)
	if errors.Is(err, storage.ErrOrderNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Order not found",
		})
	}
	if err != nil {
		log.Printf("❌ Failed to get order %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch order",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// ListSessions returns the customer ids with a live session
func (h *AdminHandler) ListSessions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":   true,
		"customers": h.sessions.CustomerIDs(),
		"count":     h.sessions.Count(),
	})
}
