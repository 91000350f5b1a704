package messaging

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers exposes the ledger over echo.
type Handlers struct {
	Ledger *Ledger
}

func NewHandlers(ledger *Ledger) *Handlers {
	return &Handlers{Ledger: ledger}
}

// SendMessage - authenticated user messages another user, optionally
// attached to an order thread
func (h *Handlers) SendMessage(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var body struct {
		ReceiverID string `json:"receiver_id"`
		Content    string `json:"content"`
		OrderID    string `json:"order_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}

	msg, err := h.Ledger.Send(c.Request().Context(), userID, body.ReceiverID, body.Content, body.OrderID)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "receiver and content are required"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to send message"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message_id": msg.ID})
}

// GetConversations - list the caller's conversations with unread counts
func (h *Handlers) GetConversations(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	conversations, err := h.Ledger.Conversations(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch conversations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"conversations": conversations})
}

// GetThread - full message history with one other user
func (h *Handlers) GetThread(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	otherID := c.Param("id")
	messages, err := h.Ledger.Thread(c.Request().Context(), userID, otherID)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing participant id"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch messages"})
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": messages})
}

// MarkAsRead - flip the read flag on one message
func (h *Handlers) MarkAsRead(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	err := h.Ledger.MarkAsRead(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrMessageNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to mark message read"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "marked as read"})
}
