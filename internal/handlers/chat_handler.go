package handlers

import (
	"net/http"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/errors"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

type ChatHandler struct {
	chatService services.ChatServiceInterface
}

func NewChatHandler(chatService services.ChatServiceInterface) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Ask answers a question about the caller's finances
// @Summary Ask the assistant
// @Tags Chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Question"
// @Success 200 {object} dto.ChatResponse
// @Router /chat [post]
func (h *ChatHandler) Ask(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.ChatRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	reply, err := h.chatService.Ask(c.Request().Context(), userID, req.Message)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ChatResponse{
		Reply:     reply.Content,
		Intent:    reply.Intent,
		CreatedAt: reply.CreatedAt,
	})
}

// GetHistory returns the stored conversation
// @Summary Chat history
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ChatHistoryResponse
// @Router /chat/history [get]
func (h *ChatHandler) GetHistory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	messages, err := h.chatService.History(c.Request().Context(), userID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewChatHistoryResponse(messages))
}

// ClearHistory deletes the stored conversation
// @Summary Clear chat history
// @Tags Chat
// @Security BearerAuth
// @Success 204
// @Router /chat/history [delete]
func (h *ChatHandler) ClearHistory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	if err := h.chatService.ClearHistory(c.Request().Context(), userID); err != nil {
		return sendServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
