package http

import (
	"golang-line-chatbot/internal/ports/input"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// HTTPHandler struct - Primary/Driving adapter for the service's own HTTP API
type HTTPHandler struct {
	srv input.ConversationService
}

// New func - Creates new HTTP handler
func New(srv input.ConversationService) *HTTPHandler {
	return &HTTPHandler{
		srv: srv,
	}
}

// HealthCheck func
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} ResponseBody
// @Router /health [get]
func (hdl *HTTPHandler) HealthCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: ""})
}

// ListConversations godoc
// @Summary List conversations
// @Description Returns the IDs of every LINE user with a stored conversation
// @Tags Conversation
// @Produce json
// @Success 200 {object} ResponseBody
// @Router /v1/api/conversations [get]
func (hdl *HTTPHandler) ListConversations(c *fiber.Ctx) error {
	users, err := hdl.srv.ListUsers()
	if err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}

	total := int64(len(users))
	return c.Status(fiber.StatusOK).JSON(ResponseBody{
		Status:    Success,
		Data:      users,
		TotalItem: &total,
	})
}

// GetConversation godoc
// @Summary Get conversation history
// @Description Returns the stored turns of one LINE user in the order they were recorded
// @Tags Conversation
// @Produce json
// @Success 200 {object} ResponseBody
// @Router /v1/api/conversations/{userId} [get]
// @param userId path string true "LINE user ID"
func (hdl *HTTPHandler) GetConversation(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}

	history, err := hdl.srv.GetHistory(userID)
	if err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}

	data := make([]ChatTurnResponse, 0, len(history))
	for _, turn := range history {
		data = append(data, ChatTurnResponse{
			Speaker:    string(turn.Speaker),
			Content:    turn.Content,
			OccurredAt: turn.OccurredAt,
		})
	}

	total := int64(len(data))
	return c.Status(fiber.StatusOK).JSON(ResponseBody{
		Status:    Success,
		Data:      data,
		TotalItem: &total,
	})
}
