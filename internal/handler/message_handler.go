package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sitecms/internal/model"
	"sitecms/internal/service"
)

// MessageHandler handles contact-form endpoints.
type MessageHandler struct {
	messages service.MessageService
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(messages service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// SubmitMessageRequest is a public contact-form submission.
type SubmitMessageRequest struct {
	Name    string `json:"name" validate:"required,max=128"`
	Email   string `json:"email" validate:"omitempty,email,max=255"`
	Phone   string `json:"phone" validate:"max=64"`
	Company string `json:"company" validate:"max=255"`
	Subject string `json:"subject" validate:"max=255"`
	Content string `json:"content" validate:"required,max=5000"`
}

// UpdateStatusRequest changes the triage state of a message.
type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=unread read replied"`
	Reply  *string `json:"reply"`
}

// Submit godoc
// @Summary Submit a contact message
// @Tags messages
// @Accept json
// @Produce json
// @Param request body SubmitMessageRequest true "Message"
// @Success 201 {object} Response{data=model.Message}
// @Failure 400 {object} errors.ErrorResponse
// @Router /messages [post]
func (h *MessageHandler) Submit(c echo.Context) error {
	var req SubmitMessageRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	msg, err := h.messages.Submit(c.Request().Context(), &model.Message{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Subject: req.Subject,
		Content: req.Content,
	})
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusCreated, "message received", msg)
}

// List godoc
// @Summary List messages
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Param status query string false "unread, read or replied"
// @Param keyword query string false "Search sender and content"
// @Success 200 {object} Response{data=[]model.Message,pagination=Pagination}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /messages [get]
func (h *MessageHandler) List(c echo.Context) error {
	params := listParams(c)
	filterString(c, params, "status", "status")
	page, err := h.messages.List(c.Request().Context(), params)
	if err != nil {
		return fail(err)
	}
	return respondPage(c, page)
}

// Get godoc
// @Summary Get a message
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} Response{data=model.Message}
// @Failure 404 {object} errors.ErrorResponse
// @Router /messages/{id} [get]
func (h *MessageHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	msg, err := h.messages.Get(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "success", msg)
}

// UpdateStatus godoc
// @Summary Change a message status
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} Response{data=model.Message}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /messages/{id}/status [put]
func (h *MessageHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req UpdateStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	msg, err := h.messages.UpdateStatus(c.Request().Context(), id, model.MessageStatus(req.Status), req.Reply)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "updated", msg)
}

// Delete godoc
// @Summary Delete a message
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /messages/{id} [delete]
func (h *MessageHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.messages.Delete(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "deleted", nil)
}
