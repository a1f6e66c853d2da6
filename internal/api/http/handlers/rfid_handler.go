package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/club-access-service/internal/api/dto"
	"github.com/spec-kit/club-access-service/internal/domain"
	"github.com/spec-kit/club-access-service/internal/service"
)

const memberNotFoundLabel = "Nicht gefunden"

// RFIDHandler exposes the badge binding flow.
type RFIDHandler struct {
	sessions *service.SessionService
}

// NewRFIDHandler constructs handler.
func NewRFIDHandler(sessions *service.SessionService) *RFIDHandler {
	return &RFIDHandler{sessions: sessions}
}

// Read handles GET /api/rfid/read: one read with a member preview.
func (h *RFIDHandler) Read(c *fiber.Ctx) error {
	deviceID := deviceIDFrom(c, "")
	result, err := h.sessions.Read(requestContext(c), deviceID)
	if err != nil {
		return err
	}

	resp := dto.ReadSessionResponse{
		Success:            result.CardDetected,
		DeviceID:           optional(deviceID),
		DirectoryAvailable: result.DirectoryAvailable,
	}
	if !result.CardDetected {
		resp.Message = "no card detected"
		return c.JSON(fiber.Map{"data": resp})
	}

	resp.Token = result.Token
	resp.MemberName = memberNotFoundLabel
	if result.User != nil {
		resp.UnifiID = optional(result.User.ID)
		resp.UnifiName = optional(result.User.FullName)
	}
	if result.Member != nil {
		resp.MemberName = result.Member.String()
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Bind handles GET /api/rfid/bind.
func (h *RFIDHandler) Bind(c *fiber.Ctx) error {
	deviceID := deviceIDFrom(c, "")
	result, err := h.sessions.Bind(requestContext(c), deviceID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.BindSessionResponse{
		Token:       result.Token,
		UnifiUserID: result.User.ID,
		UnifiName:   result.User.FullName,
		Message:     "card detected for " + result.User.FullName,
		DeviceID:    optional(deviceID),
	}})
}

// Confirm handles POST /api/rfid/confirm.
func (h *RFIDHandler) Confirm(c *fiber.Ctx) error {
	var req dto.ConfirmBindingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.sessions.ConfirmBind(requestContext(c), service.ConfirmInput{
		Token:    req.Token,
		FullName: req.UnifiName,
		DeviceID: deviceIDFrom(c, req.DeviceID),
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.ConfirmBindingResponse{
		Success:    true,
		MemberID:   result.MemberID,
		MemberName: result.MemberName,
		Timestamp:  result.Timestamp,
		DeviceID:   optional(result.DeviceID),
	}})
}

// Cancel handles POST /api/rfid/cancel.
func (h *RFIDHandler) Cancel(c *fiber.Ctx) error {
	var req dto.DeviceScopedRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
	}

	result, err := h.sessions.Cancel(requestContext(c), deviceIDFrom(c, req.DeviceID))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.CancelSessionResponse{
		Success:         true,
		Message:         "session cancelled",
		DeviceID:        optional(result.DeviceID),
		RemoteSessionID: optional(result.RemoteSessionID),
	}})
}

// History handles GET /api/rfid/history.
func (h *RFIDHandler) History(c *fiber.Ctx) error {
	deviceID := deviceIDFrom(c, "")
	entries, err := h.sessions.History(requestContext(c), deviceID)
	if err != nil {
		return err
	}

	history := debugLogResponses(entries)
	return c.JSON(fiber.Map{"data": dto.SessionHistoryResponse{
		Success:  true,
		Count:    len(history),
		DeviceID: optional(deviceID),
		History:  history,
	}})
}

// Logs handles GET /api/rfid/logs.
func (h *RFIDHandler) Logs(c *fiber.Ctx) error {
	entries, err := h.sessions.Logs(requestContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"logs": debugLogResponses(entries)}})
}

// BulkAssign handles POST /api/rfid/bulk-assign.
func (h *RFIDHandler) BulkAssign(c *fiber.Ctx) error {
	var req dto.BulkAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	assignments := make([]service.BulkAssignment, 0, len(req.Assignments))
	for _, item := range req.Assignments {
		assignments = append(assignments, service.BulkAssignment{Token: item.Token, MemberID: item.MemberID})
	}

	result, err := h.sessions.BulkAssign(requestContext(c), assignments)
	if err != nil {
		return err
	}

	resp := dto.BulkAssignResponse{
		Success:    result.Success(),
		Results:    make([]dto.BulkAssignRow, 0, len(result.Results)),
		Errors:     make([]dto.BulkAssignRow, 0, len(result.Errors)),
		Total:      result.Total,
		Successful: len(result.Results),
		Failed:     len(result.Errors),
	}
	for _, row := range result.Results {
		resp.Results = append(resp.Results, dto.BulkAssignRow{
			Token:      row.Token,
			MemberID:   row.MemberID,
			MemberName: row.MemberName,
			Success:    true,
		})
	}
	for _, row := range result.Errors {
		resp.Errors = append(resp.Errors, dto.BulkAssignRow{Token: row.Token, MemberID: row.MemberID, Error: row.Error})
	}
	return c.JSON(fiber.Map{"data": resp})
}

func debugLogResponses(entries []domain.DebugLogEntry) []dto.DebugLogResponse {
	out := make([]dto.DebugLogResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, dto.DebugLogResponse{
			ID:        entry.ID,
			Token:     entry.Token,
			Status:    entry.Status,
			DeviceID:  entry.DeviceID,
			RawData:   entry.Payload,
			Timestamp: entry.Timestamp,
		})
	}
	return out
}
