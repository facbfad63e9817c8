package serverutils

import (
	"errors"

	"studyspace-be/internal/dto"
	"studyspace-be/pkg/entitlement"
	"studyspace-be/pkg/workspace"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by controllers into JSON
// envelopes with the matching status code.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		status, body := MapError(err)
		return ctx.Status(status).JSON(body)
	}
}

func MapError(err error) (int, ErrorBody) {
	var denied *entitlement.DeniedError
	if errors.As(err, &denied) {
		if denied.IsQuotaExhausted() && denied.ResetAfter != nil {
			body := ErrorResponse(fiber.StatusTooManyRequests, denied.Reason)
			body.ErrorType = "DAILY_LIMIT_REACHED"
			body.Data = dto.LimitExceededData{
				Limit:            int(denied.Limit),
				Used:             denied.Used,
				ResetAfter:       *denied.ResetAfter,
				ShowModalPricing: true,
			}
			return fiber.StatusTooManyRequests, body
		}
		body := ErrorResponse(fiber.StatusForbidden, denied.Reason)
		body.ErrorType = "UPGRADE_REQUIRED"
		body.Data = dto.UpgradeRequiredData{Plan: denied.Plan, Feature: denied.Feature, ShowModalPricing: true}
		return fiber.StatusForbidden, body
	}

	var failed *workspace.GenerationFailedError
	if errors.As(err, &failed) {
		body := ErrorResponse(fiber.StatusBadGateway, "generation failed, your input was kept")
		body.ErrorType = "GENERATION_FAILED"
		return fiber.StatusBadGateway, body
	}

	var invalid *ValidationError
	if errors.As(err, &invalid) {
		body := ErrorResponse(fiber.StatusBadRequest, invalid.Error())
		body.ErrorType = "VALIDATION_FAILED"
		body.Data = invalid.Fields
		return fiber.StatusBadRequest, body
	}

	switch {
	case errors.Is(err, workspace.ErrTabNotFound), errors.Is(err, workspace.ErrNoResult):
		return fiber.StatusNotFound, ErrorResponse(fiber.StatusNotFound, err.Error())
	case errors.Is(err, workspace.ErrInvalidMode), errors.Is(err, workspace.ErrEmptyInput),
		errors.Is(err, workspace.ErrLockNotSupported):
		return fiber.StatusBadRequest, ErrorResponse(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, workspace.ErrTabLocked), errors.Is(err, workspace.ErrGenerationInProgress):
		return fiber.StatusConflict, ErrorResponse(fiber.StatusConflict, err.Error())
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, ErrorResponse(fe.Code, fe.Message)
	}
	return fiber.StatusInternalServerError, ErrorResponse(fiber.StatusInternalServerError, "internal server error")
}
