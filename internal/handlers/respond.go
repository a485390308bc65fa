package handlers

import (
	"errors"
	"net/url"

	"friendgift/internal/errs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

func message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

// fail maps a service error to its status code. Anything unrecognised is
// logged and reported as 500 without leaking details.
func fail(c *fiber.Ctx, logger *zap.Logger, err error, msg string) error {
	switch {
	case errors.Is(err, errs.ErrInvalidInput):
		return message(c, fiber.StatusBadRequest, msg)
	case errors.Is(err, errs.ErrNotFound):
		return message(c, fiber.StatusNotFound, msg)
	case errors.Is(err, errs.ErrAlreadyExists):
		return message(c, fiber.StatusConflict, msg)
	case errors.Is(err, errs.ErrInvalidCredentials), errors.Is(err, errs.ErrInvalidToken):
		return message(c, fiber.StatusUnauthorized, msg)
	}
	logger.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return message(c, fiber.StatusInternalServerError, "Internal server error")
}

// friendIDParam returns the unescaped route parameter. It is copied since
// fiber reuses its buffers.
func friendIDParam(c *fiber.Ctx) string {
	raw := utils.CopyString(c.Params("friendId"))
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}
