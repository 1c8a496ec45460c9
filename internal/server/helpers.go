package server

import (
	"errors"
	"log/slog"
	"strings"

	"levelup/internal/middleware"
	"levelup/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	maxPaginationLimit = 100
)

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// mapServiceError picks the status for err and logs anything that will be
// reported as an internal error, since its cause never reaches the client.
func mapServiceError(c *fiber.Ctx, err error) int {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	return status
}

// respondErr writes err in the API error shape.
func respondErr(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, mapServiceError(c, err), err)
}

// parseBody decodes the request body into dst.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// pathID returns a trimmed, non-empty route parameter.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func pathID(c *fiber.Ctx, param string) (string, error) {
	id := strings.TrimSpace(c.Params(param))
	if id == "" {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return "", errResponseWritten
	}
	return id, nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "user_id" -> "user ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if prefix, ok := strings.CutSuffix(param, "_id"); ok {
		return strings.ReplaceAll(prefix, "_", " ") + " ID"
	}
	return param
}

// actingUser resolves the user a mutating request acts for. Requests keep the
// user_id contract, but an authenticated caller may only act as themselves.
// Anonymous callers fall back to the claimed id; authenticated callers with
// no claimed id act as themselves.
func actingUser(c *fiber.Ctx, claimed string) (string, error) {
	claimed = strings.TrimSpace(claimed)
	caller := middleware.CurrentUserID(c)
	switch {
	case caller == "":
		return claimed, nil
	case claimed == "" || claimed == caller:
		return caller, nil
	default:
		_ = models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Cannot act on behalf of another user"))
		return "", errResponseWritten
	}
}

// requireUserID is actingUser for requests that cannot proceed without one.
func requireUserID(c *fiber.Ctx, claimed string) (string, error) {
	userID, err := actingUser(c, claimed)
	if err != nil {
		return "", err
	}
	if userID == "" {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
		return "", errResponseWritten
	}
	return userID, nil
}
