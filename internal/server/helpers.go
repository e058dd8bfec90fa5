package server

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"scribe/internal/models"
	"scribe/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const csrfContextKey = "csrf"

// parseID extracts a route parameter by name as a positive uint.
// Anything else is reported as a missing page.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, models.NewNotFoundError("Page", raw)
	}
	return uint(id), nil
}

// render executes view with data plus the values every page expects.
func (s *Server) render(c *fiber.Ctx, viewer *models.User, view string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["viewer"] = viewer
	data["path"] = c.Path()
	if token, ok := c.Locals(csrfContextKey).(string); ok {
		data["csrf"] = token
	} else {
		data["csrf"] = ""
	}
	if _, ok := data["errors"]; !ok {
		data["errors"] = validation.Errors{}
	}
	return c.Render(view, data)
}

// fieldErrors extracts per-field messages from a validation AppError.
func fieldErrors(err error) (validation.Errors, bool) {
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		return nil, false
	}
	errs := validation.Errors{}
	for field, msgs := range appErr.Fields {
		errs[field] = msgs
	}
	if len(errs) == 0 {
		errs.Add(validation.NonField, appErr.Message)
	}
	return errs, true
}

// safeNext returns next when it is a path on this site, otherwise "".
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return ""
	}
	return next
}

func postURL(id uint) string {
	return "/post/" + strconv.FormatUint(uint64(id), 10) + "/"
}
