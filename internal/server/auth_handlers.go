package server

import (
	"log/slog"

	"scribe/internal/middleware"
	"scribe/internal/models"
	"scribe/internal/service"
	"scribe/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// authForm carries the non-secret values echoed back into the login and register forms.
type authForm struct {
	Username string
	Email    string
}

func (s *Server) loginForm(c *fiber.Ctx, viewer *models.User) error {
	if viewer != nil {
		return c.Redirect("/")
	}
	return s.renderAuthPage(c, nil, "login", authForm{}, nil, nil)
}

func (s *Server) login(c *fiber.Ctx, viewer *models.User) error {
	if viewer != nil {
		return c.Redirect("/")
	}

	email := c.FormValue("email")
	user, err := s.authService.Authenticate(c.UserContext(), email, c.FormValue("password"))
	if models.HasCode(err, models.CodeUnauthorized) {
		middleware.LoginFailures.Inc()
		middleware.Logger.InfoContext(c.UserContext(), "login failed", slog.String("ip", c.IP()))
		return s.renderAuthPage(c, nil, "login", authForm{Email: email}, nil, []string{service.MsgLoginFailed})
	}
	if err != nil {
		return err
	}

	if err := s.startSession(c, user); err != nil {
		return err
	}
	if next := safeNext(c.FormValue("next")); next != "" {
		return c.Redirect(next)
	}
	return c.Redirect("/")
}

func (s *Server) logout(c *fiber.Ctx, _ *models.User) error {
	s.endSession(c)
	return c.Redirect("/")
}

func (s *Server) registerForm(c *fiber.Ctx, viewer *models.User) error {
	return s.renderAuthPage(c, viewer, "register", authForm{}, nil, nil)
}

func (s *Server) register(c *fiber.Ctx, viewer *models.User) error {
	form := authForm{Username: c.FormValue("username"), Email: c.FormValue("email")}
	user, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Username:  form.Username,
		Email:     form.Email,
		Password1: c.FormValue("password1"),
		Password2: c.FormValue("password2"),
	})
	if errs, ok := fieldErrors(err); ok {
		middleware.FormRejections.WithLabelValues("register").Inc()
		return s.renderAuthPage(c, viewer, "register", form, errs, nil)
	}
	if err != nil {
		return err
	}

	middleware.Logger.InfoContext(c.UserContext(), "user registered", slog.Uint64("user_id", uint64(user.ID)))
	if err := s.startSession(c, user); err != nil {
		return err
	}
	return c.Redirect("/")
}

func (s *Server) renderAuthPage(c *fiber.Ctx, viewer *models.User, page string, form authForm, errs validation.Errors, messages []string) error {
	if errs == nil {
		errs = validation.Errors{}
	}
	return s.render(c, viewer, "login_register", fiber.Map{
		"page":     page,
		"form":     form,
		"errors":   errs,
		"messages": messages,
		"next":     safeNext(c.Query("next", c.FormValue("next"))),
	})
}
