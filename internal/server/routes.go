package server

import (
	"net/url"
	"time"

	"scribe/internal/middleware"
	"scribe/internal/models"

	"github.com/gofiber/fiber/v2"
)

// viewerHandler is a page handler that receives the resolved viewer, nil when anonymous.
type viewerHandler func(c *fiber.Ctx, viewer *models.User) error

// route is one entry of the route table.
type route struct {
	method     string
	path       string
	auth       bool
	middleware []fiber.Handler
	handler    viewerHandler
}

func (s *Server) routes() []route {
	loginLimit := middleware.RateLimit(s.redis, 10, 5*time.Minute, "login")
	// With redis configured, an unreachable store blocks sign-ups instead of letting them through unthrottled.
	registerPolicy := middleware.FailOpen
	if s.redis != nil {
		registerPolicy = middleware.FailClosed
	}
	registerLimit := middleware.RateLimitWithPolicy(s.redis, 3, 10*time.Minute, registerPolicy, "register")
	commentLimit := middleware.RateLimit(s.redis, 15, time.Minute, "create_comment")

	return []route{
		{method: fiber.MethodGet, path: "/", handler: s.home},
		{method: fiber.MethodGet, path: "/about/", handler: s.about},
		{method: fiber.MethodGet, path: "/search/", handler: s.search},

		{method: fiber.MethodGet, path: "/post/:id/", handler: s.postDetail},
		{method: fiber.MethodPost, path: "/post/:id/", auth: true, middleware: []fiber.Handler{commentLimit}, handler: s.addComment},

		{method: fiber.MethodGet, path: "/create-post/", auth: true, handler: s.createPostForm},
		{method: fiber.MethodPost, path: "/create-post/", auth: true, handler: s.createPost},
		{method: fiber.MethodGet, path: "/update-post/:id/", auth: true, handler: s.updatePostForm},
		{method: fiber.MethodPost, path: "/update-post/:id/", auth: true, handler: s.updatePost},
		{method: fiber.MethodGet, path: "/delete-post/:id/", auth: true, handler: s.deletePostConfirm},
		{method: fiber.MethodPost, path: "/delete-post/:id/", auth: true, handler: s.deletePost},
		{method: fiber.MethodGet, path: "/delete-comment/:id/", auth: true, handler: s.deleteCommentConfirm},
		{method: fiber.MethodPost, path: "/delete-comment/:id/", auth: true, handler: s.deleteComment},

		{method: fiber.MethodGet, path: "/login/", handler: s.loginForm},
		{method: fiber.MethodPost, path: "/login/", middleware: []fiber.Handler{loginLimit}, handler: s.login},
		{method: fiber.MethodGet, path: "/logout/", handler: s.logout},
		{method: fiber.MethodGet, path: "/register/", handler: s.registerForm},
		{method: fiber.MethodPost, path: "/register/", middleware: []fiber.Handler{registerLimit}, handler: s.register},
	}
}

// adapt turns a route into a fiber handler. Anonymous requests to auth routes go to the login page.
func (s *Server) adapt(r route) fiber.Handler {
	return func(c *fiber.Ctx) error {
		viewer := viewerFrom(c)
		if r.auth && viewer == nil {
			return c.Redirect(loginURL(c.OriginalURL()))
		}
		return r.handler(c, viewer)
	}
}

func loginURL(next string) string {
	return "/login/?" + url.Values{"next": {next}}.Encode()
}
