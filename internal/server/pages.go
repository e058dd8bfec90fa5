package server

import (
	"scribe/internal/models"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) home(c *fiber.Ctx, viewer *models.User) error {
	page, err := s.postService.ListHome(c.UserContext(), c.Query("page"))
	if err != nil {
		return err
	}
	return s.render(c, viewer, "home", fiber.Map{"page": page})
}

func (s *Server) about(c *fiber.Ctx, viewer *models.User) error {
	return s.render(c, viewer, "about", nil)
}

// search matches the q parameter against post text. A missing or empty q lists nothing.
func (s *Server) search(c *fiber.Ctx, viewer *models.User) error {
	query := c.Query("q")
	posts, err := s.postService.Search(c.UserContext(), query)
	if err != nil {
		return err
	}
	return s.render(c, viewer, "search_results", fiber.Map{
		"posts": posts,
		"query": query,
	})
}
