package server

import (
	"scribe/internal/models"
	"scribe/internal/service"

	"github.com/gofiber/fiber/v2"
)

// addComment stores the submitted text as a comment by the viewer. The text is not validated.
func (s *Server) addComment(c *fiber.Ctx, viewer *models.User) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	_, err = s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID: viewer.ID,
		PostID: id,
		Text:   c.FormValue("text"),
	})
	if err != nil {
		return err
	}
	return c.Redirect(postURL(id))
}

// Any logged-in user may delete any comment.
func (s *Server) deleteCommentConfirm(c *fiber.Ctx, viewer *models.User) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	comment, err := s.commentService.GetComment(c.UserContext(), id)
	if err != nil {
		return err
	}
	return s.render(c, viewer, "delete_comment", fiber.Map{"object": comment})
}

func (s *Server) deleteComment(c *fiber.Ctx, _ *models.User) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	comment, err := s.commentService.DeleteComment(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Redirect(postURL(comment.PostID))
}
