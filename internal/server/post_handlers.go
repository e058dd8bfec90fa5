package server

import (
	"scribe/internal/middleware"
	"scribe/internal/models"
	"scribe/internal/service"
	"scribe/internal/validation"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) postDetail(c *fiber.Ctx, viewer *models.User) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()

	post, err := s.postService.GetPost(ctx, id)
	if err != nil {
		return err
	}
	comments, err := s.commentService.ListForPost(ctx, id)
	if err != nil {
		return err
	}
	return s.render(c, viewer, "post", fiber.Map{
		"post":     post,
		"comments": comments,
	})
}

func (s *Server) createPostForm(c *fiber.Ctx, viewer *models.User) error {
	return s.renderPostForm(c, viewer, true, "/create-post/", validation.PostForm{}, nil)
}

func (s *Server) createPost(c *fiber.Ctx, viewer *models.User) error {
	form := validation.PostForm{Title: c.FormValue("title"), Text: c.FormValue("text")}
	_, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID: viewer.ID,
		Title:  form.Title,
		Text:   form.Text,
	})
	if errs, ok := fieldErrors(err); ok {
		middleware.FormRejections.WithLabelValues("post").Inc()
		return s.renderPostForm(c, viewer, true, "/create-post/", form, errs)
	}
	if err != nil {
		return err
	}
	return c.Redirect("/")
}

// Any logged-in user may edit any post.
func (s *Server) updatePostForm(c *fiber.Ctx, viewer *models.User) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}
	form := validation.PostForm{Title: post.Title, Text: post.Text}
	return s.renderPostForm(c, viewer, false, "/update-post/"+c.Params("id")+"/", form, nil)
}

func (s *Server) updatePost(c *fiber.Ctx, viewer *models.User) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	form := validation.PostForm{Title: c.FormValue("title"), Text: c.FormValue("text")}
	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		PostID: id,
		Title:  form.Title,
		Text:   form.Text,
	})
	if errs, ok := fieldErrors(err); ok {
		middleware.FormRejections.WithLabelValues("post").Inc()
		return s.renderPostForm(c, viewer, false, "/update-post/"+c.Params("id")+"/", form, errs)
	}
	if err != nil {
		return err
	}
	return c.Redirect(postURL(post.ID))
}

func (s *Server) renderPostForm(c *fiber.Ctx, viewer *models.User, creating bool, action string, form validation.PostForm, errs validation.Errors) error {
	if errs == nil {
		errs = validation.Errors{}
	}
	return s.render(c, viewer, "post_form", fiber.Map{
		"form":        form,
		"errors":      errs,
		"is_creating": creating,
		"action":      action,
	})
}

// Any logged-in user may delete any post.
func (s *Server) deletePostConfirm(c *fiber.Ctx, viewer *models.User) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}
	return s.render(c, viewer, "post_delete", fiber.Map{"object": post})
}

func (s *Server) deletePost(c *fiber.Ctx, _ *models.User) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := s.postService.DeletePost(c.UserContext(), id); err != nil {
		return err
	}
	return c.Redirect("/")
}
