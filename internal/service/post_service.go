// Package service holds the application's use cases on top of the repositories.
package service

import (
	"context"
	"strconv"
	"strings"

	"scribe/internal/models"
	"scribe/internal/repository"
	"scribe/internal/validation"
)

// PageSize is the number of posts shown per home page.
const PageSize = 2

// Page is one page of the home listing.
type Page struct {
	Posts    []*models.Post
	Number   int
	NumPages int
	Total    int64
}

func (p *Page) HasPrevious() bool   { return p.Number > 1 }
func (p *Page) HasNext() bool       { return p.Number < p.NumPages }
func (p *Page) HasOtherPages() bool { return p.HasPrevious() || p.HasNext() }
func (p *Page) PreviousNumber() int { return p.Number - 1 }
func (p *Page) NextNumber() int     { return p.Number + 1 }

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	UserID uint
	Title  string
	Text   string
}

type UpdatePostInput struct {
	PostID uint
	Title  string
	Text   string
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// ListHome returns the requested page of posts, newest first.
// A non-integer page yields page 1; a page outside the range yields the last page.
func (s *PostService) ListHome(ctx context.Context, rawPage string) (*Page, error) {
	total, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	numPages := int((total + PageSize - 1) / PageSize)
	if numPages == 0 {
		numPages = 1
	}

	number, convErr := strconv.Atoi(strings.TrimSpace(rawPage))
	switch {
	case convErr != nil:
		number = 1
	case number < 1 || number > numPages:
		number = numPages
	}

	posts, err := s.postRepo.List(ctx, PageSize, (number-1)*PageSize, repository.OrderNewest)
	if err != nil {
		return nil, err
	}
	return &Page{Posts: posts, Number: number, NumPages: numPages, Total: total}, nil
}

// Search returns posts whose text contains query, ignoring case. An empty query matches nothing;
// whitespace is searched for like any other text.
func (s *PostService) Search(ctx context.Context, query string) ([]*models.Post, error) {
	if query == "" {
		return []*models.Post{}, nil
	}
	return s.postRepo.Search(ctx, query)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	form := validation.PostForm{Title: in.Title, Text: in.Text}
	if errs := form.Clean(); errs.Any() {
		return nil, models.NewFieldErrors(errs)
	}

	userID := in.UserID
	post := &models.Post{Title: form.Title, Text: form.Text, UserID: &userID}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost replaces title and text. The author is left unchanged.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	form := validation.PostForm{Title: in.Title, Text: in.Text}
	if errs := form.Clean(); errs.Any() {
		return post, models.NewFieldErrors(errs)
	}

	post.Title = form.Title
	post.Text = form.Text
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes the post together with its comments.
func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	if _, err := s.postRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, id)
}
