package service

import (
	"context"
	"errors"
	"strings"

	"scribe/internal/models"
	"scribe/internal/repository"
	"scribe/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// MsgLoginFailed is shown for any failed login so the form does not reveal which part was wrong.
const MsgLoginFailed = "Username OR password incorrect"

const (
	msgUsernameTaken = "A user with that username already exists."
	msgEmailTaken    = "A user with that email already exists."
)

type AuthService struct {
	userRepo repository.UserRepository
	hashCost int
	// dummyHash is compared against on unknown emails to keep response timing uniform.
	dummyHash []byte
}

type RegisterInput struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
}

func NewAuthService(userRepo repository.UserRepository, hashCost int) *AuthService {
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("scribe-dummy-password"), hashCost)
	return &AuthService{userRepo: userRepo, hashCost: hashCost, dummyHash: dummy}
}

// Authenticate resolves a user by email (case-insensitive) and password.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, models.NewUnauthorizedError(MsgLoginFailed)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, models.NewUnauthorizedError(MsgLoginFailed)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError(MsgLoginFailed)
	}
	return user, nil
}

// Register validates the sign-up form and creates the account.
// Username and email are stored lower-cased.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	form := validation.RegistrationForm{
		Username:  in.Username,
		Email:     in.Email,
		Password1: in.Password1,
		Password2: in.Password2,
	}
	errs := form.Clean()
	username := strings.ToLower(form.Username)
	email := strings.ToLower(form.Email)

	if _, bad := errs["username"]; !bad && username != "" {
		existing, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			errs.Add("username", msgUsernameTaken)
		}
	}
	if _, bad := errs["email"]; !bad && email != "" {
		existing, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			errs.Add("email", msgEmailTaken)
		}
	}
	if errs.Any() {
		return nil, models.NewFieldErrors(errs)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password1), s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{Username: username, Email: email, Password: string(hash)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race with a concurrent registration.
			return nil, models.NewFieldErrors(validation.Errors{"username": {msgUsernameTaken}})
		}
		return nil, err
	}
	return user, nil
}
