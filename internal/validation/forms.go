package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	TitleMaxLength    = 100
	UsernameMaxLength = 150
	EmailMaxLength    = 254
)

const msgRequired = "This field is required."

var (
	usernameRegex = regexp.MustCompile(`^[\p{L}\p{N}_.@+\-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// PostForm holds the editable fields of a post.
type PostForm struct {
	Title string
	Text  string
}

// Clean trims the fields in place and validates them.
func (f *PostForm) Clean() Errors {
	errs := Errors{}
	f.Title = strings.TrimSpace(f.Title)
	f.Text = strings.TrimSpace(f.Text)

	if f.Title == "" {
		errs.Add("title", msgRequired)
	} else if n := utf8.RuneCountInString(f.Title); n > TitleMaxLength {
		errs.Add("title", maxLengthMessage(TitleMaxLength, n))
	}
	if f.Text == "" {
		errs.Add("text", msgRequired)
	}
	return errs
}

// RegistrationForm is the sign-up form. Passwords are never trimmed.
type RegistrationForm struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
}

// Clean trims username and email in place and validates every field.
// Uniqueness is not checked here.
func (f *RegistrationForm) Clean() Errors {
	errs := Errors{}
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)

	if err := ValidateUsername(f.Username); err != nil {
		errs.Add("username", err.Error())
	}
	if err := ValidateEmail(f.Email); err != nil {
		errs.Add("email", err.Error())
	}

	if f.Password1 == "" {
		errs.Add("password1", msgRequired)
	}
	if f.Password2 == "" {
		errs.Add("password2", msgRequired)
	}
	if f.Password1 == "" || f.Password2 == "" {
		return errs
	}
	if f.Password1 != f.Password2 {
		errs.Add("password2", "The two password fields didn't match.")
		return errs
	}
	for _, msg := range CheckPassword(f.Password2, f.Username, f.Email) {
		errs.Add("password2", msg)
	}
	return errs
}

// ValidateUsername checks that a username is present, short enough and uses allowed characters.
func ValidateUsername(username string) error {
	if username == "" {
		return errors.New(msgRequired)
	}
	if n := utf8.RuneCountInString(username); n > UsernameMaxLength {
		return errors.New(maxLengthMessage(UsernameMaxLength, n))
	}
	if !usernameRegex.MatchString(username) {
		return errors.New("Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New(msgRequired)
	}
	if n := utf8.RuneCountInString(email); n > EmailMaxLength {
		return errors.New(maxLengthMessage(EmailMaxLength, n))
	}
	if !emailRegex.MatchString(email) {
		return errors.New("Enter a valid email address.")
	}
	return nil
}

func maxLengthMessage(limit, got int) string {
	return fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", limit, got)
}
