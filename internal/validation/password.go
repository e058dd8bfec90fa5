package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	PasswordMinLength = 8
	PasswordMaxLength = 128

	// maxSimilarity is the ratio above which a password counts as derived from a user attribute.
	maxSimilarity = 0.7
)

var nonWord = regexp.MustCompile(`\W+`)

// commonPasswords is a short deny-list of the most frequently leaked passwords.
var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password12": {}, "password123": {}, "passw0rd": {},
	"12345678": {}, "123456789": {}, "1234567890": {}, "87654321": {}, "11111111": {},
	"00000000": {}, "qwertyuiop": {}, "qwerty123": {}, "qwertyui": {}, "1q2w3e4r": {},
	"1qaz2wsx": {}, "iloveyou": {}, "sunshine": {}, "princess": {}, "football": {},
	"baseball": {}, "welcome1": {}, "welcome123": {}, "letmein1": {}, "abc12345": {},
	"abcd1234": {}, "trustno1": {}, "superman": {}, "starwars": {}, "whatever": {},
	"dragon12": {}, "master123": {}, "monkey123": {}, "shadow12": {}, "michael1": {},
	"jennifer": {}, "computer": {}, "internet": {}, "changeme": {}, "administrator": {},
	"admin123": {}, "zaq12wsx": {}, "asdfghjk": {}, "asdfasdf": {}, "secret123": {},
	"hello123": {}, "freedom1": {}, "mustang1": {}, "charlie1": {}, "batman123": {},
}

// CheckPassword applies the password strength policy and returns every violated rule.
// userAttrs are values the password must not closely resemble.
func CheckPassword(password string, userAttrs ...string) []string {
	var msgs []string
	n := utf8.RuneCountInString(password)
	if n < PasswordMinLength {
		msgs = append(msgs, fmt.Sprintf("This password is too short. It must contain at least %d characters.", PasswordMinLength))
	}
	if n > PasswordMaxLength {
		msgs = append(msgs, fmt.Sprintf("This password is too long. It must contain at most %d characters.", PasswordMaxLength))
	}
	if attr, ok := similarAttribute(password, userAttrs); ok {
		msgs = append(msgs, fmt.Sprintf("The password is too similar to the %s.", attr))
	}
	if _, ok := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; ok {
		msgs = append(msgs, "This password is too common.")
	}
	if isNumeric(password) {
		msgs = append(msgs, "This password is entirely numeric.")
	}
	return msgs
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// similarAttribute compares the password with each attribute and its word parts.
// The returned label is "username" for the first attribute and "email address" otherwise.
func similarAttribute(password string, attrs []string) (string, bool) {
	pw := strings.ToLower(password)
	for i, attr := range attrs {
		if attr == "" {
			continue
		}
		value := strings.ToLower(attr)
		parts := append(nonWord.Split(value, -1), value)
		for _, part := range parts {
			if part == "" {
				continue
			}
			if similarity(pw, part) >= maxSimilarity {
				if i == 0 {
					return "username", true
				}
				return "email address", true
			}
		}
	}
	return "", false
}

// similarity is 2*LCS/(len(a)+len(b)) over runes, in [0, 1].
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 0
	}
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			switch {
			case ra[i-1] == rb[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return 2 * float64(prev[len(rb)]) / float64(total)
}
