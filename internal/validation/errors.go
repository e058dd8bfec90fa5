// Package validation provides form cleaning and input validation.
package validation

// Errors maps a form field name to its messages.
type Errors map[string][]string

// NonField is the key for messages that belong to the form as a whole.
const NonField = "__all__"

// Add appends a message for field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Any reports whether at least one message was recorded.
func (e Errors) Any() bool {
	return len(e) > 0
}

// First returns the first message for field, or "".
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}
