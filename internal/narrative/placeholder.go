package narrative

import "strings"

const (
	// Placeholder is the token templates use for the student's first name
	Placeholder = "[Student]"

	// AnonymousName stands in when no student name is available
	AnonymousName = "the student"
)

// FirstName returns the first whitespace-delimited token of a full name,
// or AnonymousName when the name is blank.
func FirstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return AnonymousName
	}
	return fields[0]
}

// Substitute replaces every Placeholder in text with name
func Substitute(text, name string) string {
	return strings.ReplaceAll(text, Placeholder, name)
}
