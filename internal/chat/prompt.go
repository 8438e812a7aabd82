package chat

import "strings"

// ComposePrompt prefixes message with the user's health context. A report (the
// text of an uploaded document, possibly empty) takes precedence over the
// condition tags, which are then left out of the prompt entirely.
func ComposePrompt(message string, conditions []string, report *string) string {
	var prefix string
	switch {
	case report != nil:
		prefix = "User has the following health conditions based on the report: " + *report + " "
	case len(conditions) > 0:
		prefix = "User has " + strings.Join(conditions, ", ") + ". "
	}
	return prefix + message
}

// JoinConditions is the form condition tags are persisted in.
func JoinConditions(conditions []string) string {
	return strings.Join(conditions, ", ")
}
