package model

import "strings"

// doneStatuses are the workflow statuses treated as completed work.
var doneStatuses = map[string]bool{
	"closed":   true,
	"deployed": true,
	"done":     true,
	"resolved": true,
}

// StatusIsDone reports whether a Jira status name counts as completed.
func StatusIsDone(status string) bool {
	return doneStatuses[strings.ToLower(strings.TrimSpace(status))]
}
