package cmd

import (
	"fmt"
	"strings"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock returns actionable guidance when the store is held by
// another vimmeta process, usually a running `vimmeta watch`.
func diagnoseDBLock(dbPath string) string {
	return fmt.Sprintf("database is locked by another vimmeta process\n"+
		"  → a `vimmeta watch` may be running; stop it first\n"+
		"  → find the process:  ps aux | grep 'vimmeta'\n"+
		"  → database:          %s", dbPath)
}
