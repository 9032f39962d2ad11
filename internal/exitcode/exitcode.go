// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task number).
	UserError = 1

	// AuthError indicates an auth or missing project configuration error.
	AuthError = 2

	// BackendError indicates a Firestore or network error.
	BackendError = 3
)
