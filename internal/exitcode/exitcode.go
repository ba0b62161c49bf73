// Package exitcode defines the process exit codes used by mvorg.
package exitcode

const (
	Success           = 0
	RuntimeFailure    = 1
	InvalidUsage      = 2
	InvalidConfig     = 3
	MissingDependency = 4
	Interrupted       = 130
)
