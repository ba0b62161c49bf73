// Package logging configures the diagnostic logger. User-facing progress is
// emitted through internal/output; apex/log carries debug detail to stderr.
package logging

import (
	"io"

	"github.com/apex/log"
	logcli "github.com/apex/log/handlers/cli"
)

func Setup(w io.Writer, verbose, quiet bool) {
	log.SetHandler(logcli.New(w))
	switch {
	case verbose:
		log.SetLevel(log.DebugLevel)
	case quiet:
		log.SetLevel(log.WarnLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}
