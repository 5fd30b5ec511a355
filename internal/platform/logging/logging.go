// Package logging configures the process-wide zerolog logger. Command
// output goes to stdout; operational anomalies (corrupt records, clock
// regressions, orphan recovery) go through here to stderr.
package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Setup(verbose bool) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})
}
