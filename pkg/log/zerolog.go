package log

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/polyfit/pkg/errors"
)

// NewZerologWarnFunc returns a warning sink that writes each library warning
// as a zerolog JSON record on w. Warnings implementing
// zerolog.LogObjectMarshaler contribute their structured fields.
func NewZerologWarnFunc(w io.Writer) func(warning error) {
	logger := zerolog.New(w).With().Timestamp().Str(ComponentKey, "polyfit").Logger()
	return func(warning error) {
		ev := logger.Warn()
		if m, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev = ev.EmbedObject(m)
		}
		ev.Msg(warning.Error())
	}
}

// RouteWarningsToZerolog installs NewZerologWarnFunc(w) as the process-wide
// warning sink used by errors.Warn.
func RouteWarningsToZerolog(w io.Writer) {
	errors.SetZerologWarnFunc(NewZerologWarnFunc(w))
}
