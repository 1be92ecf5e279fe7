package logx

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config is read from LOG_*. Level wins over Debug when both are set.
type Config struct {
	Level        string `split_words:"true" default:"info"`
	Debug        bool   `split_words:"true" default:"false"`
	PrettyFormat bool   `split_words:"true" default:"false"`
}

// New builds a logger writing to w. An unparsable level falls back to info.
func New(w io.Writer, conf Config) zerolog.Logger {
	if conf.PrettyFormat {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	logger := zerolog.New(w).With().Timestamp().Logger()
	return logger.Level(conf.level())
}

// Init replaces the global logger. Logs go to stderr so stdout stays free for
// command output.
func Init(opts ...Config) {
	var conf Config
	if len(opts) > 0 {
		conf = opts[0]
	}
	log.Logger = New(os.Stderr, conf).With().Caller().Logger()
}

func (c Config) level() zerolog.Level {
	if lvl := strings.TrimSpace(c.Level); lvl != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(lvl)); err == nil && parsed != zerolog.NoLevel {
			if c.Debug && parsed > zerolog.DebugLevel {
				return zerolog.DebugLevel
			}
			return parsed
		}
	}
	if c.Debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
