package logger

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var once sync.Once

// Init configures the global zerolog logger. A debug run always logs at DEBUG.
func Init(appName, logLevel string, debug bool) {
	once.Do(func() {
		if debug {
			logLevel = "DEBUG"
		}
		if logLevel == "" {
			logLevel = "INFO"
		}
		setLogLevel(logLevel)
		log.Logger = newLogger(os.Stdout, appName)
	})
}

func newLogger(out io.Writer, appName string) zerolog.Logger {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		parts := strings.Split(file, "/")
		return parts[len(parts)-1] + ":" + strconv.Itoa(line)
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "02-01-2006 15:04:05.000",
		FormatLevel: func(i interface{}) string {
			return strings.ToUpper(fmt.Sprintf("%-6s", i))
		},
		FieldsExclude: []string{"app"},
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		},
	}).With().Timestamp().Caller().Str("app", appName).Logger()
}

func setLogLevel(logLevel string) {
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "WARN":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "ERROR":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
