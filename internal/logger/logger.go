// internal/logger/logger.go
// Inisialisasi logrus global (level + format dari config)
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log dipakai lintas package; default aman dipakai sebelum Init.
var Log = logrus.New()

// Init mengatur level dan format. format: "json" (default) atau "text".
func Init(levelStr, format string) {
	InitWithOutput(levelStr, format, os.Stdout)
}

func InitWithOutput(levelStr, format string, out io.Writer) {
	level, err := logrus.ParseLevel(strings.TrimSpace(levelStr))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.EqualFold(format, "text") {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "@t",
			},
		})
	}
	Log.SetOutput(out)
}

// With singkatan untuk entry dengan field event (field "event").
func With(event string) *logrus.Entry {
	return Log.WithField("event", event)
}
