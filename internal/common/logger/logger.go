package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the shared logrus backend. Zero value logs JSON at info
// level to stdout.
type Options struct {
	Level      string
	Format     string // json | text
	File       string // rotated by lumberjack when set
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var (
	mu   sync.RWMutex
	base = newBase(Options{})
)

func newBase(opts Options) *logrus.Logger {
	l := logrus.New()
	if strings.EqualFold(opts.Format, "text") {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000000000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	}
	lvl, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	var out io.Writer = os.Stdout
	if opts.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 50),
			MaxBackups: orDefault(opts.MaxBackups, 5),
			MaxAge:     orDefault(opts.MaxAgeDays, 14),
			Compress:   true,
		})
	}
	l.SetOutput(out)
	return l
}

// Setup replaces the shared backend. Loggers created earlier pick it up too.
func Setup(opts Options) {
	l := newBase(opts)
	mu.Lock()
	base = l
	mu.Unlock()
}

// SetOutput redirects the backend, used by tests to capture entries.
func SetOutput(w io.Writer) {
	mu.RLock()
	defer mu.RUnlock()
	base.SetOutput(w)
}

func backend() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

type Logger struct{ service string }

func New(service string) *Logger { return &Logger{service: service} }

func (l *Logger) entry(action string, fields map[string]any) *logrus.Entry {
	e := backend().WithFields(logrus.Fields{
		"service":  l.service,
		"action":   action,
		"hostname": hostname(),
	})
	if len(fields) > 0 {
		e = e.WithFields(logrus.Fields(fields))
	}
	return e
}

func (l *Logger) Info(action string, fields map[string]any)  { l.entry(action, fields).Info(action) }
func (l *Logger) Debug(action string, fields map[string]any) { l.entry(action, fields).Debug(action) }
func (l *Logger) Warn(action string, fields map[string]any)  { l.entry(action, fields).Warn(action) }
func (l *Logger) Error(action string, err error, fields map[string]any) {
	e := l.entry(action, fields)
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(action)
}

var (
	hostOnce sync.Once
	host     string
)

func hostname() string {
	hostOnce.Do(func() { host, _ = os.Hostname() })
	return host
}

func orDefault(v, d int) int {
	if v <= 0 {
		return d
	}
	return v
}
