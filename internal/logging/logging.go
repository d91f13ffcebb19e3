package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Defaults of the two sinks.
const (
	DefaultLevel     = "info"
	DefaultFileLevel = "debug"
)

// Options configures Configure.
type Options struct {
	// Level of the console sink.
	Level string
	// FileLevel of the file sink.
	FileLevel string
	// Dir receives one sfmeta_<timestamp>.log file per run. Empty disables
	// the file sink.
	Dir string
	// Console defaults to os.Stdout.
	Console io.Writer
	// Now defaults to time.Now and names the log file.
	Now func() time.Time
}

// Configure builds a logger writing to the console and, when opts.Dir is
// set, to a new file in that directory. The returned closer releases the
// file.
func Configure(opts Options) (*logrus.Logger, io.Closer, error) {
	consoleLevel, err := parseLevel(opts.Level, DefaultLevel)
	if err != nil {
		return nil, nil, err
	}

	fileLevel, err := parseLevel(opts.FileLevel, DefaultFileLevel)
	if err != nil {
		return nil, nil, err
	}

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(consoleLevel)
	log.AddHook(newSinkHook(console, &ConsoleFormatter{}, consoleLevel))

	if opts.Dir == "" {
		return log, nopCloser{}, nil
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory %s: %w", opts.Dir, err)
	}

	path := filepath.Join(opts.Dir, "sfmeta_"+now().Format("2006-01-02_15-04-05")+".log")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	if fileLevel > consoleLevel {
		log.SetLevel(fileLevel)
	}

	log.SetReportCaller(true)
	log.AddHook(newSinkHook(f, &DetailedFormatter{}, fileLevel))

	return log, f, nil
}

func parseLevel(s, def string) (logrus.Level, error) {
	if s == "" {
		s = def
	}

	l, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("invalid log level: %w", err)
	}

	return l, nil
}

// sinkHook writes entries up to a level with its own formatter.
type sinkHook struct {
	mu        sync.Mutex
	w         io.Writer
	formatter logrus.Formatter
	levels    []logrus.Level
}

func newSinkHook(w io.Writer, formatter logrus.Formatter, level logrus.Level) *sinkHook {
	return &sinkHook{w: w, formatter: formatter, levels: logrus.AllLevels[:level+1]}
}

func (h *sinkHook) Levels() []logrus.Level {
	return h.levels
}

func (h *sinkHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err = h.w.Write(line)

	return err
}

// ConsoleFormatter renders "LEVEL|message key=value".
type ConsoleFormatter struct{}

func (f *ConsoleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "%-5s|%s", levelName(entry.Level), entry.Message)
	writeFields(&b, entry.Data)
	b.WriteByte('\n')

	return []byte(b.String()), nil
}

// DetailedFormatter renders "time|LEVEL|file:line|message key=value".
type DetailedFormatter struct{}

func (f *DetailedFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder

	caller := "-"
	if entry.HasCaller() {
		caller = fmt.Sprintf("%s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}

	fmt.Fprintf(&b, "%s|%-5s|%s|%s",
		entry.Time.Format("2006-01-02 15:04:05"), levelName(entry.Level), caller, entry.Message)
	writeFields(&b, entry.Data)
	b.WriteByte('\n')

	return []byte(b.String()), nil
}

func levelName(l logrus.Level) string {
	if l == logrus.WarnLevel {
		return "WARN"
	}

	return strings.ToUpper(l.String())
}

func writeFields(b *strings.Builder, data logrus.Fields) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, data[k])
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
