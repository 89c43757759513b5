package logger

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu      sync.Mutex
	log     = newDefault()
	logFile *lumberjack.Logger
)

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// InitLogger sets the level and, when filename is not empty, mirrors output
// into a size-rotated log file.
func InitLogger(filename string, level string) error {
	mu.Lock()
	defer mu.Unlock()

	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return err
		}
		log.SetLevel(lvl)
	}

	if filename == "" {
		return nil
	}
	logFile = &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    50, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, logFile))
	return nil
}

// SetOutput redirects the logger, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log.SetOutput(w)
}

func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
		log.SetOutput(os.Stdout)
	}
}

// WithFields returns an entry carrying structured context.
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return log.WithFields(logrus.Fields(fields))
}

func Debugf(format string, v ...interface{}) {
	log.Debugf(format, v...)
}

func Info(format string, v ...interface{}) {
	log.Infof(format, v...)
}

func Infof(format string, v ...interface{}) {
	Info(format, v...)
}

func Error(format string, v ...interface{}) {
	log.Errorf(format, v...)
}

func Errorf(format string, v ...interface{}) {
	Error(format, v...)
}

func Warn(format string, v ...interface{}) {
	log.Warnf(format, v...)
}

func Warnf(format string, v ...interface{}) {
	Warn(format, v...)
}
