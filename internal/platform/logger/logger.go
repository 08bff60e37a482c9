package logger

import (
	"fmt"
	"log"
	"os"
	"reflect"
	"runtime"
	"strings"
	"sync"

	"github.com/ohmynofan/weth-wrapper/internal/platform/ui"
	"github.com/ohmynofan/weth-wrapper/pkg/utils"
)

var (
	fileLogger *log.Logger
	once       sync.Once
	logFile    *os.File
)

func Init(path string) error {
	var err error
	once.Do(func() {
		os.Remove(path)
		if err = os.MkdirAll(dirOf(path), 0o755); err != nil {
			return
		}
		logFile, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return
		}
		fileLogger = log.New(logFile, "", log.Ldate|log.Ltime|log.Lmicroseconds)
	})
	return err
}

func Close() error {
	if logFile != nil {
		return logFile.Close()
	}
	return nil
}

func dirOf(path string) string {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return "."
	}
	return path[:i]
}

type ClassLogger struct {
	class string
}

func NewLogger(v interface{}) *ClassLogger {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return &ClassLogger{class: t.Name()}
}

// Log writes to the log file and mirrors the message on the active status line.
func (l *ClassLogger) Log(msg string) {
	l.write(msg)
	ui.UpdateStatus(shortenForDisplay(msg))
}

func (l *ClassLogger) JustLog(msg string) {
	l.write(msg)
}

func (l *ClassLogger) LogObject(msg string, obj interface{}) {
	if fileLogger != nil {
		formattedString, err := utils.FormatObject(obj)
		if err != nil {
			l.JustLog(fmt.Sprintf("Error formatting object: %v", err))
			return
		}
		l.JustLog(fmt.Sprintf("%s : \n%v", msg, formattedString))
	}
}

func (l *ClassLogger) write(msg string) {
	if fileLogger == nil {
		return
	}
	fileLogger.Printf("[%s][%s] %s", l.class, callerFunc(3), msg)
}

func callerFunc(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	parts := strings.Split(fn.Name(), ".")
	return parts[len(parts)-1]
}

func shortenForDisplay(msg string) string {
	const maxLen = 140
	runes := []rune(msg)
	if len(runes) <= maxLen {
		return msg
	}
	return string(runes[:maxLen-1]) + "…"
}
