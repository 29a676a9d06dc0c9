package analyze

import (
	"io"
	"log"

	"gopkg.in/natefinch/lumberjack.v2"
)

func newLogger(c AnalyzerConfig, stderr io.Writer) (*log.Logger, io.Closer) {
	if c.LogOutput == "" {
		return log.New(stderr, "", log.LstdFlags), nil
	}
	fileLogger := &lumberjack.Logger{
		Filename:   c.LogOutput,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
	}
	return log.New(fileLogger, "", log.LstdFlags), fileLogger
}
