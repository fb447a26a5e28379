// Package log expõe o logger zap do processo.
//
// LOG_LEVEL (debug, info, warn, error) e LOG_FORMAT (json ou console) são lidos
// uma única vez, na primeira chamada de Logger.
package log

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	once   sync.Once
	logger *zap.Logger
	mu     sync.RWMutex
)

// Logger retorna o logger do processo, criando-o na primeira chamada.
func Logger() *zap.Logger {
	once.Do(func() {
		l, err := build(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
		if err != nil {
			l = zap.NewNop()
		}
		mu.Lock()
		if logger == nil {
			logger = l
		}
		mu.Unlock()
	})
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetLogger troca o logger do processo (usado em testes e nos binários).
// Retorna uma função que restaura o anterior.
func SetLogger(l *zap.Logger) (restore func()) {
	_ = Logger()
	mu.Lock()
	prev := logger
	logger = l
	mu.Unlock()
	return func() {
		mu.Lock()
		logger = prev
		mu.Unlock()
	}
}

func build(level, format string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if level = strings.TrimSpace(level); level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return cfg.Build()
}
