// 指示: miu200521358
// Package logging はプロセス共通のロガーを提供する。
package logging

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger は書式付きログ出力を提供する。
type Logger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

var (
	defaultMu     sync.RWMutex
	defaultLogger *Logger
)

// NewLogger はロガーを生成する。core が nil の場合は標準エラーへのコンソール出力を使う。
func NewLogger(core zapcore.Core) *Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if core == nil {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		core = zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.Lock(os.Stderr),
			level,
		)
	}
	return &Logger{
		sugar: zap.New(core).Sugar(),
		level: level,
	}
}

// DefaultLogger は既定ロガーを返す。未設定時はコンソール出力ロガーを生成する。
func DefaultLogger() *Logger {
	defaultMu.RLock()
	logger := defaultLogger
	defaultMu.RUnlock()
	if logger != nil {
		return logger
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewLogger(nil)
	}
	return defaultLogger
}

// SetDefaultLogger は既定ロガーを差し替え、差し替え前のロガーを返す。
func SetDefaultLogger(logger *Logger) *Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	previous := defaultLogger
	defaultLogger = logger
	return previous
}

// SetLevel は既定コアの出力レベルを設定する。
func (l *Logger) SetLevel(level zapcore.Level) {
	if l == nil {
		return
	}
	l.level.SetLevel(level)
}

// Named は名前付きの子ロガーを返す。
func (l *Logger) Named(name string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{sugar: l.sugar.Named(name), level: l.level}
}

// Info はINFOログを出力する。
func (l *Logger) Info(format string, params ...any) {
	if l == nil {
		return
	}
	l.sugar.Infof(format, params...)
}

// Debug はDEBUGログを出力する。
func (l *Logger) Debug(format string, params ...any) {
	if l == nil {
		return
	}
	l.sugar.Debugf(format, params...)
}

// Warn はWARNログを出力する。
func (l *Logger) Warn(format string, params ...any) {
	if l == nil {
		return
	}
	l.sugar.Warnf(format, params...)
}

// Error はERRORログを出力する。
func (l *Logger) Error(format string, params ...any) {
	if l == nil {
		return
	}
	l.sugar.Errorf(format, params...)
}

// Sync はバッファ済みログを書き出す。
func (l *Logger) Sync() error {
	if l == nil {
		return nil
	}
	return l.sugar.Sync()
}
