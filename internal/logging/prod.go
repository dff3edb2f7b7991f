//go:build !dev
// +build !dev

package logging

import "go.uber.org/zap/zapcore"

func fileLevel() zapcore.Level { return zapcore.InfoLevel }

// JSON file only, no console output
func consoleCore() zapcore.Core { return nil }
