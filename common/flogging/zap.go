/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package flogging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZapLogger creates a zap logger around a new zap.Core. The core will use
// the provided encoder and sinks and a level enabler that is associated with
// the provided logger name. The logger that is returned will be named the same
// as the logger.
func NewZapLogger(core zapcore.Core, options ...zap.Option) *zap.Logger {
	return zap.New(
		core,
		append([]zap.Option{
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
		}, options...)...,
	)
}

// NewDriveLogger creates a logger that delegates to the zap.SugaredLogger.
func NewDriveLogger(l *zap.Logger, options ...zap.Option) *DriveLogger {
	return &DriveLogger{
		s: l.WithOptions(append(options, zap.AddCallerSkip(1))...).Sugar(),
	}
}

// A DriveLogger is an adapter around a zap.SugaredLogger.
//
// The most significant difference between the DriveLogger and the
// zap.SugaredLogger is that methods without a formatting suffix (f or w) build
// the log entry message with fmt.Sprintln instead of fmt.Sprint. Without this
// change, arguments are not separated by spaces.
type DriveLogger struct{ s *zap.SugaredLogger }

func (f *DriveLogger) DPanic(args ...interface{})                    { f.s.DPanicf(formatArgs(args)) }
func (f *DriveLogger) DPanicf(template string, args ...interface{})  { f.s.DPanicf(template, args...) }
func (f *DriveLogger) DPanicw(msg string, kvPairs ...interface{})    { f.s.DPanicw(msg, kvPairs...) }
func (f *DriveLogger) Debug(args ...interface{})                     { f.s.Debugf(formatArgs(args)) }
func (f *DriveLogger) Debugf(template string, args ...interface{})   { f.s.Debugf(template, args...) }
func (f *DriveLogger) Debugw(msg string, kvPairs ...interface{})     { f.s.Debugw(msg, kvPairs...) }
func (f *DriveLogger) Error(args ...interface{})                     { f.s.Errorf(formatArgs(args)) }
func (f *DriveLogger) Errorf(template string, args ...interface{})   { f.s.Errorf(template, args...) }
func (f *DriveLogger) Errorw(msg string, kvPairs ...interface{})     { f.s.Errorw(msg, kvPairs...) }
func (f *DriveLogger) Fatal(args ...interface{})                     { f.s.Fatalf(formatArgs(args)) }
func (f *DriveLogger) Fatalf(template string, args ...interface{})   { f.s.Fatalf(template, args...) }
func (f *DriveLogger) Fatalw(msg string, kvPairs ...interface{})     { f.s.Fatalw(msg, kvPairs...) }
func (f *DriveLogger) Info(args ...interface{})                      { f.s.Infof(formatArgs(args)) }
func (f *DriveLogger) Infof(template string, args ...interface{})    { f.s.Infof(template, args...) }
func (f *DriveLogger) Infow(msg string, kvPairs ...interface{})      { f.s.Infow(msg, kvPairs...) }
func (f *DriveLogger) Panic(args ...interface{})                     { f.s.Panicf(formatArgs(args)) }
func (f *DriveLogger) Panicf(template string, args ...interface{})   { f.s.Panicf(template, args...) }
func (f *DriveLogger) Panicw(msg string, kvPairs ...interface{})     { f.s.Panicw(msg, kvPairs...) }
func (f *DriveLogger) Warn(args ...interface{})                      { f.s.Warnf(formatArgs(args)) }
func (f *DriveLogger) Warnf(template string, args ...interface{})    { f.s.Warnf(template, args...) }
func (f *DriveLogger) Warnw(msg string, kvPairs ...interface{})      { f.s.Warnw(msg, kvPairs...) }
func (f *DriveLogger) Warning(args ...interface{})                   { f.s.Warnf(formatArgs(args)) }
func (f *DriveLogger) Warningf(template string, args ...interface{}) { f.s.Warnf(template, args...) }

func (f *DriveLogger) Named(name string) *DriveLogger { return &DriveLogger{s: f.s.Named(name)} }
func (f *DriveLogger) Sync() error                    { return f.s.Sync() }
func (f *DriveLogger) Zap() *zap.Logger               { return f.s.Desugar() }

func (f *DriveLogger) IsEnabledFor(level zapcore.Level) bool {
	return f.s.Desugar().Core().Enabled(level)
}

func (f *DriveLogger) With(args ...interface{}) *DriveLogger {
	return &DriveLogger{s: f.s.With(args...)}
}

func (f *DriveLogger) WithOptions(opts ...zap.Option) *DriveLogger {
	l := f.s.Desugar().WithOptions(opts...)
	return &DriveLogger{s: l.Sugar()}
}

func formatArgs(args []interface{}) string { return strings.TrimSuffix(fmt.Sprintln(args...), "\n") }
