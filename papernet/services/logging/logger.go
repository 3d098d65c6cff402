/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logging

import (
	"io"
	"os"
	"slices"
	"strings"

	"github.com/hyperledger/fabric-lib-go/common/flogging"
	"go.uber.org/zap/zapcore"
)

const (
	loggerNameSeparator = "."

	DefaultSpec   = "info"
	DefaultFormat = "%{color}%{time:2006-01-02 15:04:05.000 MST} [%{module}] %{shortfunc} -> %{level:.4s}%{color:reset} %{message}"
)

// Logger provides logging API
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Panic(args ...interface{})
	Panicf(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	IsEnabledFor(level zapcore.Level) bool
}

// Config selects the log specification and format. Empty fields fall back to the defaults.
type Config struct {
	Spec   string
	Format string
	Writer io.Writer
}

// Init configures every logger obtained from this package.
func Init(c Config) {
	if len(c.Spec) == 0 {
		c.Spec = DefaultSpec
	}
	if len(c.Format) == 0 {
		c.Format = DefaultFormat
	}
	if c.Writer == nil {
		c.Writer = os.Stderr
	}
	flogging.Init(flogging.Config{
		Format:  c.Format,
		Writer:  c.Writer,
		LogSpec: c.Spec,
	})
}

func MustGetLogger(loggerName string) Logger {
	return flogging.MustGetLogger(loggerName)
}

// SessionLogger returns a logger scoped to a channel and a contract
func SessionLogger(prefix string, channel string, chaincode string, contract string) Logger {
	return flogging.MustGetLogger(loggerName(prefix, channel, chaincode, contract))
}

func isEmptyString(s string) bool { return len(s) == 0 }

func loggerName(parts ...string) string {
	return strings.Join(slices.DeleteFunc(parts, isEmptyString), loggerNameSeparator)
}
