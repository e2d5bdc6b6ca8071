/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package flogging_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/dashpay/platform-drive/common/flogging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type writeSyncer struct {
	written [][]byte
	syncErr error
}

func (w *writeSyncer) Write(b []byte) (int, error) {
	w.written = append(w.written, append([]byte(nil), b...))
	return len(b), nil
}

func (w *writeSyncer) Sync() error { return w.syncErr }

type observer struct {
	checks  int
	entries int
}

func (o *observer) Check(zapcore.Entry, *zapcore.CheckedEntry) { o.checks++ }
func (o *observer) WriteEntry(zapcore.Entry, []zapcore.Field)   { o.entries++ }

func TestNew(t *testing.T) {
	logging, err := flogging.New(flogging.Config{})
	assert.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, logging.DefaultLevel())

	_, err = flogging.New(flogging.Config{
		LogSpec: "::=borken=::",
	})
	assert.EqualError(t, err, "invalid logging specification '::=borken=::': bad segment '=borken='")

	_, err = flogging.New(flogging.Config{Format: "xml"})
	assert.EqualError(t, err, "unsupported log format 'xml'")
}

func TestNewWithEnvironment(t *testing.T) {
	oldSpec, set := os.LookupEnv("DRIVE_LOGGING_SPEC")
	if set {
		defer os.Setenv("DRIVE_LOGGING_SPEC", oldSpec)
	}

	os.Setenv("DRIVE_LOGGING_SPEC", "fatal")
	logging, err := flogging.New(flogging.Config{})
	assert.NoError(t, err)
	assert.Equal(t, zapcore.FatalLevel, logging.DefaultLevel())

	os.Unsetenv("DRIVE_LOGGING_SPEC")
	logging, err = flogging.New(flogging.Config{})
	assert.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, logging.DefaultLevel())
}

func TestLoggingSetWriter(t *testing.T) {
	ws := &writeSyncer{}

	logging, err := flogging.New(flogging.Config{})
	assert.NoError(t, err)

	logging.SetWriter(ws)
	logging.Write([]byte("hello"))
	assert.Len(t, ws.written, 1)
	assert.Equal(t, []byte("hello"), ws.written[0])

	err = logging.Sync()
	assert.NoError(t, err)

	ws.syncErr = errors.New("welp")
	err = logging.Sync()
	assert.EqualError(t, err, "welp")
}

func TestNamedLogger(t *testing.T) {
	defer flogging.Reset()
	buf := &bytes.Buffer{}
	flogging.Global.SetWriter(buf)

	t.Run("logger and named (child) logger with different levels", func(t *testing.T) {
		defer buf.Reset()
		logger := flogging.MustGetLogger("eugene")
		logger2 := logger.Named("george")
		flogging.ActivateSpec("eugene=info:eugene.george=error")

		logger.Info("from eugene")
		logger2.Info("from george")
		assert.Contains(t, buf.String(), "from eugene")
		assert.NotContains(t, buf.String(), "from george")
	})

	t.Run("named logger where parent logger isn't enabled", func(t *testing.T) {
		logger := flogging.MustGetLogger("foo")
		logger2 := logger.Named("bar")
		flogging.ActivateSpec("foo=fatal:foo.bar=error")
		logger.Error("from foo")
		logger2.Error("from bar")
		assert.NotContains(t, buf.String(), "from foo")
		assert.Contains(t, buf.String(), "from bar")
	})
}

func TestJSONAndLogfmtEncodings(t *testing.T) {
	buf := &bytes.Buffer{}
	logging, err := flogging.New(flogging.Config{Format: "json", Writer: buf})
	require.NoError(t, err)

	logging.Logger("validator").Infow("transition validated", "type", "dataContractCreate")
	assert.Contains(t, buf.String(), `"name":"validator"`)
	assert.Contains(t, buf.String(), `"type":"dataContractCreate"`)

	buf.Reset()
	require.NoError(t, logging.SetFormat("logfmt"))
	logging.Logger("validator").Infow("transition validated", "type", "documentsBatch")
	assert.Contains(t, buf.String(), "type=documentsBatch")
}

func TestInvalidLoggerName(t *testing.T) {
	names := []string{"test*", ".test", "test.", ".", ""}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			msg := fmt.Sprintf("invalid logger name: %s", name)
			assert.PanicsWithValue(t, msg, func() { flogging.MustGetLogger(name) })
		})
	}
}

func TestCheck(t *testing.T) {
	l := &flogging.Logging{}
	o := &observer{}
	e := zapcore.Entry{}

	l.SetObserver(o)
	l.Check(e, nil)
	assert.Equal(t, 1, o.checks)

	l.WriteEntry(e, nil)
	assert.Equal(t, 1, o.entries)

	l.SetObserver(nil)
	l.Check(zapcore.Entry{}, nil)
	assert.Equal(t, 1, o.checks)
}

func TestLoggerCoreCheck(t *testing.T) {
	logging, err := flogging.New(flogging.Config{})
	assert.NoError(t, err)

	logger := logging.ZapLogger("foo")

	err = logging.ActivateSpec("info")
	assert.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel), "debug should not be enabled at info level")

	err = logging.ActivateSpec("debug")
	assert.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel), "debug should now be enabled at debug level")
}

func TestLoggerLevelsSpec(t *testing.T) {
	logging, err := flogging.New(flogging.Config{LogSpec: "validation,datatriggers=debug:kvrepository=error:warning"})
	require.NoError(t, err)

	assert.Equal(t, zapcore.DebugLevel, logging.Level("validation"))
	assert.Equal(t, zapcore.DebugLevel, logging.Level("datatriggers.rewardshares"))
	assert.Equal(t, zapcore.ErrorLevel, logging.Level("kvrepository"))
	assert.Equal(t, zapcore.WarnLevel, logging.Level("datacontract"))
	assert.Equal(t, "datatriggers=debug:kvrepository=error:validation=debug:warn", logging.Spec())
}

func TestRotatingWriter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "drive.log")

	w, err := flogging.NewRotatingWriter(path, 1024, 3)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	logging, err := flogging.New(flogging.Config{Writer: flogging.Tee(buf, w)})
	require.NoError(t, err)
	logging.Logger("rotate").Info("written twice")
	require.NoError(t, w.Close())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "written twice")
	assert.Contains(t, buf.String(), "written twice")
}
