package logging

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/2beens/hypertrophytoolbox/pkg"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warn"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warning"))
	assert.Equal(t, logrus.TraceLevel, GetLevel("trace"))
	assert.Equal(t, logrus.InfoLevel, GetLevel("nonsense"))
	assert.Equal(t, logrus.InfoLevel, GetLevel(""))
}

func TestOutput(t *testing.T) {
	w := output(LoggerSetupParams{})
	assert.NotNil(t, w)

	dir := t.TempDir()
	w = output(LoggerSetupParams{LogFileName: filepath.Join(dir, "service")})
	lj, ok := w.(*lumberjack.Logger)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "service.log"), lj.Filename)

	w = output(LoggerSetupParams{LogFileName: filepath.Join(dir, "service.log"), LogToStdout: true})
	cw, ok := w.(*pkg.CombinedWriter)
	require.True(t, ok)
	assert.Len(t, cw.Writers, 2)
}

func TestServiceNameHook(t *testing.T) {
	logger := logrus.New()
	buf := &bytes.Buffer{}
	logger.SetOutput(buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.AddHook(&serviceNameHook{serviceName: "volume-test"})

	logger.Info("hello")
	assert.Contains(t, buf.String(), `"service":"volume-test"`)

	buf.Reset()
	logger.WithField("service", "other").Info("hello")
	assert.Contains(t, buf.String(), `"service":"other"`)
}
