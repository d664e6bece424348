package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/ncobase/cookscorner/config"
	"github.com/ncobase/cookscorner/ctxutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(t *testing.T, masked ...string) (*Logger, *bytes.Buffer) {
	t.Helper()
	l := NewLogger()
	_, err := l.Init(&config.Logger{Level: int(logrus.DebugLevel), Format: "json", Masked: masked})
	require.NoError(t, err)
	buf := &bytes.Buffer{}
	l.SetOutput(buf)
	return l, buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestLogger_TraceIDAndVersion(t *testing.T) {
	l, buf := newBufferedLogger(t)
	l.SetVersion("1.2.3")

	ctx := ctxutil.SetTraceID(context.Background(), "trace-123")
	l.Infof(ctx, "hello %s", "world")

	line := decodeLine(t, buf)
	assert.Equal(t, "hello world", line["msg"])
	assert.Equal(t, "trace-123", line[ctxutil.TraceIDKey])
	assert.Equal(t, "1.2.3", line[VersionKey])
	assert.Equal(t, "info", line["level"])
}

func TestLogger_MasksSensitiveFields(t *testing.T) {
	l, buf := newBufferedLogger(t, "password", "refresh")

	l.WithContextFields(context.Background(), logrus.Fields{
		"email":    "a@x.com",
		"password": "Str0ngPW!",
		"body":     map[string]any{"refresh": "tok", "keep": 1},
	}).Info("signup")

	line := decodeLine(t, buf)
	assert.Equal(t, "a@x.com", line["email"])
	assert.Equal(t, maskValue, line["password"])
	body := line["body"].(map[string]any)
	assert.Equal(t, maskValue, body["refresh"])
	assert.EqualValues(t, 1, body["keep"])
}

func TestLogger_LevelFilter(t *testing.T) {
	l := NewLogger()
	_, err := l.Init(&config.Logger{Level: int(logrus.WarnLevel)})
	require.NoError(t, err)
	buf := &bytes.Buffer{}
	l.SetOutput(buf)

	l.Info(context.Background(), "dropped")
	assert.Zero(t, buf.Len())
	l.Warn(context.Background(), "kept")
	assert.NotZero(t, buf.Len())
}
