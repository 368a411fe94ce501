package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := log
	buf := &bytes.Buffer{}
	log = slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() { log = prev })
	return buf
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &record))
	return record
}

func TestFromContext_CarriesRequestFields(t *testing.T) {
	buf := captureLogs(t)

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, "u1")
	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "u1", GetUserID(ctx))

	CtxWithError(ctx, "save failed", errors.New("boom"), "table", "users")

	record := lastRecord(t, buf)
	assert.Equal(t, "save failed", record["msg"])
	assert.Equal(t, "req-1", record["request_id"])
	assert.Equal(t, "u1", record["user_id"])
	assert.Equal(t, "boom", record["error"])
	assert.Equal(t, "users", record["table"])
}

func TestFromContext_Empty(t *testing.T) {
	buf := captureLogs(t)

	CtxInfo(context.Background(), "plain")
	record := lastRecord(t, buf)
	assert.NotContains(t, record, "request_id")
	assert.NotContains(t, record, "user_id")
	assert.Empty(t, GetUserID(context.Background()))
}

func TestWorkerLog(t *testing.T) {
	buf := captureLogs(t)

	WorkerLog("registration", "reconcile", nil, "reconciled", 2)
	record := lastRecord(t, buf)
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "registration", record["worker"])

	WorkerLog("registration", "reconcile", errors.New("mongo down"))
	record = lastRecord(t, buf)
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "mongo down", record["error"])
}
