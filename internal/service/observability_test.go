package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogUseCaseObserver_JSON(t *testing.T) {
	buf := new(bytes.Buffer)
	obs := NewSlogUseCaseObserver(slog.New(slog.NewJSONHandler(buf, nil)))

	observe(context.Background(), obs, "reorder-issues", time.Now(), map[string]any{"rows": 3}, errors.New("boom"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, "reorder-issues", line["use_case"])
	assert.Equal(t, false, line["success"])
	assert.Equal(t, float64(3), line["rows"])
	assert.Equal(t, "boom", line["error"])
}

func TestUseCaseObserver_NilFallsBackToNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewSlogUseCaseObserver(nil))
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop([]UseCaseObserver{nil}))
}
