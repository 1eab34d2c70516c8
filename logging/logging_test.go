package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamin-larsen/thriftcompact/logging"
)

func TestGetLevel(t *testing.T) {
	t.Parallel()

	lvl, err := logging.GetLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	_, err = logging.GetLevel("verbose")
	require.ErrorIs(t, err, logging.ErrUnknownLevel)
}

func TestGetFormat(t *testing.T) {
	t.Parallel()

	f, err := logging.GetFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, logging.FormatJSON, f)

	_, err = logging.GetFormat("xml")
	require.ErrorIs(t, err, logging.ErrUnknownFormat)
}

func TestCreateHandlerWithStrings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	h, err := logging.CreateHandlerWithStrings(&buf, "info", "logfmt")
	require.NoError(t, err)
	require.NotNil(t, h)

	slog.New(h).Info("hello", "key", "value")
	assert.Contains(t, buf.String(), "hello")
}
