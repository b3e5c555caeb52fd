package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/antisqli/config"
)

func TestBuild_Levels(t *testing.T) {
	var buf bytes.Buffer
	log, err := build(config.Log{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")
	require.NoError(t, log.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}

func TestBuild_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := build(config.Log{Level: "debug", Format: "console"}, &buf)
	require.NoError(t, err)

	log.Debug("hello")
	require.NoError(t, log.Sync())
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "hello")
}

func TestBuild_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "antisqli.log")
	var buf bytes.Buffer
	log, err := build(config.Log{Level: "info", Format: "json", File: path, MaxSizeMB: 1}, &buf)
	require.NoError(t, err)

	log.Info("persisted")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "persisted")
}

func TestBuild_Errors(t *testing.T) {
	_, err := build(config.Log{Level: "loud"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid log level")

	_, err = build(config.Log{Level: "info", Format: "xml"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown log format")
}

func TestNew_Default(t *testing.T) {
	log, err := New(config.Default().Log)
	require.NoError(t, err)
	assert.NotNil(t, log)
}
