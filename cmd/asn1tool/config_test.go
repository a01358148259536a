package main

import (
	"log/slog"
	"testing"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1binary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig(testConfig(t))
	require.NoError(t, err)

	assert.Equal(t, 16, config.MaxDepth)
	assert.Equal(t, ":8001", config.Listen, "unset keys keep their default")
	assert.Equal(t, []string{"pair"}, config.SchemaNames())

	level, err := config.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	decoder, err := config.Decoder()
	require.NoError(t, err)
	assert.Equal(t, asn1binary.BER, decoder.Rules)
	assert.Equal(t, 16, decoder.MaxDepth)
	assert.NotNil(t, decoder.Registry)

	schemas, err := config.LoadSchemas()
	require.NoError(t, err)
	assert.Equal(t, "SEQUENCE{a,b}", schemas["pair"].String())
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(writeFile(t, dir, "unknown.yaml", "rulez: der\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = LoadConfig(dir + "/missing.yaml")
	assert.Error(t, err)

	config, err := LoadConfig(writeFile(t, dir, "bad.yaml", "rules: xer\nlog_level: loud\nschemas:\n  x: nowhere.yaml\n"))
	require.NoError(t, err)
	_, err = config.Decoder()
	assert.Error(t, err)
	_, err = config.Level()
	assert.Error(t, err)
	_, err = config.LoadSchemas()
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}
