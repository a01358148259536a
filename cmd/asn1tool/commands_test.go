package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command. Flag values persist between runs, so every
// test passes the flags it depends on.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDecodeCommand(t *testing.T) {
	out, err := run(t, "3003020107 0500", "decode", "--hex=true", "--json=false", "--table=false", "--rules", "ber")
	require.NoError(t, err)
	assert.Equal(t, "[Sequence/c] 3(short)\n  [Integer/p] 1(short) 7\n[Null/p] 0(short) null\n", out)

	_, err = run(t, "3080020107 0000", "decode", "--hex=true", "--json=false", "--table=false", "--rules", "der")
	assert.Error(t, err, "DER rejects indefinite lengths")

	out, err = run(t, "020107", "decode", "--hex=true", "--json=true", "--table=false", "--rules", "ber")
	require.NoError(t, err)
	assert.Contains(t, out, `"value": "7"`)

	out, err = run(t, "3003020107 0500", "decode", "--hex=true", "--json=false", "--table=true", "--rules", "ber")
	require.NoError(t, err)
	assert.Contains(t, out, "PATH")
	assert.Contains(t, out, "0.0")
	assert.Contains(t, out, "[Integer/p]")
	assert.Contains(t, out, "[Null/p]")

	_, err = run(t, "020107", "decode", "--hex=true", "--json=true", "--table=true", "--rules", "ber")
	assert.Error(t, err)
}

func TestEncodeCommand(t *testing.T) {
	out, err := run(t, "3083000003020107", "encode", "--hex=true", "--check=false", "--rules", "ber")
	require.NoError(t, err)
	assert.Equal(t, "3003020107\n", out)

	_, err = run(t, "3083000003020107", "encode", "--hex=true", "--check=true", "--rules", "ber")
	assert.Error(t, err)

	out, err = run(t, "3003020107", "encode", "--hex=true", "--check=true", "--rules", "ber")
	require.NoError(t, err)
	assert.Equal(t, "3003020107\n", out)
}

func TestMapCommand(t *testing.T) {
	dir := t.TempDir()
	schema := filepath.Join(dir, "pair.yaml")
	require.NoError(t, os.WriteFile(schema, []byte(pairSchema), 0o644))
	input := filepath.Join(dir, "pair.der")
	require.NoError(t, os.WriteFile(input, []byte{0x30, 0x07, 0x02, 0x01, 0x07, 0x04, 0x02, 'h', 'i'}, 0o644))

	out, err := run(t, "", "map", "--hex=false", "--json=false", "--schema", schema, input)
	require.NoError(t, err)
	assert.Equal(t, "a: 7\nb: 6869\n", out)

	_, err = run(t, "3003020107", "map", "--hex=true", "--json=false", "--schema", schema)
	assert.Error(t, err)

	out, err = run(t, "", "map", "--hex=false", "--json=false", "--config", testConfig(t), "--schema", "pair", input)
	require.NoError(t, err)
	assert.Equal(t, "a: 7\nb: 6869\n", out)
}
