package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version", "--json"})
	require.NoError(t, root.Execute())

	var info map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "goVersion")
}

func TestMigrateCreate(t *testing.T) {
	dir := t.TempDir()
	root := NewRootCmd()
	root.SetArgs([]string{"migrate", "create", "add_tags", "--path", dir})
	require.NoError(t, root.Execute())

	matches, err := filepath.Glob(filepath.Join(dir, "*_add_tags.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	content, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "+goose Up")
}

func TestMigrateRequiresConfigFile(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"migrate", "up", "--conf", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, root.Execute())
}
