package version

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVersionInfo(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })
	Version = "1.2.3"

	info := GetVersionInfo()
	assert.Equal(t, "1.2.3", info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.String(), "Version: 1.2.3")

	out, err := info.JSON()
	require.NoError(t, err)
	var back Info
	require.NoError(t, json.Unmarshal([]byte(out), &back))
	assert.Equal(t, info, back)
}
