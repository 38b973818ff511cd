package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesConnectionSection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.ini")
	contents := "[connection]\ninterface = can1\nnode_id = 16\nread_timeout_ms = 250\nwrite_timeout_ms = 500\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	profile, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "can1", profile.Interface)
	assert.Equal(t, uint8(16), profile.NodeID)
	assert.Equal(t, 250*time.Millisecond, profile.ReadTimeout)
	assert.Equal(t, 500*time.Millisecond, profile.WriteTimeout)
}

func TestLoadAppliesDefaultsForMissingKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.ini")
	require.NoError(t, os.WriteFile(path, []byte("[connection]\n"), 0o644))

	profile, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "can0", profile.Interface)
	assert.Equal(t, time.Second, profile.ReadTimeout)
	assert.Equal(t, time.Second, profile.WriteTimeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/profile.ini")
	assert.Error(t, err)
}
