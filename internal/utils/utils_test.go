package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevNoColor := Output, color.NoColor
	Output, color.NoColor = &buf, true
	t.Cleanup(func() { Output, color.NoColor = prevOut, prevNoColor })
	return &buf
}

func TestPrintHelpers(t *testing.T) {
	buf := captureOutput(t)

	PrintSuccess("Applied %d migration(s)", 2)
	PrintError("Failed: %v", "boom")
	PrintInfo("Using %s", "shopadmin.yml")
	PrintWarning("No migrations to rollback")
	PrintHeader("Migration Status")
	Println("  202510190001 - create_catalog")

	assert.Equal(t, "✓ Applied 2 migration(s)\n"+
		"✗ Failed: boom\n"+
		"ℹ Using shopadmin.yml\n"+
		"⚠ No migrations to rollback\n"+
		"Migration Status\n"+
		"  202510190001 - create_catalog\n", buf.String())
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shopadmin.yml")

	assert.False(t, FileExists(path))
	require.NoError(t, os.WriteFile(path, []byte("debug: true\n"), 0644))
	assert.True(t, FileExists(path))
}
