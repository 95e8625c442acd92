package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMigrateCommand(t *testing.T) {
	cfgPath, _ := setupGeneratedCourse(t, "Algebra", "Linear Equations")
	backup := filepath.Join(t.TempDir(), "backup")

	output, err := executeCommand(t, "", "migrate", "--config", cfgPath, "--to", "file", "--to-directory", backup, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, output, "dry-run mode")
	assert.Contains(t, output, "2 new, 0 skipped, 0 updated, 1 missing, 0 invalid")

	output, err = executeCommand(t, "", "migrate", "--config", cfgPath, "--to", "file", "--to-directory", backup)
	require.NoError(t, err)
	assert.Contains(t, output, "[NEW]  learnai-course")

	output, err = executeCommand(t, "", "migrate", "--config", cfgPath, "--to", "file", "--to-directory", backup)
	require.NoError(t, err)
	assert.Contains(t, output, "0 new, 2 skipped, 0 updated, 1 missing, 0 invalid")

	_, err = executeCommand(t, "", "migrate", "--config", cfgPath, "--to", "file")
	assert.Error(t, err)
	_, err = executeCommand(t, "", "migrate", "--config", cfgPath, "--to", "memory")
	assert.Error(t, err)
}
