package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "scantree.db", cfg.Storage.DB)
	assert.Equal(t, "main", cfg.Project.Branch)
	assert.True(t, cfg.Branch().Main)
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scantree.yaml")
	content := `project:
  key: my_project
  branch: feature/x
  main_branch: main
scm:
  base_path: root
storage:
  db: analyses.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "my_project", cfg.Project.Key)
	assert.Equal(t, "analyses.db", cfg.Storage.DB)
	assert.Equal(t, "root", cfg.Scm.BasePath)

	branch := cfg.Branch()
	assert.Equal(t, "feature/x", branch.Name)
	assert.False(t, branch.Main)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scantree.yaml")
	require.NoError(t, os.WriteFile(path, []byte("project: [broken"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scantree.yaml")
	content := `project:
  key: file_key
storage:
  db: file.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("SCANTREE_DB", "env.db")
	t.Setenv("SCANTREE_BRANCH", "release/1.x")
	t.Setenv("SCANTREE_PROJECT_KEY", "env_key")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env.db", cfg.Storage.DB)
	assert.Equal(t, "release/1.x", cfg.Project.Branch)
	assert.Equal(t, "env_key", cfg.Project.Key)
	assert.False(t, cfg.Branch().Main)
}

func TestLoadConfig_EmptyBranchFallsBackToMain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scantree.yaml")
	content := `project:
  key: my_project
  branch: ""
  main_branch: trunk
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	branch := cfg.Branch()
	assert.Equal(t, "trunk", branch.Name)
	assert.True(t, branch.Main)
}
