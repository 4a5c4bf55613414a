package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appforge/internal/agents"
	"appforge/internal/config"
	"appforge/pkg/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.ProjectsDir = t.TempDir()
	return cfg
}

func TestNewWithoutTeam(t *testing.T) {
	c, err := New(testConfig(t), nil)
	require.NoError(t, err)
	assert.Nil(t, c.Generator)
	assert.NotNil(t, c.Deployer)

	_, ok := c.Tools.Get("sleep")
	assert.True(t, ok)
}

func TestNewWithTeam(t *testing.T) {
	c, err := New(testConfig(t), &agents.MockTeamProvider{})
	require.NoError(t, err)
	assert.NotNil(t, c.Generator)
}

func TestCreateProjectBasic(t *testing.T) {
	c, err := New(testConfig(t), nil)
	require.NoError(t, err)

	p, err := c.CreateProject(context.Background(), "notes", models.TypeFileUtility, "keep notes")
	require.NoError(t, err)
	assert.Len(t, p.ID, 8)
	assert.Equal(t, models.StatusStopped, p.Status)
	assert.FileExists(t, filepath.Join(p.Path, "app.py"))
	assert.FileExists(t, filepath.Join(p.Path, "config.yaml"))

	got, err := c.Registry.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "notes", got.Name)
}

func TestCreateProjectWithTeam(t *testing.T) {
	team := &agents.MockTeamProvider{
		ExecuteTaskFunc: func(ctx context.Context, agentID, task string) (string, error) {
			if agentID == "agent-tester" {
				return `{"needs_developer_fix": false, "missing_files": []}`, nil
			}
			return "phase output", nil
		},
	}
	cfg := testConfig(t)
	cfg.RetryDelay = 0 // keep retries instant under test
	c, err := New(cfg, team)
	require.NoError(t, err)

	p, err := c.CreateProject(context.Background(), "planner", models.TypeDashboard, "plan the week")
	require.NoError(t, err)
	assert.Equal(t, models.StatusStopped, p.Status)
	assert.Contains(t, p.Metadata, "architecture")
	assert.FileExists(t, filepath.Join(p.Path, "app.py"))
}

func TestDeleteProject(t *testing.T) {
	c, err := New(testConfig(t), nil)
	require.NoError(t, err)

	p, err := c.CreateProject(context.Background(), "temp", models.TypeCustom, "")
	require.NoError(t, err)

	require.NoError(t, c.DeleteProject(p.ID, true))
	_, err = c.Registry.Get(p.ID)
	assert.Error(t, err)
	assert.NoDirExists(t, p.Path)

	assert.Error(t, c.DeleteProject("missing", false))
}

func TestProjectIDsAreUnique(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		id := newProjectID()
		assert.Len(t, id, 8)
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
	}
}
