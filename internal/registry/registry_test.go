package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appforge/pkg/models"
)

func testProject(id, name string, status models.AppStatus, created time.Time) *models.Project {
	return &models.Project{
		ID:        id,
		Name:      name,
		Type:      models.TypeCustom,
		Status:    status,
		Config:    map[string]any{},
		Metadata:  map[string]string{},
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "projects")
	reg, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, reg.Dir())
	assert.DirExists(t, dir)
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	reg, err := Open(dir)
	require.NoError(t, err)

	p := testProject("abc123", "Demo", models.StatusStopped, time.Now())
	p.Metadata["architecture"] = "some plan"
	reg.Put(p)
	require.NoError(t, reg.Save())

	reloaded, err := Open(dir)
	require.NoError(t, err)
	got, err := reloaded.Get("abc123")
	require.NoError(t, err)
	assert.Equal(t, "Demo", got.Name)
	assert.Equal(t, models.StatusStopped, got.Status)
	assert.Equal(t, "some plan", got.Metadata["architecture"])
}

func TestOpenToleratesCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "projects.json"), []byte("{broken"), 0644))

	reg, err := Open(dir)
	require.NoError(t, err)
	assert.Empty(t, reg.List(""))
}

func TestGetNotFound(t *testing.T) {
	reg, err := Open(t.TempDir())
	require.NoError(t, err)

	_, err = reg.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	reg, err := Open(t.TempDir())
	require.NoError(t, err)

	reg.Put(testProject("p1", "One", models.StatusStopped, time.Now()))
	require.NoError(t, reg.Delete("p1"))
	_, err = reg.Get("p1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, reg.Delete("p1"), ErrNotFound)
}

func TestListFilterAndOrder(t *testing.T) {
	reg, err := Open(t.TempDir())
	require.NoError(t, err)

	base := time.Now()
	reg.Put(testProject("old", "Old", models.StatusStopped, base.Add(-2*time.Hour)))
	reg.Put(testProject("mid", "Mid", models.StatusRunning, base.Add(-time.Hour)))
	reg.Put(testProject("new", "New", models.StatusStopped, base))

	all := reg.List("")
	require.Len(t, all, 3)
	assert.Equal(t, "new", all[0].ID)
	assert.Equal(t, "mid", all[1].ID)
	assert.Equal(t, "old", all[2].ID)

	running := reg.List(models.StatusRunning)
	require.Len(t, running, 1)
	assert.Equal(t, "mid", running[0].ID)
}
