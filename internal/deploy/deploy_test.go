package deploy

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appforge/internal/registry"
	"appforge/pkg/models"
)

func testManager(t *testing.T) (*Manager, *registry.Registry) {
	t.Helper()
	reg, err := registry.Open(t.TempDir())
	require.NoError(t, err)
	return NewManager(reg, "localhost"), reg
}

func testProject(t *testing.T, reg *registry.Registry, status models.AppStatus) *models.Project {
	t.Helper()
	p := &models.Project{
		ID:        "p1",
		Name:      "Demo",
		Type:      models.TypeCustom,
		Status:    status,
		Path:      filepath.Join(reg.Dir(), "demo"),
		Port:      8501,
		Config:    map[string]any{},
		Metadata:  map[string]string{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, os.MkdirAll(p.Path, 0755))
	reg.Put(p)
	return p
}

func TestFindAvailablePortSkipsBusy(t *testing.T) {
	l, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	defer l.Close()
	busy := l.Addr().(*net.TCPAddr).Port

	got := FindAvailablePort("localhost", busy)
	assert.NotEqual(t, busy, got)
	assert.GreaterOrEqual(t, got, busy)
	assert.Less(t, got, busy+100)
}

func TestDeployMissingEntryPoint(t *testing.T) {
	m, reg := testManager(t)
	p := testProject(t, reg, models.StatusStopped)

	result, err := m.Deploy(p)
	require.Error(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Errors, "app.py not found")
	assert.Equal(t, models.StatusStopped, p.Status)
}

func TestStopClearsRuntimeState(t *testing.T) {
	m, reg := testManager(t)
	p := testProject(t, reg, models.StatusRunning)
	p.URL = "http://localhost:8501"
	p.Metadata["process_id"] = strconv.Itoa(1 << 30) // no such process

	require.NoError(t, m.Stop(p))
	assert.Equal(t, models.StatusStopped, p.Status)
	assert.Empty(t, p.URL)
	assert.NotContains(t, p.Metadata, "process_id")
}

func TestCleanupOrphans(t *testing.T) {
	m, reg := testManager(t)
	p := testProject(t, reg, models.StatusRunning)
	p.Metadata["process_id"] = strconv.Itoa(1 << 30)

	assert.Equal(t, 1, m.CleanupOrphans())
	assert.Equal(t, models.StatusStopped, p.Status)

	// This test process is definitely alive; its entry must survive.
	p2 := testProject(t, reg, models.StatusRunning)
	p2.ID = "p2"
	p2.Metadata["process_id"] = strconv.Itoa(os.Getpid())
	reg.Put(p2)
	assert.Equal(t, 0, m.CleanupOrphans())
	assert.Equal(t, models.StatusRunning, p2.Status)
}

func TestLogsTail(t *testing.T) {
	m, reg := testManager(t)
	p := testProject(t, reg, models.StatusStopped)

	// No log file yet.
	lines, err := m.Logs(p, 10)
	require.NoError(t, err)
	assert.Empty(t, lines)

	logDir := filepath.Join(p.Path, "logs")
	require.NoError(t, os.MkdirAll(logDir, 0755))
	content := strings.Join([]string{"one", "two", "three", "four"}, "\n") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(logDir, "app.log"), []byte(content), 0644))

	lines, err = m.Logs(p, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"three", "four"}, lines)

	lines, err = m.Logs(p, 0)
	require.NoError(t, err)
	assert.Len(t, lines, 4)
}
