// Package deploy runs and supervises generated applications as local
// processes.
package deploy

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"appforge/internal/logging"
	"appforge/internal/registry"
	"appforge/pkg/models"
)

const pidMetadataKey = "process_id"

// Result reports the outcome of a deployment.
type Result struct {
	Success   bool     `json:"success"`
	ProjectID string   `json:"project_id"`
	URL       string   `json:"url"`
	Port      int      `json:"port"`
	ProcessID int      `json:"process_id,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// Manager starts and stops generated apps and keeps the registry in sync
// with what is actually running.
type Manager struct {
	reg  *registry.Registry
	host string
}

// NewManager creates a deployment manager.
func NewManager(reg *registry.Registry, host string) *Manager {
	return &Manager{reg: reg, host: host}
}

// Deploy launches a project's entry point on a free port, streaming its
// output to logs/app.log inside the project tree.
func (m *Manager) Deploy(p *models.Project) (*Result, error) {
	result := &Result{ProjectID: p.ID}

	entryPoint := filepath.Join(p.Path, "app.py")
	if _, err := os.Stat(entryPoint); err != nil {
		result.Errors = append(result.Errors, "app.py not found")
		return result, fmt.Errorf("project %s has no entry point: %w", p.ID, err)
	}

	port := FindAvailablePort(m.host, p.Port)

	logDir := filepath.Join(p.Path, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return result, fmt.Errorf("create log dir: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(logDir, "app.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return result, fmt.Errorf("open app log: %w", err)
	}

	cmd := exec.Command("streamlit", "run", "app.py",
		"--server.port", strconv.Itoa(port),
		"--server.headless", "true")
	cmd.Dir = p.Path
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		logFile.Close()
		result.Errors = append(result.Errors, err.Error())
		return result, fmt.Errorf("start project %s: %w", p.ID, err)
	}
	// The file handle stays with the child; the parent no longer needs it.
	logFile.Close()

	// Reap the child in the background so a crashed app does not linger
	// as a zombie.
	go func() { _ = cmd.Wait() }()

	p.Port = port
	p.URL = fmt.Sprintf("http://%s:%d", m.host, port)
	p.Status = models.StatusRunning
	p.Metadata[pidMetadataKey] = strconv.Itoa(cmd.Process.Pid)
	p.Touch()
	m.persist(p)

	logging.L().Info("project deployed",
		zap.String("project", p.ID),
		zap.String("url", p.URL),
		zap.Int("pid", cmd.Process.Pid))

	result.Success = true
	result.URL = p.URL
	result.Port = port
	result.ProcessID = cmd.Process.Pid
	return result, nil
}

// Stop kills a running project's process and marks it stopped.
func (m *Manager) Stop(p *models.Project) error {
	pid, ok := m.recordedPid(p)
	if ok {
		if proc, err := os.FindProcess(pid); err == nil {
			if err := proc.Kill(); err != nil && !strings.Contains(err.Error(), "already finished") {
				logging.L().Warn("could not kill project process",
					zap.String("project", p.ID), zap.Int("pid", pid), zap.Error(err))
			}
		}
	}

	delete(p.Metadata, pidMetadataKey)
	p.Status = models.StatusStopped
	p.URL = ""
	p.Touch()
	m.persist(p)
	return nil
}

// StopAll stops every running project.
func (m *Manager) StopAll() int {
	stopped := 0
	for _, p := range m.reg.List(models.StatusRunning) {
		if err := m.Stop(p); err == nil {
			stopped++
		}
	}
	return stopped
}

// CleanupOrphans reconciles the registry with reality: projects marked
// running whose process is gone are moved back to stopped.
func (m *Manager) CleanupOrphans() int {
	cleaned := 0
	for _, p := range m.reg.List(models.StatusRunning) {
		pid, ok := m.recordedPid(p)
		if ok && processAlive(pid) {
			continue
		}
		logging.L().Info("cleaning up orphaned project entry",
			zap.String("project", p.ID), zap.Int("pid", pid))
		delete(p.Metadata, pidMetadataKey)
		p.Status = models.StatusStopped
		p.URL = ""
		p.Touch()
		cleaned++
	}
	if cleaned > 0 {
		m.persist(nil)
	}
	return cleaned
}

// Logs returns up to limit trailing lines of a project's app log.
func (m *Manager) Logs(p *models.Project, limit int) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(p.Path, "logs", "app.log"))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read project log: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return lines, nil
}

func (m *Manager) recordedPid(p *models.Project) (int, bool) {
	raw, ok := p.Metadata[pidMetadataKey]
	if !ok {
		return 0, false
	}
	pid, err := strconv.Atoi(raw)
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

func (m *Manager) persist(p *models.Project) {
	if p != nil {
		m.reg.Put(p)
	}
	if err := m.reg.Save(); err != nil {
		logging.L().Warn("could not persist registry", zap.Error(err))
	}
}

// processAlive probes a pid with signal 0.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

// FindAvailablePort scans from start for a bindable port, trying 100
// candidates before giving up and returning start.
func FindAvailablePort(host string, start int) int {
	for port := start; port < start+100; port++ {
		l, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err != nil {
			continue
		}
		l.Close()
		return port
	}
	return start
}
