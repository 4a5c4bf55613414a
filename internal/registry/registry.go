// Package registry persists the project registry as a single JSON file,
// rewritten in full on every change.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"appforge/internal/logging"
	"appforge/pkg/models"
)

// ErrNotFound is returned when a project id is not in the registry.
var ErrNotFound = errors.New("project not found")

const registryFile = "projects.json"

// Registry maps project id to project record. One writer per process; the
// on-disk file is not locked across processes.
type Registry struct {
	dir      string
	projects map[string]*models.Project

	mu sync.RWMutex
}

// Open loads the registry from projectsDir, creating the directory if
// needed. A corrupt or unreadable registry file is logged and treated as
// empty rather than failing the command.
func Open(projectsDir string) (*Registry, error) {
	if err := os.MkdirAll(projectsDir, 0755); err != nil {
		return nil, fmt.Errorf("create projects dir %s: %w", projectsDir, err)
	}

	r := &Registry{
		dir:      projectsDir,
		projects: make(map[string]*models.Project),
	}

	data, err := os.ReadFile(r.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		logging.L().Warn("could not read project registry", zap.Error(err))
		return r, nil
	}

	if err := json.Unmarshal(data, &r.projects); err != nil {
		logging.L().Warn("could not parse project registry, starting empty", zap.Error(err))
		r.projects = make(map[string]*models.Project)
	}
	return r, nil
}

// Dir returns the directory the registry lives in. Project trees are
// created under it.
func (r *Registry) Dir() string {
	return r.dir
}

func (r *Registry) filePath() string {
	return filepath.Join(r.dir, registryFile)
}

// Save rewrites the registry file in full.
func (r *Registry) Save() error {
	r.mu.RLock()
	data, err := json.MarshalIndent(r.projects, "", "  ")
	r.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	if err := os.WriteFile(r.filePath(), data, 0644); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	return nil
}

// Put inserts or replaces a project record.
func (r *Registry) Put(p *models.Project) {
	r.mu.Lock()
	r.projects[p.ID] = p
	r.mu.Unlock()
}

// Get returns the project with the given id.
func (r *Registry) Get(id string) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}

// Delete removes a project record. It does not touch the project tree.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(r.projects, id)
	return nil
}

// List returns all projects, newest first. An empty status filters
// nothing.
func (r *Registry) List(status models.AppStatus) []*models.Project {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Project, 0, len(r.projects))
	for _, p := range r.projects {
		if status != "" && p.Status != status {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
