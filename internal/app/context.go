// Package app wires the CLI's collaborators into one explicit context
// created per process invocation. Nothing in the repository reaches for
// process-wide singletons besides the logger.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"appforge/internal/agents"
	"appforge/internal/config"
	"appforge/internal/deploy"
	"appforge/internal/forge"
	"appforge/internal/logging"
	"appforge/internal/registry"
	"appforge/internal/tools"
	"appforge/pkg/models"
)

// Context owns every long-lived collaborator for one CLI invocation.
type Context struct {
	Config    *config.Config
	Registry  *registry.Registry
	Tools     *tools.Registry
	Team      agents.TeamProvider // nil when no agent backend is configured
	Generator *forge.Generator    // nil when Team is nil
	Deployer  *deploy.Manager
}

// New builds the application context. team may be nil; project creation
// then falls back to basic (agentless) generation.
func New(cfg *config.Config, team agents.TeamProvider) (*Context, error) {
	logging.Init(cfg.Debug)

	reg, err := registry.Open(cfg.ProjectsDir)
	if err != nil {
		return nil, err
	}

	toolReg := tools.NewRegistry()
	if err := toolReg.Register(tools.NewSleepTool()); err != nil {
		return nil, err
	}

	var gen *forge.Generator
	if team != nil {
		exec := agents.NewExecutor(team, cfg.MaxRetries, time.Duration(cfg.RetryDelay)*time.Second)
		gen = forge.NewGenerator(team, exec, reg)
	}

	return &Context{
		Config:    cfg,
		Registry:  reg,
		Tools:     toolReg,
		Team:      team,
		Generator: gen,
		Deployer:  deploy.NewManager(reg, cfg.DefaultHost),
	}, nil
}

// CreateProject registers a new project and runs generation: the full
// agent pipeline when a capability port is configured, otherwise a basic
// placeholder project.
func (c *Context) CreateProject(ctx context.Context, name string, appType models.AppType, description string) (*models.Project, error) {
	projectPath := filepath.Join(c.Registry.Dir(), name)
	if err := os.MkdirAll(projectPath, 0755); err != nil {
		return nil, fmt.Errorf("create project directory: %w", err)
	}

	now := time.Now()
	p := &models.Project{
		ID:          newProjectID(),
		Name:        name,
		Type:        appType,
		Description: description,
		Status:      models.StatusPlanning,
		Path:        projectPath,
		Port:        c.Config.DefaultPort,
		Config:      map[string]any{},
		Metadata:    map[string]string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	c.Registry.Put(p)
	if err := c.Registry.Save(); err != nil {
		return nil, err
	}

	if c.Generator != nil {
		if err := c.Generator.Run(ctx, p); err != nil {
			return p, err
		}
		return p, nil
	}

	logging.L().Warn("no agent backend configured, using basic generation",
		zap.String("project", p.ID))
	if err := forge.GenerateBasic(p); err != nil {
		return p, err
	}
	p.Status = models.StatusStopped
	p.Touch()
	c.Registry.Put(p)
	if err := c.Registry.Save(); err != nil {
		return p, err
	}
	return p, nil
}

// DeleteProject removes a project from the registry and optionally its
// tree. Running projects are stopped first.
func (c *Context) DeleteProject(id string, removeFiles bool) error {
	p, err := c.Registry.Get(id)
	if err != nil {
		return err
	}
	if p.Status == models.StatusRunning {
		if err := c.Deployer.Stop(p); err != nil {
			return err
		}
	}
	if removeFiles && p.Path != "" {
		// Only remove trees under the projects dir.
		if strings.HasPrefix(filepath.Clean(p.Path), filepath.Clean(c.Registry.Dir())) {
			if err := os.RemoveAll(p.Path); err != nil {
				return fmt.Errorf("remove project files: %w", err)
			}
		}
	}
	if err := c.Registry.Delete(id); err != nil {
		return err
	}
	return c.Registry.Save()
}

// newProjectID returns a short opaque project token.
func newProjectID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
