// Package forge runs the autonomous generation pipeline: a specialized
// agent team is driven through architecture, design, development, and
// testing phases, with a bounded validation loop that feeds missing-file
// findings back to the developer agent.
package forge

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"appforge/internal/agents"
	"appforge/internal/logging"
	"appforge/internal/registry"
	"appforge/pkg/models"
)

// maxValidationAttempts bounds the test-and-fix loop. Reaching the cap is
// not a failure; the project advances with a warning that issues may
// remain.
const maxValidationAttempts = 5

// Generator orchestrates one project through the four-phase pipeline.
// Phases run strictly in sequence; there is no concurrency within a
// project.
type Generator struct {
	team agents.TeamProvider
	exec *agents.Executor
	reg  *registry.Registry
	mat  Materializer
}

// NewGenerator wires the pipeline to a capability port, retry executor,
// and project registry.
func NewGenerator(team agents.TeamProvider, exec *agents.Executor, reg *registry.Registry) *Generator {
	return &Generator{team: team, exec: exec, reg: reg}
}

// agentTeam holds the ids of the four specialized agents for one project.
type agentTeam struct {
	architect string
	designer  string
	developer string
	tester    string
}

// Run executes the full pipeline for a project. Phase failures are
// absorbed by the retry executor's fallback path; the only hard failure
// is agent team creation, which marks the project as errored and
// propagates.
func (g *Generator) Run(ctx context.Context, p *models.Project) error {
	log := logging.L()
	log.Info("initializing autonomous agent team",
		zap.String("project", p.ID),
		zap.String("name", p.Name))

	team, err := g.createTeam(ctx, p)
	if err != nil {
		g.setStatus(p, models.StatusError)
		return fmt.Errorf("create agent team: %w", err)
	}

	// Phase 1: architecture planning.
	g.setStatus(p, models.StatusPlanning)
	complexity := AssessComplexity(p.Name, p.Description, string(p.Type))
	log.Info("assessed complexity", zap.String("project", p.ID), zap.String("complexity", complexity))

	architecture, err := g.exec.Execute(ctx, team.architect, ArchitecturePrompt(p, complexity), "Architecture Planning")
	if err != nil {
		return err
	}
	p.Metadata["architecture"] = architecture

	// Phase 2: UI/UX design.
	g.setStatus(p, models.StatusDesigning)
	design, err := g.exec.Execute(ctx, team.designer, DesignPrompt(p, architecture), "UI/UX Design")
	if err != nil {
		return err
	}
	p.Metadata["design"] = design

	// Phase 3: code development.
	g.setStatus(p, models.StatusBuilding)
	development, err := g.exec.Execute(ctx, team.developer, DevelopmentPrompt(p, architecture, design), "Code Development")
	if err != nil {
		return err
	}
	p.Metadata["development"] = development

	g.materialize(p, development)

	// Phase 4: testing and validation, with iterative fixes.
	g.setStatus(p, models.StatusTesting)
	for attempt := 1; attempt <= maxValidationAttempts; attempt++ {
		log.Info("validation attempt",
			zap.String("project", p.ID),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxValidationAttempts))

		testing, err := g.exec.Execute(ctx, team.tester, TestingPrompt(p, development, architecture), "Testing and Validation")
		if err != nil {
			return err
		}
		p.Metadata[fmt.Sprintf("testing_attempt_%d", attempt)] = testing

		issues := ParseValidation(testing)
		if !issues.NeedsFix || len(issues.MissingFiles) == 0 {
			log.Info("all validation issues resolved", zap.String("project", p.ID))
			break
		}

		log.Warn("validation found missing files, requesting developer fix",
			zap.String("project", p.ID),
			zap.Strings("missing_files", issues.MissingFiles))

		fixed, err := g.exec.Execute(ctx, team.developer, FixPrompt(p, issues, development), "Code Fix")
		if err != nil {
			return err
		}
		development = fixed
		p.Metadata["development"] = development
		g.materialize(p, development)

		if attempt == maxValidationAttempts {
			log.Warn("reached maximum validation attempts, issues may remain",
				zap.String("project", p.ID),
				zap.Int("max_attempts", maxValidationAttempts))
		}
	}

	g.setStatus(p, models.StatusStopped)
	log.Info("autonomous agent team completed application development",
		zap.String("project", p.ID))
	return nil
}

// materialize scaffolds the standard layout and writes the current
// development result into the project tree.
func (g *Generator) materialize(p *models.Project, development string) {
	if err := g.mat.Scaffold(p.Path); err != nil {
		logging.L().Warn("could not scaffold project structure",
			zap.String("project", p.ID), zap.Error(err))
	}
	g.mat.Materialize(p.Path, development, p.Name, p.Type)
}

// setStatus advances the project state machine and persists the registry.
// Status never regresses; error is terminal.
func (g *Generator) setStatus(p *models.Project, status models.AppStatus) {
	if !models.CanTransition(p.Status, status) {
		logging.L().Warn("refusing status regression",
			zap.String("project", p.ID),
			zap.String("from", string(p.Status)),
			zap.String("to", string(status)))
		return
	}
	p.Status = status
	p.Touch()
	g.reg.Put(p)
	if err := g.reg.Save(); err != nil {
		logging.L().Warn("could not persist registry", zap.Error(err))
	}
}

// createTeam provisions the four role-specialized agents for a project.
func (g *Generator) createTeam(ctx context.Context, p *models.Project) (*agentTeam, error) {
	specs := []struct {
		role        agents.AgentRole
		name        string
		description string
		skills      []string
		tools       []string
	}{
		{
			role:        agents.RoleArchitect,
			name:        fmt.Sprintf("Architect_%s", p.ID),
			description: fmt.Sprintf("Software architect specializing in Streamlit application architecture for %s", p.Name),
			skills:      []string{"software_architecture", "system_design", "streamlit", "python", "web_development"},
			tools:       []string{"reasoning_tools", "file_system_tools"},
		},
		{
			role:        agents.RoleDesigner,
			name:        fmt.Sprintf("Designer_%s", p.ID),
			description: fmt.Sprintf("UI/UX designer specializing in Streamlit interface design for %s", p.Name),
			skills:      []string{"ui_design", "ux_design", "streamlit", "user_experience", "interface_design"},
			tools:       []string{"reasoning_tools", "file_system_tools"},
		},
		{
			role:        agents.RoleDeveloper,
			name:        fmt.Sprintf("Developer_%s", p.ID),
			description: fmt.Sprintf("Python developer specializing in Streamlit application development for %s", p.Name),
			skills:      []string{"python", "streamlit", "web_development", "code_generation", "software_engineering"},
			tools:       []string{"reasoning_tools", "file_system_tools", "streamlit_tools"},
		},
		{
			role:        agents.RoleTester,
			name:        fmt.Sprintf("Tester_%s", p.ID),
			description: fmt.Sprintf("QA engineer specializing in testing Streamlit applications for %s", p.Name),
			skills:      []string{"testing", "quality_assurance", "streamlit", "python", "validation"},
			tools:       []string{"reasoning_tools", "file_system_tools"},
		},
	}

	team := &agentTeam{}
	for _, s := range specs {
		id, err := g.team.CreateAgent(ctx, agents.AgentSpec{
			Name:        s.name,
			Role:        s.role,
			Description: s.description,
			Capabilities: agents.Capabilities{
				Tools:      s.tools,
				Skills:     s.skills,
				Modalities: []string{"text"},
				Languages:  []string{"english"},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("create %s agent: %w", s.role, err)
		}
		switch s.role {
		case agents.RoleArchitect:
			team.architect = id
		case agents.RoleDesigner:
			team.designer = id
		case agents.RoleDeveloper:
			team.developer = id
		case agents.RoleTester:
			team.tester = id
		}
	}
	return team, nil
}

// GenerateBasic writes a minimal project when no capability port is
// configured: the placeholder app plus a config stub.
func GenerateBasic(p *models.Project) error {
	mat := Materializer{}
	if err := mat.Scaffold(p.Path); err != nil {
		return err
	}
	mat.Materialize(p.Path, "", p.Name, p.Type)

	configYAML := fmt.Sprintf("app:\n  name: %q\n  type: %q\n  description: %q\n",
		p.Name, p.Type, p.Description)
	return writeConfigStub(p.Path, configYAML)
}
