// Package models defines the shared data model for generated projects.
package models

import "time"

// AppType categorizes a generated application.
type AppType string

const (
	TypeDashboard           AppType = "dashboard"
	TypeChat                AppType = "chat"
	TypeDataAnalysis        AppType = "data_analysis"
	TypeFileUtility         AppType = "file_utility"
	TypeGame                AppType = "game"
	TypeEcommerce           AppType = "ecommerce"
	TypeCRM                 AppType = "crm"
	TypeInventory           AppType = "inventory"
	TypeResearch            AppType = "research"
	TypeKnowledgeBase       AppType = "knowledge_base"
	TypeDocumentAnalysis    AppType = "document_analysis"
	TypeCreativeWriting     AppType = "creative_writing"
	TypeMusic               AppType = "music"
	TypeDesign              AppType = "design"
	TypeEducation           AppType = "education"
	TypeLanguageLearning    AppType = "language_learning"
	TypeProgrammingTutorial AppType = "programming_tutorial"
	TypeAPITesting          AppType = "api_testing"
	TypeSystemMonitoring    AppType = "system_monitoring"
	TypeCustom              AppType = "custom"
)

// AllTypes lists every supported application type.
func AllTypes() []AppType {
	return []AppType{
		TypeDashboard, TypeChat, TypeDataAnalysis, TypeFileUtility,
		TypeGame, TypeEcommerce, TypeCRM, TypeInventory, TypeResearch,
		TypeKnowledgeBase, TypeDocumentAnalysis, TypeCreativeWriting,
		TypeMusic, TypeDesign, TypeEducation, TypeLanguageLearning,
		TypeProgrammingTutorial, TypeAPITesting, TypeSystemMonitoring,
		TypeCustom,
	}
}

// ParseAppType maps a user-supplied string onto a known type, falling back
// to custom.
func ParseAppType(s string) AppType {
	for _, t := range AllTypes() {
		if string(t) == s {
			return t
		}
	}
	return TypeCustom
}

var typeIcons = map[AppType]string{
	TypeDashboard:           "📊",
	TypeChat:                "💬",
	TypeDataAnalysis:        "📈",
	TypeFileUtility:         "📁",
	TypeGame:                "🎮",
	TypeEcommerce:           "🛒",
	TypeCRM:                 "👥",
	TypeInventory:           "📦",
	TypeResearch:            "🔬",
	TypeKnowledgeBase:       "📚",
	TypeDocumentAnalysis:    "📄",
	TypeCreativeWriting:     "✍️",
	TypeMusic:               "🎵",
	TypeDesign:              "🎨",
	TypeEducation:           "🎓",
	TypeLanguageLearning:    "🌍",
	TypeProgrammingTutorial: "💻",
	TypeAPITesting:          "🔧",
	TypeSystemMonitoring:    "📊",
	TypeCustom:              "⚙️",
}

// Icon returns the display icon for an app type. Unknown types get the
// generic rocket.
func (t AppType) Icon() string {
	if icon, ok := typeIcons[t]; ok {
		return icon
	}
	return "🚀"
}

// AppStatus tracks a project through the generation pipeline and its
// runtime lifecycle.
type AppStatus string

const (
	StatusPlanning  AppStatus = "planning"
	StatusDesigning AppStatus = "designing"
	StatusBuilding  AppStatus = "building"
	StatusTesting   AppStatus = "testing"
	StatusDeploying AppStatus = "deploying"
	StatusRunning   AppStatus = "running"
	StatusStopped   AppStatus = "stopped"
	StatusError     AppStatus = "error"
)

// statusRank orders the pipeline states. Error is terminal and reachable
// from anywhere; it has no rank.
var statusRank = map[AppStatus]int{
	StatusPlanning:  0,
	StatusDesigning: 1,
	StatusBuilding:  2,
	StatusTesting:   3,
	StatusDeploying: 4,
	StatusRunning:   5,
	StatusStopped:   6,
}

// CanTransition reports whether moving from one status to another keeps
// the pipeline moving forward. The error state is always reachable.
func CanTransition(from, to AppStatus) bool {
	if to == StatusError {
		return true
	}
	if from == StatusError {
		return false
	}
	// Running projects may be stopped and redeployed.
	if from == StatusRunning && to == StatusDeploying {
		return true
	}
	if from == StatusStopped && to == StatusDeploying {
		return true
	}
	return statusRank[to] >= statusRank[from]
}

// Project is one generated application, owned by the orchestrator for its
// lifetime and persisted in the project registry keyed by ID.
type Project struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Type        AppType           `json:"type"`
	Description string            `json:"description"`
	Status      AppStatus         `json:"status"`
	Path        string            `json:"path"`
	Port        int               `json:"port"`
	URL         string            `json:"url"`
	Config      map[string]any    `json:"config"`
	Metadata    map[string]string `json:"metadata"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Touch refreshes the update timestamp.
func (p *Project) Touch() {
	p.UpdatedAt = time.Now()
}
