// Package forge - phase prompt templates
// Concise prompts that keep agent responses parseable while minimizing
// token usage.
package forge

import (
	"fmt"
	"strings"

	"appforge/pkg/models"
)

var complexityInstructions = map[string]string{
	ComplexitySimple:  "Create a SINGLE-FILE application. Everything in app.py. Minimal dependencies. Keep it simple and straightforward.",
	ComplexityMedium:  "Create a MODULAR application with basic separation. 2-3 files maximum. Essential components only.",
	ComplexityComplex: "Create a FULL enterprise architecture with proper MVC pattern, multiple components, utilities, and comprehensive structure.",
}

// ArchitecturePrompt builds the planning-phase task for the architect.
func ArchitecturePrompt(p *models.Project, complexity string) string {
	instructions, ok := complexityInstructions[complexity]
	if !ok {
		instructions = complexityInstructions[ComplexityMedium]
	}

	return fmt.Sprintf(`Design architecture for Streamlit app: %s (%s)
Description: %s
Complexity Level: %s

%s

Requirements:
- Follow the complexity level specified
- Create only necessary files for the complexity level
- Ensure all imports are properly mapped
- Keep simple things simple, complex things properly structured

Output JSON structure:
{
    "architecture": {
        "pattern": "Single-File|Component-Based|MVC",
        "layers": ["UI"] or ["UI", "Business"] or ["UI", "Business", "Data"]
    },
    "file_structure": {
        "main_files": [
            {"file": "app.py", "purpose": "Main application entry point", "imports": ["list of imports"]},
            {"file": "requirements.txt", "purpose": "Dependencies"}
        ],
        "models": [{"file": "models/model_name.py", "class": "ClassName", "methods": ["method1"]}],
        "components": [{"file": "components/component_name.py", "class": "ClassName", "purpose": "Component purpose"}],
        "utils": [{"file": "utils/utility_name.py", "class": "ClassName", "purpose": "Utility purpose"}]
    },
    "dependencies": {"required": ["streamlit"], "optional": ["other_deps"]},
    "import_mapping": {"app.py": ["imports"]}
}

IMPORTANT:
- For SIMPLE: Create only app.py and requirements.txt
- For MEDIUM: Create 2-3 files maximum
- For COMPLEX: Create full architecture
- Every file listed MUST be implemented by the developer`,
		p.Name, p.Type, p.Description, strings.ToUpper(complexity), instructions)
}

// DesignPrompt builds the designing-phase task, anchored on the
// architecture result.
func DesignPrompt(p *models.Project, architecture string) string {
	return fmt.Sprintf(`Design UI/UX for Streamlit app: %s
Architecture: %s...

Requirements:
- Intuitive, engaging user interface
- Responsive design with proper layout
- Interactive elements and user feedback
- Accessibility and usability focus
- Modern, professional appearance

Output JSON structure:
{
    "ui_design": {"layout": "sidebar|columns|tabs", "theme": "light|dark|custom", "color_scheme": "primary colors"},
    "components": [
        {"name": "component_name", "type": "input|output|visualization|navigation", "features": ["feature1"], "interactions": ["click", "hover", "input"]}
    ],
    "user_flow": [
        {"step": "step_number", "action": "user action", "response": "system response"}
    ]
}`, p.Name, truncate(architecture, 200))
}

// DevelopmentPrompt builds the building-phase task for the developer. The
// full architecture is embedded so every planned file gets implemented.
func DevelopmentPrompt(p *models.Project, architecture, design string) string {
	return fmt.Sprintf(`Develop Streamlit app: %s
Architecture: %s...
Design: %s...

CRITICAL REQUIREMENTS:
- Implement EXACTLY the file structure defined by the architect
- Create ALL files listed in the architecture's file_structure
- Follow the import_mapping defined in the architecture
- Ensure all imports are resolved and working
- Keep the implementation appropriate for the complexity level

ARCHITECTURE FILE STRUCTURE:
The architect has defined the following files that MUST be created:

%s

Output format: Each file must be formatted exactly as:
`+"```"+`python
# file_path: path/to/file.py
# description: Brief description of the file
# actual code here
`+"```"+`

CRITICAL: You MUST implement ALL files from the architecture's file_structure.
Do not add extra files. Do not skip any files. Follow the architect's plan exactly.`,
		p.Name, truncate(architecture, 500), truncate(design, 200), architecture)
}

// TestingPrompt builds the validation task for the tester.
func TestingPrompt(p *models.Project, development, architecture string) string {
	return fmt.Sprintf(`Test Streamlit app: %s
Architecture: %s...
Code: %s...

CRITICAL VALIDATION REQUIREMENTS:
1. Check if app.py can be imported without errors
2. Verify ALL files from the architecture's file_structure exist
3. Validate that all imports in import_mapping are resolved
4. Check for syntax errors and logical issues
5. Ensure all classes and methods from architecture are implemented

IMPORTANT: Try to import app.py and catch any ModuleNotFoundError or ImportError.
If you see any "No module named" errors, you MUST include those missing modules
in the missing_files list. For example:
- "No module named 'components.game_interface'" becomes "components/game_interface.py"
- "No module named 'models.character'" becomes "models/character.py"
- "No module named 'utils.session_manager'" becomes "utils/session_manager.py"

Output JSON structure:
{
    "validation": {
        "code_quality": "score/10",
        "functionality": "score/10",
        "structure": "score/10",
        "imports_valid": true/false,
        "architecture_compliant": true/false
    },
    "missing_files": ["files from architecture that are missing"],
    "missing_components": ["classes from architecture that are not implemented"],
    "issues": [
        {"type": "error|warning|suggestion", "description": "issue description", "fix": "recommended fix"}
    ],
    "production_ready": true/false,
    "needs_developer_fix": true/false,
    "summary": "overall assessment"
}`, p.Name, truncate(architecture, 500), truncate(development, 500))
}

// FixPrompt asks the developer for only the files the tester found
// missing, with an excerpt of the current development result for context.
func FixPrompt(p *models.Project, issues ValidationIssues, development string) string {
	missingFiles := make([]string, 0, len(issues.MissingFiles))
	for _, f := range issues.MissingFiles {
		missingFiles = append(missingFiles, "- "+f)
	}
	missingComponents := make([]string, 0, len(issues.MissingComponents))
	for _, c := range issues.MissingComponents {
		missingComponents = append(missingComponents, "- "+c)
	}

	return fmt.Sprintf(`CRITICAL FIX REQUIRED for %s

The validator found missing components that prevent the application from running:

MISSING FILES:
%s

MISSING COMPONENTS:
%s

CURRENT DEVELOPMENT RESULT:
%s...

REQUIREMENTS:
1. Create ALL missing files listed above
2. Ensure each component has the proper class definition and methods
3. Make sure all imports in app.py are resolved
4. Follow the exact file format:
`+"```"+`python
# file_path: path/to/file.py
# description: Brief description
# actual code here
`+"```"+`

CRITICAL: Generate ONLY the missing files. Do not regenerate existing files.
Focus on creating functional, minimal implementations that resolve the import errors.`,
		p.Name,
		strings.Join(missingFiles, "\n"),
		strings.Join(missingComponents, "\n"),
		truncate(development, 1000))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
