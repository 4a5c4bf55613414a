package forge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValidationStructured(t *testing.T) {
	raw := `The application has problems. Here is my report:
{
  "needs_developer_fix": true,
  "missing_files": ["components/sidebar.py", "utils/helpers.py", "components/sidebar.py"],
  "missing_components": ["DataLoader"],
  "issues": [
    {"type": "missing_file", "description": "sidebar not found", "fix": "create components/sidebar.py"}
  ]
}
Let me know if you need anything else.`

	issues := ParseValidation(raw)
	assert.True(t, issues.NeedsFix)
	assert.Equal(t, []string{"components/sidebar.py", "utils/helpers.py"}, issues.MissingFiles)
	assert.Equal(t, []string{"DataLoader"}, issues.MissingComponents)
	if assert.Len(t, issues.Issues, 1) {
		assert.Equal(t, "missing_file", issues.Issues[0].Kind)
		assert.Equal(t, "create components/sidebar.py", issues.Issues[0].SuggestedFix)
	}
}

func TestParseValidationStructuredClean(t *testing.T) {
	issues := ParseValidation(`{"needs_developer_fix": false, "missing_files": [], "issues": []}`)
	assert.False(t, issues.NeedsFix)
	assert.Empty(t, issues.MissingFiles)
}

func TestParseValidationModuleError(t *testing.T) {
	raw := `Traceback (most recent call last):
  File "app.py", line 3, in <module>
ModuleNotFoundError: No module named 'components.game_interface'`

	issues := ParseValidation(raw)
	assert.True(t, issues.NeedsFix)
	assert.Equal(t, []string{"components/game_interface.py"}, issues.MissingFiles)
}

func TestParseValidationHeuristicPaths(t *testing.T) {
	raw := `Testing failed. The file components/board.py is missing and
utils/scoring.py could not be imported. components/board.py again.`

	issues := ParseValidation(raw)
	assert.True(t, issues.NeedsFix)
	assert.Equal(t, []string{"components/board.py", "utils/scoring.py"}, issues.MissingFiles)
}

func TestParseValidationIgnoresForeignModules(t *testing.T) {
	raw := `ImportError: No module named 'numpy'`
	issues := ParseValidation(raw)
	assert.False(t, issues.NeedsFix)
	assert.Empty(t, issues.MissingFiles)
}

func TestParseValidationTotal(t *testing.T) {
	for _, raw := range []string{
		"",
		"everything looks great, ship it",
		"{not valid json at all",
		"{}",
		"}{",
		"missing closing brace { \"needs_developer_fix\": true",
	} {
		issues := ParseValidation(raw)
		assert.False(t, issues.NeedsFix, "input %q", raw)
		assert.Empty(t, issues.MissingFiles, "input %q", raw)
	}
}

func TestParseValidationMalformedJSONFallsBackToHeuristic(t *testing.T) {
	// The brace span is broken JSON but the text still names a missing file.
	raw := `{"needs_developer_fix": true, oops} The module components/chart.py is missing.`
	issues := ParseValidation(raw)
	assert.True(t, issues.NeedsFix)
	assert.Equal(t, []string{"components/chart.py"}, issues.MissingFiles)
}
