package forge

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

// ValidationIssue is one problem the tester reported.
type ValidationIssue struct {
	Kind         string `json:"type"`
	Description  string `json:"description"`
	SuggestedFix string `json:"fix"`
}

// ValidationIssues is the structured view of a testing-phase result. It is
// recomputed from the latest tester output on every validation attempt and
// never persisted.
type ValidationIssues struct {
	NeedsFix          bool
	MissingFiles      []string
	MissingComponents []string
	Issues            []ValidationIssue
}

var (
	pathPattern   = regexp.MustCompile(`(?:components|utils|models)/[a-zA-Z_]+\.(?:py|txt|yaml|md)`)
	modulePattern = regexp.MustCompile(`No module named '([^']+)'`)
)

// ParseValidation extracts validation findings from raw tester output.
// The input is free-form LLM text: it tries the greedy {...} span as
// JSON, falls back to heuristic path and import-error scanning, and never
// fails. Worst case it reports no issues.
func ParseValidation(raw string) ValidationIssues {
	if issues, ok := parseStructured(raw); ok {
		return issues
	}
	return parseHeuristic(raw)
}

// parseStructured handles tester output that honors the JSON contract.
func parseStructured(raw string) (ValidationIssues, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return ValidationIssues{}, false
	}

	var parsed struct {
		NeedsDeveloperFix bool              `json:"needs_developer_fix"`
		MissingFiles      []string          `json:"missing_files"`
		MissingComponents []string          `json:"missing_components"`
		Issues            []ValidationIssue `json:"issues"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return ValidationIssues{}, false
	}

	return ValidationIssues{
		NeedsFix:          parsed.NeedsDeveloperFix,
		MissingFiles:      dedupe(parsed.MissingFiles),
		MissingComponents: dedupe(parsed.MissingComponents),
		Issues:            parsed.Issues,
	}, true
}

// parseHeuristic recovers missing-file findings from free text: path
// shaped substrings under the known package directories, and Python
// import errors translated back into the file that should define the
// module.
func parseHeuristic(raw string) ValidationIssues {
	issues := ValidationIssues{
		MissingFiles:      []string{},
		MissingComponents: []string{},
		Issues:            []ValidationIssue{},
	}

	lower := strings.ToLower(raw)
	if !strings.Contains(lower, "missing") && !strings.Contains(lower, "import") &&
		!strings.Contains(lower, "module") {
		return issues
	}

	missing := pathPattern.FindAllString(raw, -1)

	for _, m := range modulePattern.FindAllStringSubmatch(raw, -1) {
		module := m[1]
		first, _, _ := strings.Cut(module, ".")
		switch first {
		case "models", "components", "utils":
			missing = append(missing, strings.ReplaceAll(module, ".", "/")+".py")
		}
	}

	if len(missing) > 0 {
		issues.NeedsFix = true
		issues.MissingFiles = dedupe(missing)
	}
	return issues
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
