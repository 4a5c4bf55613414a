// Package forge - project file materializer
// Turns free-form developer output into files on disk, guaranteeing the
// project directory is never left without a runnable entry point.
package forge

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"appforge/internal/logging"
	"appforge/pkg/models"
)

// projectDirs is the fixed layout every generated project gets, each
// seeded with a package marker.
var projectDirs = []string{
	"components", "utils", "models", "data", "config",
	"services", "static", "logs", "tests", "docs",
}

// Extraction patterns, most specific first. Blocks with no discoverable
// filename cannot be materialized and are skipped.
var fileBlockPatterns = []struct {
	re             *regexp.Regexp
	hasDescription bool
}{
	// file_path/description header inside the fence
	{regexp.MustCompile("(?s)```(?:python|txt|yaml|markdown)\\s*# file_path: ([^\n]+)\\s*# description: ([^\n]*)\\s*(.*?)```"), true},
	// bare filename comment as the first fenced line
	{regexp.MustCompile("(?s)```(?:python|txt|yaml|markdown)\\s*# ([^\n]+\\.(?:py|txt|yaml|md))\\s*(.*?)```"), false},
}

// Materializer writes parsed files under a project root. At most one
// materialization pass runs per project at a time; the orchestrator is
// strictly sequential.
type Materializer struct{}

// Scaffold creates the standard project directory layout with package
// markers. Idempotent.
func (m *Materializer) Scaffold(root string) error {
	for _, dir := range projectDirs {
		full := filepath.Join(root, dir)
		if err := os.MkdirAll(full, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
		marker := filepath.Join(full, "__init__.py")
		if _, err := os.Stat(marker); os.IsNotExist(err) {
			content := fmt.Sprintf("# %s package\n", titleCase(dir))
			if err := os.WriteFile(marker, []byte(content), 0644); err != nil {
				return fmt.Errorf("write package marker %s: %w", marker, err)
			}
		}
	}
	return nil
}

// Materialize extracts file blocks from raw developer output and writes
// them under root, first match per path wins. When nothing usable is
// parsed it writes a deterministic placeholder project; when essentials
// are missing from a partial response it synthesizes only those. Returns
// the number of files written.
func (m *Materializer) Materialize(root, raw string, name string, appType models.AppType) int {
	log := logging.L()
	log.Info("materializing development result",
		zap.String("root", root),
		zap.Int("result_length", len(raw)))

	written := make(map[string]struct{})
	count := 0

	for i, pattern := range fileBlockPatterns {
		matches := pattern.re.FindAllStringSubmatch(raw, -1)
		log.Debug("extraction pattern applied",
			zap.Int("pattern", i+1),
			zap.Int("matches", len(matches)))

		for _, match := range matches {
			var path, content string
			if pattern.hasDescription {
				path, content = match[1], match[3]
			} else {
				path, content = match[1], match[2]
			}

			path = normalizePath(path)
			content = strings.TrimSpace(content)
			if path == "" || content == "" {
				continue
			}
			if _, ok := written[path]; ok {
				continue
			}

			full := filepath.Join(root, path)
			if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
				log.Warn("could not create directory for file",
					zap.String("path", path), zap.Error(err))
				continue
			}
			if err := os.WriteFile(full, []byte(content), 0644); err != nil {
				log.Warn("could not write file",
					zap.String("path", path), zap.Error(err))
				continue
			}

			log.Info("created file", zap.String("path", path), zap.Int("bytes", len(content)))
			written[path] = struct{}{}
			count++
		}
	}

	if count == 0 {
		log.Warn("no files parsed from developer output, writing placeholder project")
		count += m.writePlaceholders(root, name, appType, []string{"app.py", "requirements.txt", "README.md"})
		return count
	}

	// Partial output must still yield a loadable project.
	missing := make([]string, 0, 2)
	for _, essential := range []string{"app.py", "requirements.txt"} {
		if _, err := os.Stat(filepath.Join(root, essential)); os.IsNotExist(err) {
			missing = append(missing, essential)
		}
	}
	if len(missing) > 0 {
		log.Warn("essential files missing from developer output, synthesizing",
			zap.Strings("files", missing))
		count += m.writePlaceholders(root, name, appType, missing)
	}
	return count
}

// writePlaceholders writes the named placeholder files and returns how
// many succeeded.
func (m *Materializer) writePlaceholders(root, name string, appType models.AppType, files []string) int {
	log := logging.L()
	count := 0
	for _, f := range files {
		var content string
		switch f {
		case "app.py":
			content = placeholderApp(name, appType)
		case "requirements.txt":
			content = placeholderRequirements
		case "README.md":
			content = placeholderReadme(name)
		default:
			continue
		}
		if err := os.WriteFile(filepath.Join(root, f), []byte(content), 0644); err != nil {
			log.Warn("could not write placeholder", zap.String("path", f), zap.Error(err))
			continue
		}
		count++
	}
	return count
}

// normalizePath cleans up a captured file path: looser patterns sometimes
// swallow the header prefixes or a leading ./.
func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.TrimSpace(strings.TrimPrefix(path, "file_path:"))
	path = strings.TrimSpace(strings.TrimPrefix(path, "description:"))
	path = strings.TrimPrefix(path, "./")
	return path
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// writeConfigStub writes the project's config.yaml.
func writeConfigStub(root, content string) error {
	return os.WriteFile(filepath.Join(root, "config.yaml"), []byte(content), 0644)
}

const placeholderRequirements = "streamlit>=1.28.0\npandas>=2.0.0\nnumpy>=1.21.0\n"

func placeholderApp(name string, appType models.AppType) string {
	icon := appType.Icon()
	return fmt.Sprintf(`import streamlit as st

st.set_page_config(page_title="%s", page_icon="%s", layout="wide")

def main():
    st.title("%s %s")
    st.write("Welcome to %s!")
    st.write("This is a basic template generated while full agent output was unavailable.")

    if st.button("Start Application"):
        st.success("Application started! %s")

if __name__ == "__main__":
    main()
`, name, icon, icon, name, name, icon)
}

func placeholderReadme(name string) string {
	return fmt.Sprintf(`# %s

A Streamlit application generated by the forge autonomous agent system.

## Installation

`+"```bash"+`
pip install -r requirements.txt
`+"```"+`

## Usage

`+"```bash"+`
streamlit run app.py
`+"```"+`
`, name)
}
