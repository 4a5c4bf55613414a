package forge

import "strings"

// Complexity tiers control how much structure the architect is asked for.
const (
	ComplexitySimple  = "simple"
	ComplexityMedium  = "medium"
	ComplexityComplex = "complex"
)

var simpleKeywords = []string{
	"simple", "basic", "minimal", "quick", "demo", "example",
	"single", "one", "small", "tiny", "lightweight", "straightforward",
}

var complexKeywords = []string{
	"enterprise", "scalable", "production", "advanced", "complex",
	"multi", "comprehensive", "full-featured", "robust", "sophisticated",
	"professional", "commercial", "large", "extensive",
}

// AssessComplexity classifies a project request by counting indicator
// keywords across its name, description, and type. Pure and total.
func AssessComplexity(name, description, appType string) string {
	text := strings.ToLower(name + " " + description + " " + appType)

	simpleCount := 0
	for _, kw := range simpleKeywords {
		if strings.Contains(text, kw) {
			simpleCount++
		}
	}
	complexCount := 0
	for _, kw := range complexKeywords {
		if strings.Contains(text, kw) {
			complexCount++
		}
	}

	switch {
	case simpleCount > complexCount:
		return ComplexitySimple
	case complexCount > simpleCount:
		return ComplexityComplex
	default:
		return ComplexityMedium
	}
}
