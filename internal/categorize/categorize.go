// Package categorize maps changed file paths to change categories and
// derives the default test layer for each category.
package categorize

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rohankatakam/testimpact/internal/models"
)

// rule pairs a category tag with a path predicate. Rules are evaluated
// in order, first match wins, so broader patterns must come later.
type rule struct {
	tag   models.ChangeCategory
	match func(path pathParts) bool
}

// pathParts caches the normalized views of a file path the predicates
// share.
type pathParts struct {
	full string // lowercased full path
	base string // lowercased base name without extension
	ext  string // lowercased extension, with dot
}

var migrationVersionRe = regexp.MustCompile(`(^|/)v\d+__`)

var rules = []rule{
	{models.CategoryTest, func(p pathParts) bool {
		return strings.Contains(p.full, "test") ||
			strings.Contains(p.full, "spec.") ||
			strings.Contains(p.full, ".spec") ||
			strings.Contains(p.full, "/specs/")
	}},
	{models.CategoryMigration, func(p pathParts) bool {
		return strings.Contains(p.full, "migration") ||
			strings.Contains(p.full, "/migrate/") ||
			strings.Contains(p.full, "flyway") ||
			strings.Contains(p.full, "liquibase") ||
			migrationVersionRe.MatchString(p.full)
	}},
	{models.CategoryAPIContract, func(p pathParts) bool {
		if p.ext == ".proto" || p.ext == ".graphql" || p.ext == ".wsdl" {
			return true
		}
		if strings.Contains(p.full, "openapi") || strings.Contains(p.full, "swagger") {
			return true
		}
		structured := p.ext == ".yaml" || p.ext == ".yml" || p.ext == ".json"
		return structured && (strings.Contains(p.full, "api") || strings.Contains(p.full, "contract"))
	}},
	{models.CategoryConfiguration, func(p pathParts) bool {
		switch p.ext {
		case ".properties", ".toml", ".ini", ".env", ".conf", ".cfg":
			return true
		case ".yaml", ".yml", ".json", ".xml":
			return true
		}
		return strings.Contains(p.base, "config") || strings.Contains(p.base, "settings")
	}},
	{models.CategoryEndpoint, func(p pathParts) bool {
		for _, marker := range []string{"controller", "endpoint", "resource", "handler", "route"} {
			if strings.Contains(p.base, marker) {
				return true
			}
		}
		return strings.Contains(p.full, "/controllers/") || strings.Contains(p.full, "/handlers/")
	}},
	{models.CategoryDTO, func(p pathParts) bool {
		for _, marker := range []string{"dto", "request", "response", "payload"} {
			if strings.Contains(p.base, marker) {
				return true
			}
		}
		return strings.Contains(p.full, "/dto/")
	}},
	{models.CategoryQuery, func(p pathParts) bool {
		if p.ext == ".sql" {
			return true
		}
		for _, marker := range []string{"repository", "dao", "mapper", "query"} {
			if strings.Contains(p.base, marker) {
				return true
			}
		}
		return false
	}},
	{models.CategoryBusinessRule, func(p pathParts) bool {
		for _, marker := range []string{"service", "manager", "usecase", "validator", "rule", "policy", "calculator"} {
			if strings.Contains(p.base, marker) {
				return true
			}
		}
		return strings.Contains(p.full, "/domain/") || strings.Contains(p.full, "/business/")
	}},
}

// Categorize maps a file path to its change category. No match means
// OTHER.
func Categorize(filePath string) models.ChangeCategory {
	base := filepath.Base(filePath)
	ext := strings.ToLower(filepath.Ext(base))
	p := pathParts{
		full: strings.ToLower(filepath.ToSlash(filePath)),
		base: strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base))),
		ext:  ext,
	}

	for _, r := range rules {
		if r.match(p) {
			return r.tag
		}
	}
	return models.CategoryOther
}

// testTypeByCategory implements the test-pyramid policy: the cheapest
// test layer that can still catch the category's failures.
var testTypeByCategory = map[models.ChangeCategory]models.TestType{
	models.CategoryBusinessRule:  models.TestTypeUnit,
	models.CategoryDTO:           models.TestTypeUnit,
	models.CategoryTest:          models.TestTypeUnit,
	models.CategoryEndpoint:      models.TestTypeController,
	models.CategoryQuery:         models.TestTypeDataLayer,
	models.CategoryMigration:     models.TestTypeIntegration,
	models.CategoryConfiguration: models.TestTypeIntegration,
	models.CategoryAPIContract:   models.TestTypeContract,
	models.CategoryOther:         models.TestTypeUnit,
}

// SelectTestType returns the required test layer for a category.
func SelectTestType(category models.ChangeCategory) models.TestType {
	if t, ok := testTypeByCategory[category]; ok {
		return t
	}
	return models.TestTypeUnit
}
