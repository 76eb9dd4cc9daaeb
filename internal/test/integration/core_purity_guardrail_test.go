//go:build integration
// +build integration

package integration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/skilletworks/prepline"

// TestCoreMechanicsStayDependencyFree asserts that the round mechanics
// packages import nothing beyond the standard library and each other.
// Rendering, persistence, and transport concerns live in outer packages
// and must not leak inward.
func TestCoreMechanicsStayDependencyFree(t *testing.T) {
	config := &packages.Config{
		Mode:  packages.NeedName | packages.NeedImports | packages.NeedDeps,
		Tests: false,
		Dir:   integrationRepoRoot(t),
	}
	pkgs, err := packages.Load(config, corePurityGuardrailPatterns()...)
	if err != nil {
		t.Fatalf("load core packages: %v", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		t.Fatalf("core package load errors")
	}
	if len(pkgs) == 0 {
		t.Fatal("core packages not found")
	}

	var violations []string
	for _, pkg := range pkgs {
		imports := make([]string, 0, len(pkg.Imports))
		for path := range pkg.Imports {
			imports = append(imports, path)
		}
		sort.Strings(imports)
		for _, path := range imports {
			if isCorePurityAllowedImport(path) {
				continue
			}
			violations = append(violations, fmt.Sprintf("- %s imports %s", pkg.PkgPath, path))
		}
	}

	if len(violations) > 0 {
		t.Fatalf("core mechanics packages must stay free of outer-layer dependencies:\n%s", strings.Join(violations, "\n"))
	}
}

func TestCorePurityGuardrailScopes(t *testing.T) {
	patterns := corePurityGuardrailPatterns()
	if len(patterns) == 0 {
		t.Fatal("expected at least one package pattern")
	}
	found := false
	for _, pattern := range patterns {
		if pattern == "./internal/core/..." {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected scan scope to include ./internal/core/..., got %v", patterns)
	}
}

func TestCorePurityGuardrailAllowsMechanicsImports(t *testing.T) {
	if !isCorePurityAllowedImport(modulePath + "/internal/core/board") {
		t.Fatal("expected mechanics packages to import each other")
	}
	if !isCorePurityAllowedImport("math/rand") {
		t.Fatal("expected standard library imports to be allowed")
	}
	if isCorePurityAllowedImport(modulePath + "/internal/storage") {
		t.Fatal("expected storage imports to be rejected")
	}
	if isCorePurityAllowedImport("gopkg.in/yaml.v3") {
		t.Fatal("expected third-party imports to be rejected")
	}
}

func corePurityGuardrailPatterns() []string {
	return []string{
		"./internal/core/...",
		"./internal/round",
	}
}

func isCorePurityAllowedImport(path string) bool {
	path = filepath.ToSlash(strings.TrimSpace(path))
	if path == "" {
		return false
	}
	allowedPrefixes := []string{
		modulePath + "/internal/core/",
		modulePath + "/internal/round",
		modulePath + "/internal/errors",
		modulePath + "/internal/random",
	}
	for _, prefix := range allowedPrefixes {
		if path == strings.TrimSuffix(prefix, "/") || strings.HasPrefix(path, prefix) {
			return true
		}
	}
	// Anything else under the module path is an outer layer.
	if strings.HasPrefix(path, modulePath+"/") {
		return false
	}
	// No dots in the first segment means a standard library package.
	first := path
	if idx := strings.Index(path, "/"); idx >= 0 {
		first = path[:idx]
	}
	return !strings.Contains(first, ".")
}

func integrationRepoRoot(t *testing.T) string {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("get working dir: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return wd
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			t.Fatal("go.mod not found")
		}
		wd = parent
	}
}
