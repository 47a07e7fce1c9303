//go:build governance

package derive_test

import (
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/leapstack-labs/synkit"

// =============================================================================
// PURITY TEST - Library packages carry no third-party dependencies
// =============================================================================

// TestGovernance_LibraryPurity verifies that no pkg/ package imports
// anything beyond the standard library, other pkg/ packages, and
// golang.org/x/tools (emit's formatter).
func TestGovernance_LibraryPurity(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	for _, p := range pkgs {
		for importPath := range p.Imports {
			// Stdlib has no dot in its first path element.
			if !strings.Contains(strings.SplitN(importPath, "/", 2)[0], ".") {
				continue
			}
			if strings.HasPrefix(importPath, modulePath+"/pkg/") {
				continue
			}
			if strings.HasPrefix(importPath, "golang.org/x/tools/") {
				continue
			}
			t.Errorf("PURITY VIOLATION: '%s' imports '%s'.\n"+
				"   Fix: move the dependency under internal/.",
				strings.TrimPrefix(p.PkgPath, modulePath+"/"), importPath)
		}
	}
}

// =============================================================================
// PAIRING TEST - Every positive predicate has a named negation
// =============================================================================

// TestGovernance_PredicatePairs verifies pkg/typexpr exports a named
// negation for every positive predicate, so generator pipelines never need
// a bang at the call site.
func TestGovernance_PredicatePairs(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/typexpr")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}
	if len(pkgs) != 1 {
		t.Fatalf("Expected one package, got %d", len(pkgs))
	}

	scope := pkgs[0].Types.Scope()
	names := make(map[string]bool)
	for _, name := range scope.Names() {
		names[name] = true
	}

	// Combined guards whose positive twin would have no use.
	allowlist := map[string]bool{
		"IsNotOptionOrVec": true,
	}

	for name := range names {
		switch {
		case strings.HasPrefix(name, "IsNot"):
			positive := "Is" + strings.TrimPrefix(name, "IsNot")
			if !allowlist[name] && !names[positive] {
				t.Errorf("PAIRING VIOLATION: '%s' has no positive form '%s'", name, positive)
			}
		case strings.HasPrefix(name, "Is"):
			negation := "IsNot" + strings.TrimPrefix(name, "Is")
			if !names[negation] {
				t.Errorf("PAIRING VIOLATION: '%s' has no negation '%s'", name, negation)
			}
		case name == "SegmentsEmpty":
			if !names["SegmentsNotEmpty"] {
				t.Error("PAIRING VIOLATION: 'SegmentsEmpty' has no negation 'SegmentsNotEmpty'")
			}
		}
	}
}
