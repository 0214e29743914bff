// Package pkg provides the core libraries for figlint figure auditing.
//
// # Overview
//
// Figlint checks scientific figures against journal publication standards
// and repairs the problems that can be fixed mechanically. The pkg
// directory is organized into four main areas:
//
//  1. [scene] / [export] - The figure scene model and its JSON dump format
//  2. [audit] / [standards] / [palette] - Checking logic and journal rules
//  3. [fix] - Automated repairs derived from audit reports
//  4. [pipeline] / [cache] / [render] / [store] - Orchestration and infrastructure
//
// # Architecture
//
// The typical data flow through figlint:
//
//	Plotting-tool bridge (scene dump JSON)
//	         ↓
//	    [export] package (parse + validate)
//	         ↓
//	    [audit] package (checkers against a [standards.Standard])
//	         ↓
//	    [fix] package (apply automated repairs)
//	         ↓
//	    [render] package (Graphviz diagram of the result)
//
// # Quick Start
//
// Audit a scene dump and apply fixes:
//
//	import (
//	    "github.com/sciviz/figlint/pkg/audit"
//	    "github.com/sciviz/figlint/pkg/export"
//	    "github.com/sciviz/figlint/pkg/fix"
//	    "github.com/sciviz/figlint/pkg/standards"
//	)
//
//	// 1. Import the scene dump
//	fig, _ := export.ImportScene("scene.json")
//
//	// 2. Audit against a journal standard
//	std, _ := standards.Lookup("Nature")
//	engine, _ := audit.NewEngine(audit.DefaultConfig())
//	report, _ := engine.Audit(fig, std)
//
//	// 3. Apply the automated repairs
//	fixed, applied, _ := fix.ApplyAll(fig, report, std)
//
// # Main Packages
//
// ## Scene Model
//
// [scene] - The normalized figure model: a figure with physical dimensions
// and DPI, panels with bounding boxes, and typed elements (data series,
// legends, labels, annotations). Coordinates are inches from the figure's
// bottom-left corner.
//
// [export] - Reading and writing scene dumps and audit reports. The dump
// format is the contract between plotting-tool bridges and the auditor.
//
// ## Auditing
//
// [audit] - The checker engine. Each checker covers one concern: legend
// redundancy, data occlusion, font consistency, size and resolution
// limits, missing axis labels, and colorblind safety.
//
// [standards] - The journal standard registry with builtin entries and
// TOML-loaded user standards.
//
// [palette] - Color distance and colorblind simulation used by the
// palette checker and the recoloring fix.
//
// ## Repairs
//
// [fix] - Automated repairs for auto-fixable issues. Fixes never mutate
// the input figure; they return a repaired deep copy.
//
// ## Infrastructure
//
// [pipeline] - The audit → fix → render pipeline used by CLI and API.
// Ensures consistent behavior and caching across all entry points.
//
// [cache] - Content-addressed result caching with file, Redis, and null
// backends. Keys derive from the figure hash plus the audit options.
//
// [render] - Graphviz diagrams of the audit result, with nodes colored
// by issue severity.
//
// [store] - Report archival with in-memory and MongoDB backends.
//
// [errors] - Coded errors shared across packages, mapped to HTTP status
// codes by the API layer.
//
// [observability] - Hook points for request and pipeline instrumentation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/audit/...    # Specific package
//
// [scene]: https://pkg.go.dev/github.com/sciviz/figlint/pkg/scene
// [export]: https://pkg.go.dev/github.com/sciviz/figlint/pkg/export
// [audit]: https://pkg.go.dev/github.com/sciviz/figlint/pkg/audit
// [standards]: https://pkg.go.dev/github.com/sciviz/figlint/pkg/standards
// [palette]: https://pkg.go.dev/github.com/sciviz/figlint/pkg/palette
// [fix]: https://pkg.go.dev/github.com/sciviz/figlint/pkg/fix
// [pipeline]: https://pkg.go.dev/github.com/sciviz/figlint/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/sciviz/figlint/pkg/cache
// [render]: https://pkg.go.dev/github.com/sciviz/figlint/pkg/render
// [store]: https://pkg.go.dev/github.com/sciviz/figlint/pkg/store
// [errors]: https://pkg.go.dev/github.com/sciviz/figlint/pkg/errors
// [observability]: https://pkg.go.dev/github.com/sciviz/figlint/pkg/observability
// [standards.Standard]: https://pkg.go.dev/github.com/sciviz/figlint/pkg/standards#Standard
package pkg
