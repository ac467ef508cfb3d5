// Package pkg holds the libraries behind the outdated command.
//
// # Overview
//
// outdated compares an installed npm tree against the registry and reports
// every dependency whose installed version differs from the version its
// range wants, or whose wanted version is not the latest. The libraries are
// organized by concern:
//
//  1. [installed] - Reads package.json manifests and node_modules into a tree
//  2. [integrations] - HTTP clients for the npm registry, with response caching
//  3. [version] - Picks wanted and latest versions from a packument
//  4. [outdated] - Walks the tree and builds the sorted report
//  5. [render] - Table, parseable and JSON output
//
// # Architecture
//
// The data flow of one check:
//
//	package.json + node_modules
//	         ↓
//	    [installed] package (load the tree)
//	         ↓
//	    [outdated] package (walk, consult the registry, merge findings)
//	         ↓
//	    [render] package (format the report)
//
// # Quick Start
//
//	loader := installed.NewLoader(afero.NewOsFs(), nil)
//	root, _ := loader.Load(".")
//
//	client := npm.NewClient(cache.NewNullCache(), time.Hour)
//	w := outdated.NewWalker(outdated.NewNpmRegistry(client, false), outdated.Options{Depth: 1})
//	findings, _ := w.Walk(ctx, root)
//
//	rs := outdated.Build(findings, outdated.DefaultLocale)
//	_ = render.Render(os.Stdout, rs, render.Options{Format: render.FormatTable})
//
// ## Infrastructure
//
// [cache] - Response cache backends: file (CLI default), Redis (shared) and a
// null cache.
//
// [errors] - Coded errors. [errors.IsTolerable] decides which registry
// failures the walker skips silently.
//
// [observability] - Hooks for walk, cache and HTTP events plus OpenTelemetry
// tracing.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -tags integration ./pkg/...  # Include tests against registry.npmjs.org
//
// [installed]: https://pkg.go.dev/github.com/matzehuels/outdated/pkg/installed
// [integrations]: https://pkg.go.dev/github.com/matzehuels/outdated/pkg/integrations
// [version]: https://pkg.go.dev/github.com/matzehuels/outdated/pkg/version
// [outdated]: https://pkg.go.dev/github.com/matzehuels/outdated/pkg/outdated
// [render]: https://pkg.go.dev/github.com/matzehuels/outdated/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/outdated/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/outdated/pkg/errors
// [errors.IsTolerable]: https://pkg.go.dev/github.com/matzehuels/outdated/pkg/errors#IsTolerable
// [observability]: https://pkg.go.dev/github.com/matzehuels/outdated/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/outdated/pkg/buildinfo
package pkg
