// Package outdated compares an installed npm dependency tree with the
// registry and reports packages whose installed, wanted or latest versions
// differ.
//
// # Walk
//
// [Walker.Walk] evaluates the root's declared dependencies (or an explicit
// name list). For each name it fetches the packument, resolves the wanted
// version from the installed package's own declared constraint and the
// latest version from the "latest" dist-tag, and emits a [Finding] when:
//
//   - the package is not installed (unless it is a dev dependency), or
//   - the installed version differs from the wanted one, or
//   - the wanted version differs from the latest one.
//
// Installed production dependencies are walked recursively while the depth
// budget lasts. [Infinite] depth is normalized to zero: only direct
// dependencies are checked unless a finite depth is requested.
//
// # Tolerated absences
//
// A package the registry reports as missing, forbidden or without a matching
// version is omitted from the result without a warning. It is logged at
// debug level and reported to [observability.WalkHooks.OnTolerated]. Every
// other registry error aborts the walk.
//
// # Ordering
//
// Siblings may be evaluated concurrently, but results are joined in
// evaluation order before deduplication, so the walk output never depends on
// completion order. [Build] then sorts by name with a locale-aware collator.
//
// [observability.WalkHooks.OnTolerated]: github.com/matzehuels/outdated/pkg/observability.WalkHooks
package outdated
