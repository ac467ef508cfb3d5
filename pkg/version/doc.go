// Package version resolves npm version constraints against a package's
// published versions.
//
// A [Packument] is the registry's view of one package: its dist-tags and
// every published [Record]. [Pick] selects the record a constraint resolves
// to, following npm's rules:
//
//   - an empty constraint picks the highest stable (non-prerelease) version
//   - a dist-tag name ("latest", "next") picks the tagged version
//   - a semver range picks the "latest" tag when it satisfies the range,
//     otherwise the highest satisfying version that is not deprecated,
//     otherwise the highest satisfying version
//
// Anything else (git URLs, file: specs, ranges nothing satisfies) fails with
// an [errors.ErrCodeTargetNotSatisfiable] error.
//
// [errors.ErrCodeTargetNotSatisfiable]: github.com/matzehuels/outdated/pkg/errors.ErrCodeTargetNotSatisfiable
package version
