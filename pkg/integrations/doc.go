// Package integrations provides the shared HTTP client used by registry API
// clients.
//
// # Overview
//
// [Client] wraps an [http.Client] with response caching over a [cache.Cache]
// backend, retry with backoff for transient failures, and default headers.
// Registry-specific clients live in subpackages:
//
//   - [npm]: the npm registry (packuments and dist-tags)
//
// # Errors
//
// HTTP status codes map to sentinel errors so callers can classify failures
// with [errors.Is]:
//
//   - 404: [ErrNotFound]
//   - 403: [ErrForbidden]
//   - 401: [ErrUnauthorized]
//   - 429 and 5xx: [ErrNetwork], wrapped as retryable
//   - anything else: [ErrNetwork]
//
// [npm]: github.com/matzehuels/outdated/pkg/integrations/npm
// [cache.Cache]: github.com/matzehuels/outdated/pkg/cache.Cache
package integrations
