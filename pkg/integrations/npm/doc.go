// Package npm provides an HTTP client for the npm registry API.
//
// # Usage
//
//	client := npm.NewClient(backend, time.Hour, npm.WithRegistry(registry))
//	p, err := client.FetchPackument(ctx, "express", false)
//	if err != nil {
//	    return err
//	}
//	wanted, err := version.Pick(p, "^4.0.0")
//
// # Packuments
//
// [Client.FetchPackument] returns a [version.Packument]: dist-tags plus every
// published version with its homepage (falling back to the repository URL)
// and deprecation message.
//
// # Errors
//
// Failures are returned as coded errors from [errors]:
//
//   - PACKAGE_NOT_FOUND: the registry answered 404
//   - FORBIDDEN: the registry answered 403
//   - UNAUTHORIZED: the registry answered 401
//   - NETWORK_ERROR: everything else, after retries
//
// # Caching
//
// Decoded packuments are cached under a key derived from the registry URL and,
// when a token is set, a digest of the token. Pass refresh=true to bypass the
// cache.
//
// [version.Packument]: github.com/matzehuels/outdated/pkg/version.Packument
// [errors]: github.com/matzehuels/outdated/pkg/errors
package npm
