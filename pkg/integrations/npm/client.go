package npm

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/outdated/pkg/cache"
	outerr "github.com/matzehuels/outdated/pkg/errors"
	"github.com/matzehuels/outdated/pkg/integrations"
	"github.com/matzehuels/outdated/pkg/observability"
	"github.com/matzehuels/outdated/pkg/version"
)

// DefaultRegistry is the public npm registry.
const DefaultRegistry = "https://registry.npmjs.org"

// Client fetches packuments from an npm-compatible registry.
type Client struct {
	*integrations.Client
	registry string
	token    string
}

// Option configures a Client.
type Option func(*Client)

// WithRegistry points the client at another npm-compatible registry.
func WithRegistry(registry string) Option {
	return func(c *Client) {
		if registry != "" {
			c.registry = strings.TrimRight(registry, "/")
		}
	}
}

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// NewClient creates a client whose decoded packuments are cached in backend
// for ttl. Cache keys include the registry URL, and a digest of the token
// when one is set, so private documents never leak across credentials.
func NewClient(backend cache.Cache, ttl time.Duration, opts ...Option) *Client {
	c := &Client{registry: DefaultRegistry}
	for _, opt := range opts {
		opt(c)
	}

	headers := map[string]string{"Accept": "application/json"}
	if c.token != "" {
		headers["Authorization"] = "Bearer " + c.token
	}
	c.Client = integrations.NewClient(backend, "npm", ttl, headers)
	if c.token != "" {
		c.SetKeyer(cache.NewScopedKeyer(nil, "auth:"+cache.Hash([]byte(c.token))[:12]+":"))
	}
	return c
}

// Registry returns the registry base URL.
func (c *Client) Registry() string { return c.registry }

// FetchPackument returns the registry document for name. If refresh is true
// the response cache is bypassed.
func (c *Client) FetchPackument(ctx context.Context, name string, refresh bool) (*version.Packument, error) {
	name = strings.TrimSpace(name)
	if err := outerr.ValidateNpmPackageName(name); err != nil {
		return nil, err
	}

	ctx, span := observability.StartFetchSpan(ctx, integrations.RegistryHost(c.registry), name)
	defer span.End()

	var p version.Packument
	key := c.Keyer().PackumentKey(c.registry, name)
	err := c.CachedKey(ctx, key, refresh, &p, func() error {
		return c.fetch(ctx, name, &p)
	})
	if err != nil {
		err = classify(name, err)
		observability.RecordError(span, err)
		return nil, err
	}
	return &p, nil
}

func (c *Client) fetch(ctx context.Context, name string, p *version.Packument) error {
	var data packumentResponse
	if err := c.Get(ctx, c.registry+"/"+escapeName(name), &data); err != nil {
		return err
	}

	records := make([]version.Record, 0, len(data.Versions))
	for v, details := range data.Versions {
		home := details.HomePage
		if home == "" {
			home = integrations.NormalizeRepoURL(extractField(details.Repository, "url"))
		}
		records = append(records, version.Record{
			Version:    v,
			HomePage:   home,
			Deprecated: deprecation(details.Deprecated),
		})
	}
	if data.Name == "" {
		data.Name = name
	}
	*p = *version.NewPackument(data.Name, data.DistTags, records)
	return nil
}

// escapeName encodes the slash of a scoped name: "@scope/pkg" becomes
// "@scope%2fpkg", the form the registry expects.
func escapeName(name string) string {
	if strings.HasPrefix(name, "@") {
		if scope, pkg, ok := strings.Cut(name, "/"); ok {
			return scope + "%2f" + url.PathEscape(pkg)
		}
	}
	return url.PathEscape(name)
}

// classify maps transport failures to coded errors the walker understands.
func classify(name string, err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case outerr.GetCode(err) != "":
		return err
	case errors.Is(err, integrations.ErrNotFound):
		return outerr.Wrap(outerr.ErrCodePackageNotFound, err, "npm package %s not found", name)
	case errors.Is(err, integrations.ErrForbidden):
		return outerr.Wrap(outerr.ErrCodeForbidden, err, "access to npm package %s forbidden", name)
	case errors.Is(err, integrations.ErrUnauthorized):
		return outerr.Wrap(outerr.ErrCodeUnauthorized, err, "registry requires authentication for %s", name)
	default:
		return outerr.Wrap(outerr.ErrCodeNetwork, err, "fetch npm package %s", name)
	}
}

func extractField(v any, field string) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val[field].(string); ok {
			return s
		}
	}
	return ""
}

// deprecation normalises the "deprecated" field, which the registry serves
// as a message string or, for some legacy documents, a boolean.
func deprecation(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "deprecated"
		}
	}
	return ""
}

type packumentResponse struct {
	Name     string                    `json:"name"`
	DistTags map[string]string         `json:"dist-tags"`
	Versions map[string]versionDetails `json:"versions"`
}

type versionDetails struct {
	HomePage   string `json:"homepage"`
	Repository any    `json:"repository"`
	Deprecated any    `json:"deprecated"`
}
