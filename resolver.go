package jsonldlint

import (
	"context"
	"fmt"
	"net/http"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/piprate/json-gold/ld"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/singleflight"
)

// ContextResolver resolves a context reference (usually a URL) to the parsed
// JSON document it points to. Implementations must be safe for concurrent
// use.
type ContextResolver interface {
	Resolve(ctx context.Context, ref string) (any, error)
}

// FetchFunc retrieves and parses a remote context document.
type FetchFunc func(ctx context.Context, ref string) (any, error)

// DefaultCacheSize is the number of context documents a CachingResolver keeps.
const DefaultCacheSize = 100

var resolverLog = commonlog.GetLogger("jsonldlint.resolver")

type resolverOptions struct {
	size      int
	client    *http.Client
	fetch     FetchFunc
	preloaded map[string]any
}

// ResolverOption configures NewContextResolver.
type ResolverOption func(*resolverOptions)

// WithCacheSize bounds the number of cached documents.
func WithCacheSize(n int) ResolverOption {
	return func(o *resolverOptions) { o.size = n }
}

// WithHTTPClient sets the client used by the default fetcher.
func WithHTTPClient(c *http.Client) ResolverOption {
	return func(o *resolverOptions) { o.client = c }
}

// WithFetcher replaces the default fetcher.
func WithFetcher(f FetchFunc) ResolverOption {
	return func(o *resolverOptions) { o.fetch = f }
}

// WithPreloadedContext serves doc for ref without fetching. Preloaded
// documents are never evicted.
func WithPreloadedContext(ref string, doc any) ResolverOption {
	return func(o *resolverOptions) {
		if o.preloaded == nil {
			o.preloaded = map[string]any{}
		}
		o.preloaded[ref] = doc
	}
}

// CachingResolver is the default ContextResolver. It keeps recently used
// documents in an LRU cache and fetches each reference at most once even
// when several calls ask for it concurrently. It also implements
// ld.DocumentLoader.
type CachingResolver struct {
	cache     *lru.Cache[string, any]
	preloaded map[string]any
	group     singleflight.Group
	fetch     FetchFunc
}

// NewContextResolver returns a CachingResolver.
func NewContextResolver(opts ...ResolverOption) *CachingResolver {
	o := resolverOptions{size: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.size <= 0 {
		o.size = DefaultCacheSize
	}
	if o.fetch == nil {
		o.fetch = defaultFetcher(o.client)
	}
	cache, _ := lru.New[string, any](o.size)
	return &CachingResolver{cache: cache, preloaded: o.preloaded, fetch: o.fetch}
}

// Resolve implements ContextResolver.
func (r *CachingResolver) Resolve(ctx context.Context, ref string) (any, error) {
	if doc, ok := r.preloaded[ref]; ok {
		return doc, nil
	}
	if doc, ok := r.cache.Get(ref); ok {
		resolverLog.Debugf("cache hit: %s", ref)
		return doc, nil
	}
	// Shared fetches are detached from the cancellation of the caller that starts them.
	fetchCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(ref, func() (any, error) {
		if doc, ok := r.cache.Get(ref); ok {
			return doc, nil
		}
		resolverLog.Debugf("fetching context: %s", ref)
		doc, err := r.fetch(fetchCtx, ref)
		if err != nil {
			return nil, fmt.Errorf("resolve context %q: %w", ref, err)
		}
		r.cache.Add(ref, doc)
		return doc, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			resolverLog.Debugf("shared in-flight fetch: %s", ref)
		}
		return res.Val, res.Err
	}
}

// Len returns the number of cached documents, excluding preloaded ones.
func (r *CachingResolver) Len() int { return r.cache.Len() }

// LoadDocument implements ld.DocumentLoader.
func (r *CachingResolver) LoadDocument(u string) (*ld.RemoteDocument, error) {
	doc, err := r.Resolve(context.Background(), u)
	if err != nil {
		return nil, err
	}
	return &ld.RemoteDocument{DocumentURL: u, Document: doc}, nil
}

func defaultFetcher(client *http.Client) FetchFunc {
	loader := ld.NewDefaultDocumentLoader(client)
	return func(ctx context.Context, ref string) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rd, err := loader.LoadDocument(ref)
		if err != nil {
			return nil, err
		}
		return rd.Document, nil
	}
}

// resolverLoader adapts a ContextResolver to ld.DocumentLoader for one call.
type resolverLoader struct {
	ctx      context.Context
	resolver ContextResolver
}

func (l resolverLoader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	doc, err := l.resolver.Resolve(l.ctx, u)
	if err != nil {
		return nil, err
	}
	return &ld.RemoteDocument{DocumentURL: u, Document: doc}, nil
}
