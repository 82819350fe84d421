package geo

import (
	"container/list"
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"helpy/internal/geo/metrics"
	"helpy/internal/platform/tracer"
)

const defaultCacheCapacity = 500

// Resolver resolves entity locations with per-address memoization. Identical
// addresses hit the geocoder at most once while cached, and concurrent
// resolutions of the same address are collapsed into a single outbound call.
// Resolver is safe for concurrent use.
type Resolver struct {
	geocoder Geocoder
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   tracer.Tracer

	cacheCap int
	mu       sync.Mutex
	cache    map[string]ResolvedLocation
	order    *list.List
	elems    map[string]*list.Element

	group singleflight.Group
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithCacheCapacity bounds the address memo. Least recently used entries are
// evicted past the cap. Default is 500.
func WithCacheCapacity(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.cacheCap = n
		}
	}
}

// WithMetrics sets the resolution metrics.
func WithMetrics(m *metrics.Metrics) ResolverOption {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithTracer sets the tracer for resolution spans.
func WithTracer(t tracer.Tracer) ResolverOption {
	return func(r *Resolver) {
		r.tracer = t
	}
}

// NewResolver creates a resolver backed by the given geocoder.
func NewResolver(geocoder Geocoder, logger *slog.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		geocoder: geocoder,
		logger:   logger,
		tracer:   tracer.NewNoop(),
		cacheCap: defaultCacheCapacity,
		cache:    make(map[string]ResolvedLocation),
		order:    list.New(),
		elems:    make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns a renderable position for the entity. Stored coordinates
// are used as-is without consulting the geocoder; otherwise the entity's
// address is geocoded and the first candidate wins; when both are unusable
// the default position is returned. Resolve never fails and repeated calls
// with the same input return the same position.
func (r *Resolver) Resolve(ctx context.Context, e Entity) ResolvedLocation {
	ctx, span := r.tracer.Start(ctx, tracer.SpanResolveLocation)

	loc := r.resolve(ctx, span, e)

	r.metrics.RecordResolution(string(loc.Provenance))
	span.SetAttributes(tracer.String(tracer.AttrProvenance, string(loc.Provenance)))
	span.End(nil)
	return loc
}

func (r *Resolver) resolve(ctx context.Context, span tracer.Span, e Entity) ResolvedLocation {
	if e.Latitude != nil && e.Longitude != nil {
		return ResolvedLocation{
			Latitude:   *e.Latitude,
			Longitude:  *e.Longitude,
			Provenance: ProvenanceDirect,
		}
	}

	address := strings.TrimSpace(e.Address)
	if address == "" {
		return defaultLocation()
	}

	key := strings.ToLower(address)
	if loc, ok := r.cached(key); ok {
		r.metrics.RecordCacheHit()
		span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, true))
		return loc
	}
	r.metrics.RecordCacheMiss()

	loc, ok := r.geocode(ctx, span, key, address)
	if !ok {
		// Geocoding failures are silent toward the caller: the record is
		// still rendered, just at the default position.
		return defaultLocation()
	}
	return loc
}

// geocode performs the deduplicated geocoder call and caches a successful
// answer. Failures and empty answers are not cached so a later resolution can
// retry the address.
func (r *Resolver) geocode(ctx context.Context, span tracer.Span, key, address string) (ResolvedLocation, bool) {
	v, err, _ := r.group.Do(key, func() (any, error) {
		start := time.Now()
		candidates, err := r.geocoder.Geocode(ctx, address)
		r.metrics.RecordGeocodeCall(time.Since(start).Seconds())
		if err != nil {
			return nil, err
		}
		span.SetAttributes(tracer.Int64(tracer.AttrCandidates, int64(len(candidates))))
		if len(candidates) == 0 {
			return ResolvedLocation{}, nil
		}
		loc := ResolvedLocation{
			Latitude:   candidates[0].Latitude,
			Longitude:  candidates[0].Longitude,
			Provenance: ProvenanceGeocoded,
		}
		r.store(key, loc)
		return loc, nil
	})
	if err != nil {
		r.metrics.RecordGeocodeFailure()
		r.logger.WarnContext(ctx, "geocoding failed, using default position",
			"address", address,
			"error", err,
		)
		return ResolvedLocation{}, false
	}

	loc := v.(ResolvedLocation)
	if loc.Provenance != ProvenanceGeocoded {
		r.metrics.RecordGeocodeFailure()
		r.logger.DebugContext(ctx, "address matched no geocoder candidates",
			"address", address,
		)
		return ResolvedLocation{}, false
	}
	return loc, true
}

func (r *Resolver) cached(key string) (ResolvedLocation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loc, ok := r.cache[key]
	if ok {
		r.order.MoveToFront(r.elems[key])
	}
	return loc, ok
}

func (r *Resolver) store(key string, loc ResolvedLocation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if el, ok := r.elems[key]; ok {
		r.cache[key] = loc
		r.order.MoveToFront(el)
		return
	}

	r.cache[key] = loc
	r.elems[key] = r.order.PushFront(key)

	if r.order.Len() > r.cacheCap {
		oldest := r.order.Back()
		oldKey := oldest.Value.(string)
		r.order.Remove(oldest)
		delete(r.cache, oldKey)
		delete(r.elems, oldKey)
	}
}

// CacheLen reports the number of memoized addresses.
func (r *Resolver) CacheLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

func defaultLocation() ResolvedLocation {
	return ResolvedLocation{
		Latitude:   DefaultLatitude,
		Longitude:  DefaultLongitude,
		Provenance: ProvenanceDefault,
	}
}
