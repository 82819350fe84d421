// Package service implements the fetch-with-fallback facade: every screen's
// read path goes through one reusable component that tries the remote store,
// absorbs its failures, and substitutes the bundled sample set so callers
// always receive a renderable result with an explicit origin.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"helpy/internal/directory/metrics"
	"helpy/internal/directory/models"
	"helpy/internal/directory/store"
	"helpy/internal/platform/tracer"
	"helpy/pkg/platform/circuit"
	dErrors "helpy/pkg/domain-errors"
)

// ListResult is what a list view renders. Records are never nil on a
// fallback origin; they may be empty after search filtering.
type ListResult[T models.Entity] struct {
	Records []T
	Origin  models.Origin
	// Warning carries the absorbed remote failure for an inline banner.
	// Empty when the remote store answered (even with zero rows).
	Warning string
}

// OneResult is what a detail view renders.
type OneResult[T models.Entity] struct {
	Record  T
	Origin  models.Origin
	Warning string
}

// Facade is the fetch-with-fallback component for one collection. It is
// stateless per call: every invocation re-executes the fetch-or-fallback
// decision against the remote store.
type Facade[T models.Entity] struct {
	collection models.Collection
	remote     store.RemoteStore
	fallbackFn func() []T
	listQuery  store.Query

	searchFields func(T) []string
	breaker      *circuit.Breaker
	metrics      *metrics.Metrics
	tracer       tracer.Tracer
	logger       *slog.Logger
}

// Option configures a Facade.
type Option[T models.Entity] func(*Facade[T])

// WithSearchFields enables client-side search over the given fields.
func WithSearchFields[T models.Entity](fn func(T) []string) Option[T] {
	return func(f *Facade[T]) {
		f.searchFields = fn
	}
}

// WithBreaker guards remote calls with a circuit breaker so repeated
// collaborator failures skip straight to fallback without waiting out the
// network timeout.
func WithBreaker[T models.Entity](b *circuit.Breaker) Option[T] {
	return func(f *Facade[T]) {
		f.breaker = b
	}
}

// WithMetrics sets the facade metrics.
func WithMetrics[T models.Entity](m *metrics.Metrics) Option[T] {
	return func(f *Facade[T]) {
		f.metrics = m
	}
}

// WithTracer sets the tracer for facade spans.
func WithTracer[T models.Entity](t tracer.Tracer) Option[T] {
	return func(f *Facade[T]) {
		f.tracer = t
	}
}

// New creates a facade for one collection. fallbackFn must return a fresh
// copy of the literal sample set on every call; listQuery is the collection's
// natural ordering.
func New[T models.Entity](
	collection models.Collection,
	remote store.RemoteStore,
	fallbackFn func() []T,
	listQuery store.Query,
	logger *slog.Logger,
	opts ...Option[T],
) *Facade[T] {
	f := &Facade[T]{
		collection: collection,
		remote:     remote,
		fallbackFn: fallbackFn,
		listQuery:  listQuery,
		tracer:     tracer.NewNoop(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchCollection fetches the collection, substituting the fallback set on
// failure or emptiness. It never returns an error: remote failures are
// absorbed here and surfaced only via the Warning side-channel and the log.
// Search is applied after origin resolution, so it operates identically over
// remote and fallback data.
func (f *Facade[T]) FetchCollection(ctx context.Context, search string) ListResult[T] {
	ctx, span := f.tracer.Start(ctx, tracer.SpanFetchCollection,
		tracer.String(tracer.AttrCollection, string(f.collection)),
	)

	result := f.fetchList(ctx, span)
	result.Records = f.applySearch(result.Records, search)

	f.metrics.RecordFetch(string(f.collection), string(result.Origin))
	span.SetAttributes(
		tracer.String(tracer.AttrOrigin, string(result.Origin)),
		tracer.Int64(tracer.AttrRows, int64(len(result.Records))),
	)
	span.End(nil)
	return result
}

func (f *Facade[T]) fetchList(ctx context.Context, span tracer.Span) ListResult[T] {
	rows, err := f.selectRemote(ctx, span)
	if err != nil {
		f.logger.WarnContext(ctx, "remote fetch failed, serving fallback data",
			"collection", f.collection,
			"error", err,
		)
		span.AddEvent(tracer.EventFallbackSubstituted)
		f.metrics.RecordFallback(string(f.collection), fallbackReason(err))
		return ListResult[T]{
			Records: f.fallbackFn(),
			Origin:  models.OriginFallback,
			Warning: err.Error(),
		}
	}

	if len(rows) == 0 {
		span.AddEvent(tracer.EventFallbackSubstituted)
		f.metrics.RecordFallback(string(f.collection), metrics.ReasonEmptyResult)
		return ListResult[T]{
			Records: f.fallbackFn(),
			Origin:  models.OriginFallback,
		}
	}

	records, err := normalize[T](rows)
	if err != nil {
		// A malformed response is a remote failure like any other.
		f.logger.WarnContext(ctx, "remote rows failed to normalize, serving fallback data",
			"collection", f.collection,
			"error", err,
		)
		span.AddEvent(tracer.EventFallbackSubstituted)
		f.metrics.RecordFallback(string(f.collection), metrics.ReasonRemoteError)
		return ListResult[T]{
			Records: f.fallbackFn(),
			Origin:  models.OriginFallback,
			Warning: err.Error(),
		}
	}

	return ListResult[T]{Records: records, Origin: models.OriginRemote}
}

// FetchOne fetches a single record by identifier. A remote failure or an
// absent remote row falls back to the sample set filtered by identifier; when
// the identifier matches neither, the returned error carries CodeNotFound and
// callers render an explicit not-found state, never more fallback data.
func (f *Facade[T]) FetchOne(ctx context.Context, id string) (OneResult[T], error) {
	ctx, span := f.tracer.Start(ctx, tracer.SpanFetchOne,
		tracer.String(tracer.AttrCollection, string(f.collection)),
		tracer.String(tracer.AttrRecordID, id),
	)

	result, err := f.fetchOne(ctx, span, id)
	if err != nil {
		f.metrics.RecordNotFound(string(f.collection))
		span.End(err)
		return result, err
	}

	f.metrics.RecordFetch(string(f.collection), string(result.Origin))
	span.SetAttributes(tracer.String(tracer.AttrOrigin, string(result.Origin)))
	span.End(nil)
	return result, nil
}

func (f *Facade[T]) fetchOne(ctx context.Context, span tracer.Span, id string) (OneResult[T], error) {
	row, err := f.selectOneRemote(ctx, span, id)
	switch {
	case err == nil:
		var record T
		if uerr := json.Unmarshal(row, &record); uerr == nil {
			return OneResult[T]{Record: record, Origin: models.OriginRemote}, nil
		}
		// Malformed row: treat as a remote failure and fall through.
		err = dErrors.New(dErrors.CodeRemoteUnavailable, "malformed row from remote store")
		fallthrough

	default:
		warning := ""
		reason := metrics.ReasonEmptyResult
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			// Genuine remote failure, not just an absent row.
			f.logger.WarnContext(ctx, "remote lookup failed, consulting fallback set",
				"collection", f.collection,
				"id", id,
				"error", err,
			)
			warning = err.Error()
			reason = fallbackReason(err)
		}

		for _, candidate := range f.fallbackFn() {
			if candidate.RecordID() == id {
				span.AddEvent(tracer.EventFallbackSubstituted)
				f.metrics.RecordFallback(string(f.collection), reason)
				return OneResult[T]{
					Record:  candidate,
					Origin:  models.OriginFallback,
					Warning: warning,
				}, nil
			}
		}

		var zero T
		return OneResult[T]{Record: zero}, dErrors.New(dErrors.CodeNotFound,
			"record "+id+" not found in "+string(f.collection))
	}
}

// selectRemote performs the guarded list query against the remote store.
func (f *Facade[T]) selectRemote(ctx context.Context, span tracer.Span) ([]json.RawMessage, error) {
	if !f.allowRemote(span) {
		return nil, errCircuitOpen
	}

	start := time.Now()
	rows, err := f.remote.Select(ctx, f.collection, f.listQuery)
	f.metrics.ObserveRemoteDuration(string(f.collection), time.Since(start).Seconds())
	f.recordOutcome(ctx, err)
	return rows, err
}

func (f *Facade[T]) selectOneRemote(ctx context.Context, span tracer.Span, id string) (json.RawMessage, error) {
	if !f.allowRemote(span) {
		return nil, errCircuitOpen
	}

	start := time.Now()
	row, err := f.remote.SelectOne(ctx, f.collection, id)
	f.metrics.ObserveRemoteDuration(string(f.collection), time.Since(start).Seconds())
	// An absent row is a successful remote answer, not a collaborator failure.
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		f.recordOutcome(ctx, nil)
	} else {
		f.recordOutcome(ctx, err)
	}
	return row, err
}

func (f *Facade[T]) allowRemote(span tracer.Span) bool {
	if f.breaker == nil || f.breaker.Allow() {
		return true
	}
	span.AddEvent(tracer.EventCircuitSkip)
	return false
}

func (f *Facade[T]) recordOutcome(ctx context.Context, err error) {
	if f.breaker == nil {
		return
	}
	if err != nil {
		if _, change := f.breaker.RecordFailure(); change.Opened {
			f.logger.ErrorContext(ctx, "circuit breaker opened",
				"circuit", f.breaker.Name(),
				"error", err,
			)
		}
		return
	}
	if _, change := f.breaker.RecordSuccess(); change.Closed {
		f.logger.InfoContext(ctx, "circuit breaker closed",
			"circuit", f.breaker.Name(),
		)
	}
}

func (f *Facade[T]) applySearch(records []T, search string) []T {
	if search == "" || f.searchFields == nil {
		return records
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		if matchesSearch(f.searchFields(r), search) {
			out = append(out, r)
		}
	}
	return out
}

var errCircuitOpen = dErrors.New(dErrors.CodeRemoteUnavailable, "remote store circuit open")

func fallbackReason(err error) string {
	if err == errCircuitOpen {
		return metrics.ReasonCircuitOpen
	}
	return metrics.ReasonRemoteError
}

// normalize unmarshals remote rows into the record shape for the requested
// entity kind. It is pass-through field mapping; a row that does not fit the
// declared shape fails the whole response.
func normalize[T models.Entity](rows []json.RawMessage) ([]T, error) {
	records := make([]T, 0, len(rows))
	for _, row := range rows {
		var record T
		if err := json.Unmarshal(row, &record); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeRemoteUnavailable, "malformed row from remote store")
		}
		records = append(records, record)
	}
	return records, nil
}
