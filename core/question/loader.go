package question

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/aeroprep/aeroprep/core"
)

// minimalSourceLimit caps the last-resort fallback bank.
const minimalSourceLimit = 100

var ErrNoSources = errors.New("all question sources failed")

// A Source is a read-only question collection the Loader can draw from.
type Source interface {
	Name() string
	Questions(ctx context.Context) ([]Question, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc struct {
	SourceName string
	Load       func(ctx context.Context) ([]Question, error)
}

func (s SourceFunc) Name() string { return s.SourceName }

func (s SourceFunc) Questions(ctx context.Context) ([]Question, error) { return s.Load(ctx) }

// LoadOptions is the public loading contract: all fields are plain
// strings/numbers. Category may be any free-text label; it is normalized
// before filtering, with ExamTitle and Aircraft as secondary signals. An
// empty Category places no category restriction on the selection.
type LoadOptions struct {
	Mode          string
	Category      string
	Aircraft      string
	Difficulty    string
	QuestionCount int
	ExamTitle     string
}

// Loader merges the registered question sources and serves filtered
// selections from a TTL cache keyed by the normalized request shape.
//
// Two concurrent loads with the same key before the first completes will both
// miss the cache and both do the full load+filter; callers issuing bursts of
// identical requests should de-duplicate on their side.
type Loader struct {
	sources  []Source
	fallback Source // reduced bank used when the primary sources fail
	minimal  Source // last resort, truncated to minimalSourceLimit
	cache    *resultCache
	logger   core.Logger
	rng      *rand.Rand
}

type LoaderOption func(*Loader)

// WithClock injects the cache clock.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) { l.cache.now = now }
}

// WithShuffleRand injects the random source used by timed-mode shuffling.
func WithShuffleRand(rng *rand.Rand) LoaderOption {
	return func(l *Loader) { l.rng = rng }
}

// WithFallbacks registers the reduced and minimal fallback sources.
func WithFallbacks(fallback, minimal Source) LoaderOption {
	return func(l *Loader) {
		l.fallback = fallback
		l.minimal = minimal
	}
}

func NewLoader(conf *core.Config, logger core.Logger, sources []Source, opts ...LoaderOption) *Loader {
	l := &Loader{
		sources: sources,
		cache:   newResultCache(conf.Practice.CacheSize, conf.Practice.CacheTTL, nil),
		logger:  logger,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadQuestions normalizes the request, serves from cache when possible, and
// otherwise loads, filters and caches. Only total failure of every source
// tier returns an error.
func (l *Loader) LoadQuestions(ctx context.Context, opts LoadOptions) ([]Question, error) {
	opts.Mode = core.CleanString(opts.Mode, true /* lower */)
	opts.Aircraft = core.CleanString(opts.Aircraft)
	opts.Difficulty = NormalizeDifficulty(core.CleanString(opts.Difficulty, true /* lower */))
	opts.Category = core.CleanString(opts.Category)

	// a request that names no category draws from the whole bank
	var categories []string
	category := opts.Category
	if category != "" {
		category = Normalize(category, opts.ExamTitle, opts.Aircraft)
		categories = []string{category}
	}
	key := cacheKey(opts, category)

	if qs, ok := l.cache.get(key); ok {
		return qs, nil
	}

	all, err := l.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	filterer := NewFilterer(all, l.logger, WithRand(l.rng))
	qs := filterer.Filter(Criteria{
		Mode:          opts.Mode,
		Categories:    categories,
		Aircraft:      opts.Aircraft,
		Difficulty:    opts.Difficulty,
		QuestionCount: opts.QuestionCount,
	})

	l.cache.put(key, qs)
	return qs, nil
}

// Preload is a best-effort warm of the merged question collection; it
// swallows all errors and is not part of the correctness contract.
func (l *Loader) Preload(ctx context.Context) {
	if _, err := l.loadAll(ctx); err != nil {
		l.logger.Warn("preloading questions: "+err.Error(), err)
	}
}

// ClearCache synchronously empties the result cache.
func (l *Loader) ClearCache() {
	l.cache.clear()
}

// loadAll concatenates every registered source, degrading through the
// fallback tiers: all sources, then the reduced bank, then the minimal bank
// truncated to minimalSourceLimit records. Sources are not de-duplicated
// against each other.
func (l *Loader) loadAll(ctx context.Context) ([]Question, error) {
	all, err := l.loadSources(ctx)
	if err != nil {
		l.logger.Error("loading question sources: "+err.Error(), err)

		if l.fallback != nil {
			if all, err = l.fallback.Questions(ctx); err == nil {
				return all, nil // degraded
			}
			l.logger.Error("loading fallback question source: "+err.Error(), err)
		}
		if l.minimal != nil {
			if all, err = l.minimal.Questions(ctx); err == nil {
				if len(all) > minimalSourceLimit {
					all = all[:minimalSourceLimit]
				}
				return all, nil // degraded
			}
			l.logger.Error("loading minimal question source: "+err.Error(), err)
		}
		return nil, errors.Wrap(ErrNoSources, err.Error())
	}
	return all, nil
}

func (l *Loader) loadSources(ctx context.Context) ([]Question, error) {
	if len(l.sources) == 0 {
		return nil, errors.New("no question sources registered")
	}

	var all []Question
	for _, src := range l.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		qs, err := src.Questions(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "loading source %s", src.Name())
		}
		all = append(all, qs...)
	}
	return all, nil
}

// cacheKey is a stable serialization of the normalized request shape. Both
// the key and the filter criteria are built from the same cleaned values so
// two requests sharing a key always share filter semantics.
func cacheKey(opts LoadOptions, category string) string {
	return fmt.Sprintf(
		"m=%s|c=%s|a=%s|d=%s|n=%d",
		opts.Mode, category, opts.Aircraft, opts.Difficulty, opts.QuestionCount,
	)
}
