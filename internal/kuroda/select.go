package kuroda

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/ladder"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/logging"
)

// Selection is the outcome of a best-candidate search.
type Selection struct {
	// Ladder is the winning line-only realization.
	Ladder ladder.Ladder

	// Pivot is the winning shunt index, or -1 when the input had no shunt
	// element to pivot on.
	Pivot int

	// Goodness is the score of Ladder.
	Goodness float64

	// Scores holds the goodness of every candidate, indexed by pivot.
	Scores []float64
}

// Option configures Select.
type Option func(*options)

type options struct {
	workers int
	logger  *slog.Logger
}

// WithWorkers bounds the number of goroutines scoring candidates.
// Zero means GOMAXPROCS; one forces sequential evaluation.
func WithWorkers(n int) Option { return func(o *options) { o.workers = n } }

// WithLogger sets the logger used for per-candidate debug output.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// Select synthesizes the candidate for every shunt element of in, keeps the
// one with the lowest goodness (the first one on ties) and returns it.
//
// ErrInvalidInput is returned when in does not alternate. An empty input
// yields an empty ladder.
func Select(in ladder.Ladder, opts ...Option) (*Selection, error) {
	o := &options{logger: logging.Discard()}
	for _, opt := range opts {
		opt(o)
	}

	if !in.Alternates() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, in)
	}

	if len(in) == 0 {
		return &Selection{Ladder: ladder.Ladder{}, Pivot: -1}, nil
	}

	if in.Count(ladder.KindShunt) == 0 {
		l, err := Synthesize(in, 0)
		if err != nil {
			return nil, err
		}

		o.logger.Debug("no shunt element to pivot on", slog.String("ladder", in.String()))

		return &Selection{Ladder: l, Pivot: -1, Goodness: Goodness(l)}, nil
	}

	scores, err := Scores(in, o.workers)
	if err != nil {
		return nil, err
	}

	for i, s := range scores {
		o.logger.Debug("candidate scored", slog.Int("pivot", i), slog.Float64("goodness", s))
	}

	best := Best(scores)

	l, err := Synthesize(in, best)
	if err != nil {
		return nil, err
	}

	return &Selection{
		Ladder:   l,
		Pivot:    best,
		Goodness: scores[best],
		Scores:   scores,
	}, nil
}

// Best returns the index of the lowest score, the first one on ties.
// It panics on an empty slice.
func Best(scores []float64) int {
	return floats.MinIdx(scores)
}

// Scores returns the goodness of every pivot candidate of in, indexed by
// shunt index. Candidates are fanned out across at most workers goroutines;
// the result does not depend on the worker count.
func Scores(in ladder.Ladder, workers int) ([]float64, error) {
	n := in.Count(ladder.KindShunt)
	if n == 0 {
		return nil, nil
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	scores := make([]float64, n)
	errs := make([]error, n)

	// For small workloads, avoid goroutine overhead.
	if n <= 2 || workers <= 1 {
		for i := range scores {
			scores[i], errs[i] = scoreCandidate(in, i)
		}

		return scores, firstError(errs)
	}

	var wg sync.WaitGroup

	sem := make(chan struct{}, workers)

	for i := range scores {
		wg.Add(1)

		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			scores[idx], errs[idx] = scoreCandidate(in, idx)
		}(i)
	}

	wg.Wait()

	return scores, firstError(errs)
}

// scoreCandidate synthesizes one candidate and scores it. A panic raised by
// the synthesizer is reported as an ErrContractViolation.
func scoreCandidate(in ladder.Ladder, shunt int) (score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: candidate %d: %v", ErrContractViolation, shunt, r)
		}
	}()

	l, err := Synthesize(in, shunt)
	if err != nil {
		return 0, err
	}

	return Goodness(l), nil
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}
