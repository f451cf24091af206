package catalog

import (
	"context"
	"log/slog"
	"sync"
)

// ErrorMessage is the only thing users see when the fetch fails.
const ErrorMessage = "Không tải được sản phẩm 😢"

// State is the catalog display state.
type State int

const (
	Loading State = iota
	Ready
	Error
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Fetcher is the port the loader pulls products from.
type Fetcher interface {
	FetchProducts(ctx context.Context) ([]ProductDTO, error)
}

// Snapshot is a point-in-time copy of the loader for rendering.
type Snapshot struct {
	State    State
	Products []DisplayProduct
	Message  string // set in Error
}

// Loader runs the fetch at most once and moves Loading → Ready or
// Loading → Error. Terminal states are final.
type Loader struct {
	fetcher Fetcher
	fx      int64
	log     *slog.Logger

	once sync.Once
	done chan struct{}

	mu       sync.RWMutex
	state    State
	products []DisplayProduct
	message  string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFXRate sets the VND conversion rate (default DefaultFXRate).
func WithFXRate(fx int64) LoaderOption {
	return func(l *Loader) { l.fx = fx }
}

// WithLoaderLogger sets the logger. Defaults to slog.Default().
func WithLoaderLogger(log *slog.Logger) LoaderOption {
	return func(l *Loader) { l.log = log }
}

func NewLoader(f Fetcher, opts ...LoaderOption) *Loader {
	l := &Loader{
		fetcher: f,
		fx:      DefaultFXRate,
		log:     slog.Default(),
		done:    make(chan struct{}),
		state:   Loading,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start triggers the fetch in a goroutine. Only the first call does
// anything. The fetch is detached from ctx cancellation so a request that
// triggered it can finish first; ctx values (trace, request id) are kept.
func (l *Loader) Start(ctx context.Context) {
	l.once.Do(func() {
		go l.run(context.WithoutCancel(ctx))
	})
}

func (l *Loader) run(ctx context.Context) {
	defer close(l.done)

	dtos, err := l.fetcher.FetchProducts(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.state = Error
		l.message = ErrorMessage
		l.products = nil
		l.log.ErrorContext(ctx, "catalog unavailable", "error", err)
		return
	}
	l.state = Ready
	l.products = ToDisplayList(dtos, l.fx)
}

// Wait blocks until the loader leaves Loading or ctx is done. Calling it
// before Start blocks until Start is called.
func (l *Loader) Wait(ctx context.Context) error {
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the loader reaches a terminal state.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

// Snapshot returns the current state. Products is a copy.
func (l *Loader) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s := Snapshot{State: l.state, Message: l.message}
	if l.products != nil {
		s.Products = make([]DisplayProduct, len(l.products))
		copy(s.Products, l.products)
	} else if l.state != Loading {
		s.Products = []DisplayProduct{}
	}
	return s
}

// Lookup finds a product in the ready catalog.
func (l *Loader) Lookup(id int) (DisplayProduct, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, p := range l.products {
		if p.ID == id {
			return p, true
		}
	}
	return DisplayProduct{}, false
}

// Load starts the fetch if needed and waits for a terminal state.
func (l *Loader) Load(ctx context.Context) (Snapshot, error) {
	l.Start(ctx)
	if err := l.Wait(ctx); err != nil {
		return l.Snapshot(), err
	}
	return l.Snapshot(), nil
}
