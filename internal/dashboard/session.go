package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	// ErrInvalidTransition is returned for actions the current view does not offer.
	ErrInvalidTransition = errors.New("action not allowed in current state")
	// ErrUnknownLocation is returned when a location name cannot be resolved.
	ErrUnknownLocation = errors.New("unknown location")
	// ErrCredentialRequired is returned when an empty credential is submitted.
	ErrCredentialRequired = errors.New("credential required")
)

// Options configures a Session.
type Options struct {
	Registry  *weather.Registry
	Localizer *weather.Localizer
	// Resolver looks up names missing from Registry; nil disables lookups.
	Resolver weather.LocationResolver
	// Credential is a key provisioned at startup. Empty means prompt.
	Credential string
	Logger     *zap.Logger
	// OnReady is called outside the session lock for every applied success.
	OnReady func(weather.Observation)
	Now     func() time.Time
}

// Session holds the dashboard state of one provider slice.
//
// Every transition into Loading bumps a request token and starts one fetch on
// its own goroutine. A finished fetch is applied only if its token is still
// the latest one, so results land in request order no matter when responses
// arrive.
type Session struct {
	provider  weather.Provider
	registry  *weather.Registry
	localizer *weather.Localizer
	resolver  weather.LocationResolver
	logger    *zap.Logger
	onReady   func(weather.Observation)
	now       func() time.Time

	mu         sync.Mutex
	state      State
	location   weather.Location
	credential string
	token      uint64
	started    bool

	// releaseQueued drops the latest fetch from the provider's queue.
	releaseQueued context.CancelFunc
}

// Ticket identifies one started fetch.
type Ticket struct {
	Token     uint64
	RequestID string
	Location  weather.Location
	done      chan struct{}
}

// Done is closed once the fetch has finished, whether or not its result was applied.
func (t *Ticket) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the fetch finishes or ctx is done.
func (t *Ticket) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewSession builds a session in its initial state. No fetch is issued until Start.
func NewSession(provider weather.Provider, opts Options) *Session {
	if opts.Registry == nil {
		panic("dashboard: session needs a location registry")
	}
	if opts.Localizer == nil {
		opts.Localizer = weather.NewLocalizer(weather.DefaultLocale)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Session{
		provider:   provider,
		registry:   opts.Registry,
		localizer:  opts.Localizer,
		resolver:   opts.Resolver,
		logger:     opts.Logger.With(zap.String("provider", provider.Name())),
		onReady:    opts.OnReady,
		now:        opts.Now,
		location:   opts.Registry.First(),
		credential: strings.TrimSpace(opts.Credential),
	}
	if s.needsCredential() {
		s.state = AwaitingCredential{}
	} else {
		s.state = Loading{}
	}
	return s
}

// Provider returns the provider name.
func (s *Session) Provider() string {
	return s.provider.Name()
}

// Registry returns the session's location registry.
func (s *Session) Registry() *weather.Registry {
	return s.registry
}

// Start performs the initial transition: a random location for credential-free
// providers, the first location when a credential was provisioned, nothing
// while a credential is awaited. Calling Start again is a no-op.
func (s *Session) Start(ctx context.Context) *Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.started = true

	if s.needsCredential() {
		s.logger.Info("waiting for credential")
		return nil
	}
	loc := s.location
	if !s.provider.RequiresCredential() {
		loc = s.registry.Random()
	}
	return s.beginLocked(ctx, loc)
}

// SubmitCredential stores key and fetches the current location.
func (s *Session) SubmitCredential(ctx context.Context, key string) (*Ticket, error) {
	if !s.provider.RequiresCredential() {
		return nil, ErrInvalidTransition
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrCredentialRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.(AwaitingCredential); !ok {
		return nil, fmt.Errorf("%w: submit credential from %s", ErrInvalidTransition, stateName(s.state))
	}
	s.credential = key
	return s.beginLocked(ctx, s.location), nil
}

// RequestCredentialChange drops the credential and returns to the prompt.
func (s *Session) RequestCredentialChange() error {
	if !s.provider.RequiresCredential() {
		return ErrInvalidTransition
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state.(type) {
	case Ready, Failed:
	default:
		return fmt.Errorf("%w: change credential from %s", ErrInvalidTransition, stateName(s.state))
	}
	s.credential = ""
	s.setStateLocked(AwaitingCredential{}, "")
	return nil
}

// SelectLocation switches to the named location and fetches it. While a
// credential is awaited the choice is only recorded and the ticket is nil.
func (s *Session) SelectLocation(ctx context.Context, name string) (*Ticket, error) {
	loc, err := s.resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.switchTo(ctx, loc)
}

// RandomLocation picks a location uniformly from the registry and fetches it.
func (s *Session) RandomLocation(ctx context.Context) (*Ticket, error) {
	return s.switchTo(ctx, s.registry.Random())
}

// Retry refetches the current location after a failure.
func (s *Session) Retry(ctx context.Context) (*Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.(Failed); !ok {
		return nil, fmt.Errorf("%w: retry from %s", ErrInvalidTransition, stateName(s.state))
	}
	return s.beginLocked(ctx, s.location), nil
}

// Refresh refetches the current location while Ready. Other states are left
// alone and report ErrInvalidTransition.
func (s *Session) Refresh(ctx context.Context) (*Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.(Ready); !ok {
		return nil, fmt.Errorf("%w: refresh from %s", ErrInvalidTransition, stateName(s.state))
	}
	return s.beginLocked(ctx, s.location), nil
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Location returns the selected location.
func (s *Session) Location() weather.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location
}

// View renders the current state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Render(s.provider.Name(), s.provider.RequiresCredential(), s.credential != "", s.location, s.state)
}

func (s *Session) resolve(ctx context.Context, name string) (weather.Location, error) {
	if loc, ok := s.registry.ByName(name); ok {
		return loc, nil
	}
	if s.resolver == nil {
		return weather.Location{}, fmt.Errorf("%w: %q", ErrUnknownLocation, name)
	}
	loc, err := s.resolver.Resolve(ctx, name)
	if err != nil {
		s.logger.Warn("location lookup failed", zap.String("name", name), zap.Error(err))
		return weather.Location{}, fmt.Errorf("%w: %q: %v", ErrUnknownLocation, name, err)
	}
	return loc, nil
}

func (s *Session) switchTo(ctx context.Context, loc weather.Location) (*Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.(AwaitingCredential); ok {
		s.location = loc
		return nil, nil
	}
	return s.beginLocked(ctx, loc), nil
}

func (s *Session) needsCredential() bool {
	return s.provider.RequiresCredential() && s.credential == ""
}

// beginLocked enters Loading for loc and starts the fetch. s.mu must be held.
func (s *Session) beginLocked(ctx context.Context, loc weather.Location) *Ticket {
	s.started = true
	s.token++
	t := &Ticket{
		Token:     s.token,
		RequestID: uuid.NewString(),
		Location:  loc,
		done:      make(chan struct{}),
	}
	s.location = loc
	s.setStateLocked(Loading{RequestID: t.RequestID}, t.RequestID)

	// A superseded fetch leaves the provider's queue; one already sent is
	// left to finish and its result is ignored.
	if s.releaseQueued != nil {
		s.releaseQueued()
	}
	queue, release := context.WithCancel(context.Background())
	s.releaseQueued = release

	// The fetch outlives the caller's request.
	fetchCtx := weather.WithQueueContext(context.WithoutCancel(ctx), queue)
	go s.run(fetchCtx, t, s.credential, release)
	return t
}

func (s *Session) run(ctx context.Context, t *Ticket, credential string, release context.CancelFunc) {
	defer close(t.done)
	defer release()

	model, err := s.provider.Fetch(ctx, t.Location, credential)

	obs, ok := s.complete(t, model, err)
	if ok && s.onReady != nil {
		s.onReady(obs)
	}
}

// complete applies a finished fetch if it is still the latest one.
func (s *Session) complete(t *Ticket, model weather.DisplayModel, err error) (weather.Observation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Token != s.token {
		s.logger.Debug("discarding superseded result",
			zap.String("request_id", t.RequestID),
			zap.Uint64("token", t.Token),
			zap.Uint64("latest", s.token),
		)
		return weather.Observation{}, false
	}

	if err != nil {
		s.setStateLocked(Failed{
			Kind:    weather.ErrorKindOf(err),
			Message: s.localizer.ErrorMessage(err),
		}, t.RequestID)
		s.logger.Warn("fetch failed",
			zap.String("request_id", t.RequestID),
			zap.String("location", t.Location.Key()),
			zap.Error(err),
		)
		return weather.Observation{}, false
	}

	s.setStateLocked(Ready{Model: model}, t.RequestID)
	return weather.Observation{
		Provider:   s.provider.Name(),
		Location:   t.Location,
		RecordedAt: s.now().UTC(),
		Model:      model,
	}, true
}

func (s *Session) setStateLocked(next State, requestID string) {
	s.logger.Info("state transition",
		zap.String("from", stateName(s.state)),
		zap.String("to", stateName(next)),
		zap.String("location", s.location.Key()),
		zap.String("request_id", requestID),
	)
	s.state = next
}

func stateName(st State) string {
	switch st.(type) {
	case AwaitingCredential:
		return NameAwaitingCredential
	case Loading:
		return NameLoading
	case Failed:
		return NameError
	case Ready:
		return NameReady
	default:
		return fmt.Sprintf("%T", st)
	}
}
