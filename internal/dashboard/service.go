package dashboard

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"boxoffice/internal/types"
)

func New(fetcher Snapshotter, opts Options) *Service {
	s := &Service{
		fetcher: fetcher,
		opts:    opts,
		changed: make(chan struct{}),
	}
	s.status = Status{State: types.FetchIdle, UpdatedAt: s.now()}
	return s
}

// Refresh runs one fetch. While a fetch is outstanding further calls return
// ErrRefreshInProgress at once and never reach the collaborator.
func (s *Service) Refresh(ctx context.Context) (Status, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return s.Current(), ErrRefreshInProgress
	}
	defer s.inFlight.Store(false)

	log := s.logger(ctx)

	s.mu.Lock()
	prev := s.status.Snapshot
	s.publishLocked(Status{State: types.FetchLoading, Snapshot: prev})
	s.mu.Unlock()

	start := time.Now()
	snap, err := s.fetcher.Fetch(ctx)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("dashboard refresh failed")
		kept := (*types.Snapshot)(nil)
		if s.opts.RetainOnError {
			kept = prev
		}
		s.mu.Lock()
		st := s.publishLocked(Status{State: types.FetchError, Snapshot: kept, Error: UserErrorMessage})
		s.mu.Unlock()
		return st, err
	}

	s.mu.Lock()
	st := s.publishLocked(Status{State: types.FetchSuccess, Snapshot: snap})
	s.mu.Unlock()
	log.Info().
		Int("running", len(snap.Running)).
		Int("top_indian", len(snap.TopIndian)).
		Int("top_worldwide", len(snap.TopWorldwide)).
		Int("sources", len(snap.Sources)).
		Dur("elapsed", time.Since(start)).
		Msg("dashboard refreshed")

	if s.opts.Archive != nil {
		// the request context may already be gone once the response is written
		actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		if aerr := s.opts.Archive.Archive(actx, snap); aerr != nil {
			log.Warn().Err(aerr).Msg("archive snapshot")
		}
		cancel()
	}
	return st, nil
}

// Busy reports whether a refresh is outstanding.
func (s *Service) Busy() bool { return s.inFlight.Load() }

func (s *Service) Current() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Subscribe emits the current status, then every later one, until ctx ends.
// A slow reader may miss intermediate values but always gets the newest.
func (s *Service) Subscribe(ctx context.Context) <-chan Status {
	out := make(chan Status, 4)
	go func() {
		defer close(out)
		var last uint64
		first := true
		for {
			s.mu.Lock()
			st := s.status
			ch := s.changed
			s.mu.Unlock()

			if first || st.Seq != last {
				pushStatus(out, st)
				last = st.Seq
				first = false
			}

			select {
			case <-ctx.Done():
				return
			case <-ch:
			}
		}
	}()
	return out
}

func (s *Service) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.opts.Logger
}
