package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"boxoffice/internal/types"
)

// UserErrorMessage is the only error text shown for a failed refresh.
const UserErrorMessage = "Synchronization failed. Please verify network status and API configuration."

var ErrRefreshInProgress = errors.New("dashboard: refresh already in progress")

// Snapshotter produces a fresh snapshot. *fetch.Fetcher satisfies it.
type Snapshotter interface {
	Fetch(ctx context.Context) (*types.Snapshot, error)
}

// Archiver receives every successful snapshot. It is write-only.
type Archiver interface {
	Archive(ctx context.Context, snap *types.Snapshot) error
}

// Status is what clients see. Values are never mutated after publication.
type Status struct {
	State     types.FetchState `json:"state"`
	Snapshot  *types.Snapshot  `json:"data"`
	Error     string           `json:"error,omitempty"`
	UpdatedAt time.Time        `json:"updatedAt"`
	// Seq increases with every published status.
	Seq uint64 `json:"seq"`
}

type Options struct {
	// RetainOnError keeps the last good snapshot next to an ERROR state.
	RetainOnError bool
	Archive       Archiver
	Logger        zerolog.Logger
	Now           func() time.Time
}

type Service struct {
	fetcher Snapshotter
	opts    Options

	inFlight atomic.Bool

	mu      sync.Mutex
	status  Status
	changed chan struct{}
}

func (s *Service) now() time.Time {
	if s.opts.Now != nil {
		return s.opts.Now()
	}
	return time.Now()
}

// publishLocked replaces the current status and wakes subscribers.
func (s *Service) publishLocked(st Status) Status {
	st.Seq = s.status.Seq + 1
	st.UpdatedAt = s.now()
	s.status = st
	close(s.changed)
	s.changed = make(chan struct{})
	return st
}

func pushStatus(out chan Status, st Status) {
	select {
	case out <- st:
		return
	default:
	}
	// drop the oldest pending status so the newest one always lands
	select {
	case <-out:
	default:
	}
	select {
	case out <- st:
	default:
	}
}
