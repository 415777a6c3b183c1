package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxoffice/internal/archive"
	"boxoffice/internal/fetch"
	llmclient "boxoffice/internal/llmClient"
	"boxoffice/internal/llmtool"
	"boxoffice/internal/normalize"
	"boxoffice/internal/types"
)

func newService(t *testing.T, fake *llmclient.FakeClient, opts Options) *Service {
	t.Helper()
	f := fetch.New(fake, normalize.New(), llmtool.DefaultProfile())
	return New(f, opts)
}

type recordingArchive struct {
	mu    sync.Mutex
	snaps []*types.Snapshot
	err   error
}

func (r *recordingArchive) Archive(_ context.Context, snap *types.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, snap)
	return r.err
}

func TestService_InitialStateIdle(t *testing.T) {
	svc := newService(t, llmclient.NewFakeClient(), Options{})
	st := svc.Current()
	assert.Equal(t, types.FetchIdle, st.State)
	assert.Nil(t, st.Snapshot)
}

func TestService_RefreshSuccess(t *testing.T) {
	arch := &recordingArchive{}
	svc := newService(t, llmclient.NewFakeClient(), Options{Archive: arch})

	st, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.FetchSuccess, st.State)
	require.NotNil(t, st.Snapshot)
	assert.Equal(t, 6, st.Snapshot.Len())
	assert.Empty(t, st.Error)
	assert.Equal(t, st, svc.Current())
	assert.Len(t, arch.snaps, 1)
}

func TestService_ArchivesEveryRefreshWithinOneSecond(t *testing.T) {
	store := archive.NewMemoryStore()
	f := fetch.New(llmclient.NewFakeClient(), normalize.New(), llmtool.DefaultProfile())
	at := time.Date(2026, 10, 19, 10, 15, 0, 0, time.UTC)
	f.Now = func() time.Time { return at }
	svc := New(f, Options{Archive: archive.NewWriter(store)})

	for i := 0; i < 3; i++ {
		_, err := svc.Refresh(context.Background())
		require.NoError(t, err)
	}
	keys, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, keys, 3)
}

func TestService_FailureDiscardsSnapshot(t *testing.T) {
	fake := llmclient.NewFakeClient()
	svc := newService(t, fake, Options{})
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	fake.Text = "{broken"
	st, err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fetch.ErrFetchFailed))
	assert.Equal(t, types.FetchError, st.State)
	assert.Equal(t, UserErrorMessage, st.Error)
	assert.Nil(t, st.Snapshot)
}

func TestService_RetainOnError(t *testing.T) {
	fake := llmclient.NewFakeClient()
	svc := newService(t, fake, Options{RetainOnError: true})
	ok, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	fake.Err = errors.New("network down")
	st, err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, types.FetchError, st.State)
	assert.Equal(t, UserErrorMessage, st.Error)
	assert.Same(t, ok.Snapshot, st.Snapshot)
}

func TestService_ArchiveFailureDoesNotFailRefresh(t *testing.T) {
	svc := newService(t, llmclient.NewFakeClient(), Options{Archive: &recordingArchive{err: errors.New("bucket gone")}})
	st, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.FetchSuccess, st.State)
}

func TestService_RejectsReentry(t *testing.T) {
	fake := llmclient.NewFakeClient()
	fake.Gate = make(chan struct{})
	svc := newService(t, fake, Options{})

	done := make(chan error, 1)
	go func() {
		_, err := svc.Refresh(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool { return fake.Calls() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, svc.Busy())
	assert.Equal(t, types.FetchLoading, svc.Current().State)

	st, err := svc.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrRefreshInProgress)
	assert.Equal(t, types.FetchLoading, st.State)
	assert.Equal(t, 1, fake.Calls())

	close(fake.Gate)
	require.NoError(t, <-done)
	assert.False(t, svc.Busy())
	assert.Equal(t, types.FetchSuccess, svc.Current().State)

	_, err = svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, fake.Calls())
}

func TestService_SubscribeStreamsTransitions(t *testing.T) {
	fake := llmclient.NewFakeClient()
	fake.Gate = make(chan struct{})
	svc := newService(t, fake, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := svc.Subscribe(ctx)

	first := readStatus(t, sub)
	assert.Equal(t, types.FetchIdle, first.State)

	done := make(chan struct{})
	go func() {
		_, _ = svc.Refresh(context.Background())
		close(done)
	}()

	loading := readStatus(t, sub)
	assert.Equal(t, types.FetchLoading, loading.State)

	close(fake.Gate)
	<-done
	final := readStatus(t, sub)
	assert.Equal(t, types.FetchSuccess, final.State)
	assert.Greater(t, final.Seq, loading.Seq)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-sub:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func readStatus(t *testing.T, ch <-chan Status) Status {
	t.Helper()
	select {
	case st, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return st
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for status")
	}
	return Status{}
}
