package tail

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adamavenir/noci/internal/types"
)

// fakeJob is an append-only log that grows by one batch per fetch and
// reports dead once every batch has been published.
type fakeJob struct {
	batches [][]string
	shown   int
	starts  []int
	fail    map[int]error
}

func (f *fakeJob) published() []string {
	var out []string
	for _, b := range f.batches[:f.shown] {
		out = append(out, b...)
	}
	return out
}

func (f *fakeJob) FetchLog(ctx context.Context, key string, start int) (types.Job, error) {
	call := len(f.starts)
	f.starts = append(f.starts, start)
	if err, ok := f.fail[call]; ok {
		return types.Job{}, err
	}
	if f.shown < len(f.batches) {
		f.shown++
	}
	all := f.published()
	job := types.Job{Key: key, StatusMessage: "running", Dead: f.shown == len(f.batches)}
	for _, msg := range all[min(start, len(all)):] {
		job.Log = append(job.Log, types.LogLine{Time: "2024-01-02T03:04:05Z", Message: msg})
	}
	return job, nil
}

func newTestTailer(f Fetcher) (*Tailer, *int) {
	sleeps := 0
	tl := New(f, time.Millisecond)
	tl.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps++
		return ctx.Err()
	}
	return tl, &sleeps
}

func collect(lines *[]string) func(types.LogLine) error {
	return func(l types.LogLine) error {
		*lines = append(*lines, l.Message)
		return nil
	}
}

func TestNonFollowTicksOnce(t *testing.T) {
	f := &fakeJob{batches: [][]string{{"a", "b"}, {"c"}}}
	tl, sleeps := newTestTailer(f)

	var got []string
	res, err := tl.Run(context.Background(), Options{Key: "J1"}, collect(&got))
	require.NoError(t, err)
	require.Equal(t, 1, res.Ticks)
	require.Equal(t, 0, *sleeps)
	require.Equal(t, []string{"a", "b"}, got)
	require.Equal(t, 2, res.Cursor)
	require.False(t, res.Job.Dead)
}

func TestNonFollowIgnoresDead(t *testing.T) {
	f := &fakeJob{batches: [][]string{{"a"}}}
	tl, _ := newTestTailer(f)

	res, err := tl.Run(context.Background(), Options{Key: "J1"}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, res.Ticks)
	require.True(t, res.Job.Dead)
}

func TestFollowStopsOnFirstDeadTick(t *testing.T) {
	f := &fakeJob{batches: [][]string{{"a", "b"}, {}, {"c"}, {"d", "e"}}}
	tl, sleeps := newTestTailer(f)

	var got []string
	res, err := tl.Run(context.Background(), Options{Key: "J1", Follow: true}, collect(&got))
	require.NoError(t, err)
	require.Equal(t, 4, res.Ticks)
	require.Equal(t, 3, *sleeps)
	require.True(t, res.Job.Dead)
	require.Equal(t, f.published(), got, "every line exactly once, in order")
	require.Equal(t, 5, res.Cursor)
	require.Equal(t, []int{0, 2, 2, 3}, f.starts)
}

func TestFollowRepollsOnEmptyTicks(t *testing.T) {
	f := &fakeJob{batches: [][]string{{}, {}, {}}}
	tl, sleeps := newTestTailer(f)

	res, err := tl.Run(context.Background(), Options{Key: "J1", Follow: true}, nil)
	require.NoError(t, err)
	require.Equal(t, 3, res.Ticks)
	require.Equal(t, 2, *sleeps)
	require.Equal(t, 0, res.Cursor)
}

func TestResumeFromCursor(t *testing.T) {
	f := &fakeJob{
		batches: [][]string{{"a", "b"}, {"c"}, {"d"}},
		fail:    map[int]error{1: errors.New("boom")},
	}
	tl, _ := newTestTailer(f)

	var first []string
	res, err := tl.Run(context.Background(), Options{Key: "J1", Follow: true}, collect(&first))
	require.EqualError(t, err, "boom")
	require.Equal(t, []string{"a", "b"}, first)
	require.Equal(t, 2, res.Cursor)

	var second []string
	res, err = tl.Run(context.Background(), Options{Key: "J1", Start: res.Cursor, Follow: true}, collect(&second))
	require.NoError(t, err)
	require.Equal(t, []string{"c", "d"}, second)
	require.Equal(t, f.published(), append(first, second...))
	require.Equal(t, 4, res.Cursor)
}

func TestFetchErrorAbortsWithoutRetry(t *testing.T) {
	boom := fmt.Errorf("remote failure")
	f := &fakeJob{batches: [][]string{{"a"}, {"b"}}, fail: map[int]error{0: boom}}
	tl, sleeps := newTestTailer(f)

	res, err := tl.Run(context.Background(), Options{Key: "J1", Follow: true}, nil)
	require.ErrorIs(t, err, boom)
	require.Len(t, f.starts, 1)
	require.Equal(t, 0, *sleeps)
	require.Equal(t, 0, res.Ticks)
}

func TestEmitErrorAborts(t *testing.T) {
	f := &fakeJob{batches: [][]string{{"a", "b", "c"}}}
	tl, _ := newTestTailer(f)

	stop := errors.New("closed pipe")
	n := 0
	res, err := tl.Run(context.Background(), Options{Key: "J1"}, func(types.LogLine) error {
		n++
		if n == 2 {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
	require.Equal(t, 1, res.Cursor)
}

func TestCancelBeforeFetch(t *testing.T) {
	f := &fakeJob{batches: [][]string{{"a"}}}
	tl, _ := newTestTailer(f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tl.Run(ctx, Options{Key: "J1", Follow: true}, nil)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, f.starts)
}

func TestCancelDuringSleep(t *testing.T) {
	f := &fakeJob{batches: [][]string{{"a"}, {"b"}}}
	tl := New(f, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	var got []string
	done := make(chan error, 1)
	go func() {
		_, err := tl.Run(ctx, Options{Key: "J1", Follow: true}, collect(&got))
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("tail did not stop on cancel")
	}
	require.Equal(t, []string{"a"}, got)
}

func TestRejectsBadOptions(t *testing.T) {
	tl, _ := newTestTailer(&fakeJob{})

	_, err := tl.Run(context.Background(), Options{}, nil)
	require.Error(t, err)
	_, err = tl.Run(context.Background(), Options{Key: "J1", Start: -1}, nil)
	require.Error(t, err)
}

func TestFetcherFunc(t *testing.T) {
	var gotStart int
	fn := FetcherFunc(func(ctx context.Context, key string, start int) (types.Job, error) {
		gotStart = start
		return types.Job{Key: key, Dead: true}, nil
	})
	res, err := New(fn, 0).Run(context.Background(), Options{Key: "J1", Start: 3, Follow: true}, nil)
	require.NoError(t, err)
	require.Equal(t, 3, gotStart)
	require.Equal(t, 3, res.Cursor)
}
