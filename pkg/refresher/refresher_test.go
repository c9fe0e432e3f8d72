// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package refresher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	apperrors "github.com/NVIDIA/suggestd/pkg/errors"
	"github.com/NVIDIA/suggestd/pkg/suggestion"
)

// stubSource returns whatever is queued, repeating the last result.
type stubSource struct {
	mu      sync.Mutex
	records []suggestion.Input
	err     error
	calls   int
	block   bool
}

func (s *stubSource) set(records []suggestion.Input, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records, s.err = records, err
}

func (s *stubSource) Load(ctx context.Context) ([]suggestion.Input, error) {
	s.mu.Lock()
	s.calls++
	records, err, block := s.records, s.err, s.block
	s.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return records, err
}

func (s *stubSource) String() string { return "stub" }

func (s *stubSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestNew_Validation(t *testing.T) {
	store := suggestion.NewStore()

	_, err := New(nil, store)
	assert.Error(t, err)

	_, err = New(&stubSource{}, nil)
	assert.Error(t, err)

	_, err = New(&stubSource{}, store, WithInterval(time.Millisecond))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidRequest, apperrors.CodeOf(err))

	r, err := New(&stubSource{}, store)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, r.Interval())
	assert.False(t, r.Loaded())
}

func TestReload(t *testing.T) {
	ctx := context.Background()
	src := &stubSource{}
	src.set([]suggestion.Input{
		{ID: "a", Name: "x", Cost: 3},
		{ID: "a", Name: "y", Cost: 1},
	}, nil)

	store := suggestion.NewStore()
	r, err := New(src, store)
	require.NoError(t, err)

	require.NoError(t, r.Reload(ctx))
	assert.True(t, r.Loaded())
	assert.Equal(t, []string{"y", "x"}, names(store.Get("a")))

	t.Run("failure keeps previous index", func(t *testing.T) {
		before := store.Snapshot()
		failures := testutil.ToFloat64(reloadsTotal.WithLabelValues(string(apperrors.ErrCodeNotFound)))
		src.set(nil, apperrors.New(apperrors.ErrCodeNotFound, "gone"))

		err := r.Reload(ctx)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
		assert.InDelta(t, failures+1,
			testutil.ToFloat64(reloadsTotal.WithLabelValues(string(apperrors.ErrCodeNotFound))), 0)
		assert.Same(t, before, store.Snapshot())
		assert.Equal(t, []string{"y", "x"}, names(store.Get("a")))
		assert.True(t, r.Loaded())
	})

	t.Run("plain error is internal", func(t *testing.T) {
		src.set(nil, errors.New("boom"))
		err := r.Reload(ctx)
		assert.Equal(t, apperrors.ErrCodeInternal, apperrors.CodeOf(err))
	})

	t.Run("replacement drops vanished ids", func(t *testing.T) {
		src.set([]suggestion.Input{{ID: "b", Name: "z", Cost: 1}}, nil)
		require.NoError(t, r.Reload(ctx))
		assert.Empty(t, store.Get("a"))
		assert.Equal(t, []string{"z"}, names(store.Get("b")))
	})
}

func TestReload_Timeout(t *testing.T) {
	src := &stubSource{block: true}
	store := suggestion.NewStore()

	r, err := New(src, store, WithLoadTimeout(20*time.Millisecond))
	require.NoError(t, err)
	timeouts := testutil.ToFloat64(reloadsTotal.WithLabelValues(string(apperrors.ErrCodeTimeout)))

	err = r.Reload(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeTimeout, apperrors.CodeOf(err))
	assert.InDelta(t, timeouts+1, testutil.ToFloat64(reloadsTotal.WithLabelValues(string(apperrors.ErrCodeTimeout))), 0)
	assert.False(t, r.Loaded())
}

func TestReload_Normalizer(t *testing.T) {
	src := &stubSource{}
	src.set([]suggestion.Input{{ID: "café", Name: "latte", Cost: 1}}, nil)

	store := suggestion.NewStore()
	r, err := New(src, store, WithNormalizer(suggestion.NFC))
	require.NoError(t, err)
	require.NoError(t, r.Reload(context.Background()))

	assert.Equal(t, []string{"latte"}, names(store.Get("café")))
}

func TestStart_TicksWithFakeClock(t *testing.T) {
	fc := clocktesting.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	src := &stubSource{}
	src.set([]suggestion.Input{{ID: "a", Name: "first", Cost: 1}}, nil)

	store := suggestion.NewStore()
	r, err := New(src, store, WithClock(fc), WithInterval(time.Minute))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()

	require.Eventually(t, fc.HasWaiters, time.Second, time.Millisecond)
	assert.Equal(t, 0, src.Calls(), "no load before the first tick")

	fc.Step(time.Minute)
	require.Eventually(t, func() bool { return len(store.Get("a")) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"first"}, names(store.Get("a")))

	src.set(nil, errors.New("source down"))
	fc.Step(time.Minute)
	require.Eventually(t, func() bool { return src.Calls() == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"first"}, names(store.Get("a")))

	src.set([]suggestion.Input{{ID: "a", Name: "second", Cost: 1}}, nil)
	fc.Step(time.Minute)
	require.Eventually(t, func() bool {
		got := store.Get("a")
		return len(got) == 1 && got[0].Name == "second"
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
}

func names(entries []suggestion.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}
