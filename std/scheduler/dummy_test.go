package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDummySchedulerMoveForwardFiresDueEvents(t *testing.T) {
	s := NewDummyScheduler()
	var fired []string

	s.Schedule(100*time.Millisecond, func() { fired = append(fired, "a") })
	s.Schedule(50*time.Millisecond, func() { fired = append(fired, "b") })

	s.MoveForward(40 * time.Millisecond)
	require.Empty(t, fired, "nothing should fire before its deadline")

	s.MoveForward(20 * time.Millisecond) // now at 60ms: "b" is due
	require.Equal(t, []string{"b"}, fired)

	s.MoveForward(100 * time.Millisecond) // now at 160ms: "a" is due
	require.Equal(t, []string{"b", "a"}, fired)
}

func TestDummySchedulerFiresEarliestDeadlineFirstWithinOneAdvance(t *testing.T) {
	s := NewDummyScheduler()
	var order []int

	s.Schedule(30*time.Millisecond, func() { order = append(order, 3) })
	s.Schedule(10*time.Millisecond, func() { order = append(order, 1) })
	s.Schedule(20*time.Millisecond, func() { order = append(order, 2) })

	s.MoveForward(100 * time.Millisecond)
	require.Equal(t, []int{1, 2, 3}, order, "events spanned by one advance must fire in deadline order")
}

func TestDummySchedulerCancelPreventsFiring(t *testing.T) {
	s := NewDummyScheduler()
	fired := false
	token := s.Schedule(10*time.Millisecond, func() { fired = true })
	token.Cancel()

	s.MoveForward(100 * time.Millisecond)
	require.False(t, fired)
}

func TestDummySchedulerDoubleCancelIsNoOp(t *testing.T) {
	s := NewDummyScheduler()
	token := s.Schedule(10*time.Millisecond, func() {})
	token.Cancel()
	token.Cancel() // must not panic
}

func TestDummySchedulerNowAdvancesBySum(t *testing.T) {
	s := NewDummyScheduler()
	start := s.Now()
	s.MoveForward(5 * time.Millisecond)
	s.MoveForward(7 * time.Millisecond)
	require.Equal(t, start.Add(12*time.Millisecond), s.Now())
}

func TestDummySchedulerNonceIsDeterministicAndIncreasing(t *testing.T) {
	s := NewDummyScheduler()
	n1 := s.Nonce()
	n2 := s.Nonce()
	require.NotEqual(t, n1, n2)

	s2 := NewDummyScheduler()
	require.Equal(t, n1, s2.Nonce(), "a fresh scheduler must reproduce the same sequence")
}
