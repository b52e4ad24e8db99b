package observer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	got []int
}

func (r *recorder) Update(v int) error {
	r.got = append(r.got, v)
	return nil
}

func TestAttachIsIdempotent(t *testing.T) {
	s := New[int]("test")
	r := &recorder{}

	s.Attach(r)
	s.Attach(r)
	require.Equal(t, 1, s.Len())

	s.Notify(7)
	assert.Equal(t, []int{7}, r.got)
}

func TestDetachStopsDelivery(t *testing.T) {
	s := New[int]("test")
	r := &recorder{}
	s.Attach(r)
	s.Detach(r)

	for i := 0; i < 5; i++ {
		s.Notify(i)
	}
	assert.Empty(t, r.got)
	assert.Equal(t, 0, s.Len())
}

func TestDetachNonMemberIsNoop(t *testing.T) {
	s := New[int]("test")
	a, b := &recorder{}, &recorder{}
	s.Attach(a)

	s.Detach(b)
	assert.Equal(t, 1, s.Len())
}

func TestNotifyRunsInAttachmentOrder(t *testing.T) {
	s := New[string]("test")
	var order []string
	for _, name := range []string{"first", "second", "third"} {
		s.Attach(NewFunc(func(string) error {
			order = append(order, name)
			return nil
		}))
	}

	s.Notify("x")
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestFailingSubscriberDoesNotBlockSiblings(t *testing.T) {
	var failures []error
	s := New[int]("test", WithErrorHandler(func(_ Observer[int], err error) {
		failures = append(failures, err)
	}))

	before, after := &recorder{}, &recorder{}
	s.Attach(before)
	s.Attach(NewFunc(func(int) error { return errors.New("render failed") }))
	s.Attach(NewFunc(func(int) error { panic("boom") }))
	s.Attach(after)

	s.Notify(42)

	assert.Equal(t, []int{42}, before.got)
	assert.Equal(t, []int{42}, after.got)
	require.Len(t, failures, 2)
	assert.EqualError(t, failures[0], "render failed")
	assert.Contains(t, failures[1].Error(), "boom")
}

func TestSubscriberMayDetachItselfDuringNotify(t *testing.T) {
	s := New[int]("test")
	calls := 0
	var self *Func[int]
	self = NewFunc(func(int) error {
		calls++
		s.Detach(self)
		return nil
	})
	s.Attach(self)

	s.Notify(1)
	s.Notify(2)
	assert.Equal(t, 1, calls)
}

func TestDistinctFuncsAreDistinctSubscribers(t *testing.T) {
	s := New[int]("test")
	fn := func(int) error { return nil }
	s.Attach(NewFunc(fn))
	s.Attach(NewFunc(fn))
	assert.Equal(t, 2, s.Len())
}
