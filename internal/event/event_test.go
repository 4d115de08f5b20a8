package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStringAndParse(t *testing.T) {
	for _, k := range Kinds() {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	assert.Len(t, Kinds(), 10)

	k, err := ParseKind(" Name-Changed ")
	require.NoError(t, err)
	assert.Equal(t, NameChanged, k)

	_, err = ParseKind("exploded")
	assert.ErrorContains(t, err, "unknown event kind")
	assert.Equal(t, "kind(99)", Kind(99).String())
}

func TestSet(t *testing.T) {
	var all Set
	assert.True(t, all.Has(Updated))

	s := NewSet(NameChanged, Updated)
	assert.True(t, s.Has(Updated))
	assert.False(t, s.Has(IconChanged))
	assert.Equal(t, "name_changed,updated", s.String())
	assert.Equal(t, "all", all.String())

	parsed, err := ParseSet([]string{"updated", "Name-Changed"})
	require.NoError(t, err)
	assert.Equal(t, s, parsed)

	_, err = ParseSet([]string{"updated", "nope"})
	assert.Error(t, err)
}

func TestBus_DeliversToTopicThenWildcard(t *testing.T) {
	b := NewBus()
	var got []string
	b.Subscribe("a", func(e Event) { got = append(got, "a:"+e.Kind.String()) })
	b.Subscribe("b", func(e Event) { got = append(got, "b:"+e.Kind.String()) })
	b.SubscribeAll(func(e Event) { got = append(got, "*:"+e.Kind.String()) })

	b.Publish(Event{Kind: Updated, Source: "a"})
	assert.Equal(t, []string{"a:updated", "*:updated"}, got)
}

func TestBus_OriginDefaultsToSource(t *testing.T) {
	b := NewBus()
	var got Event
	b.Subscribe(1, func(e Event) { got = e })

	b.Publish(Event{Kind: IconChanged, Source: 1})
	assert.Equal(t, 1, got.Origin)
	assert.False(t, got.Forwarded())

	b.Publish(Event{Kind: IconChanged, Source: 1, Origin: 2})
	assert.True(t, got.Forwarded())
}

func TestBus_NestedPublishIsQueued(t *testing.T) {
	b := NewBus()
	var order []string

	b.Subscribe("child", func(e Event) {
		order = append(order, "child-start")
		// Forward to the parent; must not run until this handler returns.
		b.Publish(Event{Kind: e.Kind, Source: "parent", Origin: "child"})
		order = append(order, "child-end")
	})
	b.Subscribe("parent", func(e Event) {
		order = append(order, "parent")
	})

	b.Publish(Event{Kind: NameChanged, Source: "child"})
	assert.Equal(t, []string{"child-start", "child-end", "parent"}, order)
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus()
	calls := 0
	sub := b.Subscribe("x", func(Event) { calls++ })
	all := b.SubscribeAll(func(Event) { calls++ })
	assert.Equal(t, 1, b.Subscribers("x"))

	b.Publish(Event{Kind: Updated, Source: "x"})
	assert.Equal(t, 2, calls)

	b.Unsubscribe(sub)
	b.Unsubscribe(all)
	b.Publish(Event{Kind: Updated, Source: "x"})
	assert.Equal(t, 2, calls)
	assert.Zero(t, b.Subscribers("x"))
}

func TestBus_UnsubscribeDuringDelivery(t *testing.T) {
	b := NewBus()
	var second Subscription
	secondCalls := 0

	b.Subscribe("x", func(Event) { b.Unsubscribe(second) })
	second = b.Subscribe("x", func(Event) { secondCalls++ })

	b.Publish(Event{Kind: ElementDeleted, Source: "x"})
	assert.Zero(t, secondCalls, "a handler removed mid-delivery must not be called")
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "name_changed P1 -> P9", Event{Kind: NameChanged, Name: "P9", Previous: "P1"}.String())
	assert.Equal(t, "input_changed P1.X", Event{Kind: InputChanged, Name: "P1", Detail: "X"}.String())
	assert.Equal(t, "updated L", Event{Kind: Updated, Name: "L"}.String())
}
