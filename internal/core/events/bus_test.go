package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBus_PublishDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()
	var got []string

	bus.Subscribe(TopicTenderItemsChanged, func(ctx context.Context, payload any) {
		evt := payload.(TenderItemsChanged)
		got = append(got, "a:"+evt.TenderRef)
	})
	bus.Subscribe(TopicTenderItemsChanged, func(ctx context.Context, payload any) {
		evt := payload.(TenderItemsChanged)
		got = append(got, "b:"+evt.TenderRef)
	})

	bus.Publish(context.Background(), TopicTenderItemsChanged, TenderItemsChanged{TenderRef: "TN-1"})

	require.Equal(t, []string{"a:TN-1", "b:TN-1"}, got)
}

func TestBus_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewBus()
	delivered := false

	bus.Subscribe(TopicMaterialChanged, func(ctx context.Context, payload any) {
		panic("boom")
	})
	bus.Subscribe(TopicMaterialChanged, func(ctx context.Context, payload any) {
		delivered = true
	})

	bus.Publish(context.Background(), TopicMaterialChanged, MaterialChanged{MaterialRef: "RM-1"})

	require.True(t, delivered)
}

func TestBus_NoSubscribersIsNoop(t *testing.T) {
	bus := NewBus()
	require.NotPanics(t, func() {
		bus.Publish(context.Background(), TopicTenderItemsChanged, TenderItemsChanged{})
	})
}
