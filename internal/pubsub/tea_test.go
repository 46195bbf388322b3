package pubsub_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/catalog"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/log"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/pubsub"
)

func TestListenCmd_DeliversCatalogChange(t *testing.T) {
	broker := pubsub.NewBroker[catalog.Change]()
	defer broker.Close()
	c := catalog.New(catalog.WithEvents(broker))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := broker.Subscribe(ctx)

	_, err := c.Layers().Add(mustLayer(t, "Doors"))
	require.NoError(t, err)

	msg := pubsub.ListenCmd(ctx, ch)()
	ev, ok := msg.(pubsub.Event[catalog.Change])
	require.True(t, ok, "msg should be a change event, got %T", msg)
	require.Equal(t, pubsub.CreatedEvent, ev.Type)
	require.Equal(t, "Doors", ev.Payload.Name)
}

func TestListenCmd_StopsWithContext(t *testing.T) {
	broker := pubsub.NewBroker[catalog.Change]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)
	cancel()

	require.Nil(t, pubsub.ListenCmd(ctx, ch)())
}

func TestListenCmd_StopsWhenBrokerCloses(t *testing.T) {
	broker := pubsub.NewBroker[catalog.Change]()
	ctx := context.Background()
	ch := broker.Subscribe(ctx)
	broker.Close()

	require.Nil(t, pubsub.ListenCmd(ctx, ch)())
}

func TestContinuousListener_FollowsRestore(t *testing.T) {
	broker := pubsub.NewBroker[catalog.Change]()
	defer broker.Close()
	c := catalog.New(catalog.WithEvents(broker))
	walls, err := c.Layers().Add(mustLayer(t, "Walls"))
	require.NoError(t, err)
	_, err = c.LayerStates().Save("Plan", "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	listener := pubsub.NewContinuousListener(ctx, broker)

	walls.SetFrozen(true)
	n, err := c.LayerStates().Restore("Plan", catalog.RestoreFreeze)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	var updated []string
	for range n {
		ev, ok := listener.Listen()().(pubsub.Event[catalog.Change])
		require.True(t, ok)
		require.Equal(t, pubsub.UpdatedEvent, ev.Type)
		require.Equal(t, catalog.KindLayer, ev.Payload.Kind)
		updated = append(updated, ev.Payload.Name)
	}
	require.ElementsMatch(t, []string{"0", "Walls"}, updated)
	require.False(t, walls.IsFrozen())
}

func TestLogListener_TailsDebugLog(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanup, err := log.Init(filepath.Join(t.TempDir(), "debug.log"))
	require.NoError(t, err)
	t.Cleanup(func() {
		log.SetEnabled(false)
		cleanup()
	})

	listener := log.NewListener(ctx)
	require.NotNil(t, listener)

	log.Info(log.CatTable, "Added", "kind", "layer", "name", "Walls")

	done := make(chan log.LogEvent, 1)
	go func() {
		if ev, ok := listener.Listen()().(log.LogEvent); ok {
			done <- ev
		}
	}()
	select {
	case ev := <-done:
		require.Contains(t, ev.Payload, "[table] Added kind=layer name=Walls")
	case <-time.After(time.Second):
		require.FailNow(t, "log line not delivered")
	}
}
