package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreKV(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	kv := NewMemoryStore()
	t.Cleanup(func() { _ = kv.Close() })

	_, found, err := kv.Get(ctx, "missing")
	require.NoError(err)
	require.False(found)

	require.NoError(kv.Set(ctx, "server:1", []byte("a")))
	require.NoError(kv.Set(ctx, "server:2", []byte("b")))
	require.NoError(kv.Set(ctx, "client:1_server:1", []byte("c")))

	value, found, err := kv.Get(ctx, "server:1")
	require.NoError(err)
	require.True(found)
	require.Equal([]byte("a"), value)

	keys, err := kv.Keys(ctx, "server:*")
	require.NoError(err)
	require.ElementsMatch([]string{"server:1", "server:2"}, keys)

	keys, err = kv.Keys(ctx, "client:*_server:1")
	require.NoError(err)
	require.Equal([]string{"client:1_server:1"}, keys)

	require.NoError(kv.Delete(ctx, "server:1"))
	_, found, err = kv.Get(ctx, "server:1")
	require.NoError(err)
	require.False(found)

	require.NoError(kv.Flush(ctx))
	keys, err = kv.Keys(ctx, "*")
	require.NoError(err)
	require.Empty(keys)
}

func TestRecordsServerLifecycle(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	records := NewRecords(NewMemoryStore())

	srv := &Server{Name: "sip2-test", Host: "127.0.0.1", Port: 3004, Status: StatusDown}
	require.NoError(records.CreateServer(ctx, srv))
	require.NotEmpty(srv.ID)
	require.False(srv.Created.IsZero())

	require.NoError(records.ServerUp(ctx, srv))

	loaded, err := records.GetServer(ctx, srv.ID)
	require.NoError(err)
	require.True(loaded.IsRunning())
	require.NotNil(loaded.StartedAt)

	t.Run("same name cannot run twice", func(t *testing.T) {
		dup := &Server{Name: "sip2-test", Host: "127.0.0.1", Port: 3005}
		err := records.CreateServer(ctx, dup)
		require.ErrorIs(err, ErrServerAlreadyRunning)
	})

	t.Run("record is reused after shutdown", func(t *testing.T) {
		require.NoError(records.ServerDown(ctx, srv))

		dup := &Server{Name: "sip2-test", Host: "127.0.0.1", Port: 3005}
		require.NoError(records.CreateServer(ctx, dup))
		require.Equal(srv.ID, dup.ID)
		require.Equal(srv.Created, dup.Created)
	})

	t.Run("missing server", func(t *testing.T) {
		_, err := records.GetServer(ctx, "nope")
		require.ErrorIs(err, ErrNotFound)
	})
}

func TestRecordsClientScoping(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	records := NewRecords(NewMemoryStore())

	srvA := &Server{Name: "a", Host: "127.0.0.1", Port: 3004}
	srvB := &Server{Name: "b", Host: "127.0.0.1", Port: 3005}
	require.NoError(records.CreateServer(ctx, srvA))
	require.NoError(records.CreateServer(ctx, srvB))

	for i := 0; i < 3; i++ {
		require.NoError(records.CreateClient(ctx, &Client{ServerID: srvA.ID, IP: "10.0.0.1", Port: 40000 + i}))
	}
	require.NoError(records.CreateClient(ctx, &Client{ServerID: srvB.ID, IP: "10.0.0.2", Port: 50000}))

	clientsA, err := records.ClientsOf(ctx, srvA.ID)
	require.NoError(err)
	require.Len(clientsA, 3)

	clientsB, err := records.ClientsOf(ctx, srvB.ID)
	require.NoError(err)
	require.Len(clientsB, 1)

	t.Run("server down cascades its clients only", func(t *testing.T) {
		require.NoError(records.ServerDown(ctx, srvA))

		clientsA, err := records.ClientsOf(ctx, srvA.ID)
		require.NoError(err)
		require.Empty(clientsA)

		clientsB, err := records.ClientsOf(ctx, srvB.ID)
		require.NoError(err)
		require.Len(clientsB, 1)
	})

	t.Run("client update round trips session state", func(t *testing.T) {
		client := clientsB[0]
		client.Authenticated = true
		client.UserID = "selfcheck"
		seq := 7
		client.LastSequence = &seq
		client.PatronSession = &PatronSession{PatronID: "patron1", Language: "eng"}
		require.NoError(records.UpdateClient(ctx, client))

		reloaded, err := records.ClientsOf(ctx, srvB.ID)
		require.NoError(err)
		require.Len(reloaded, 1)
		require.True(reloaded[0].Authenticated)
		require.Equal("selfcheck", reloaded[0].UserID)
		require.NotNil(reloaded[0].LastSequence)
		require.Equal(7, *reloaded[0].LastSequence)
		require.NotNil(reloaded[0].PatronSession)
		require.Equal("patron1", reloaded[0].PatronSession.PatronID)
	})
}

func TestClientHelpers(t *testing.T) {
	require := require.New(t)

	client := &Client{ID: "c1", ServerID: "s1", IP: "10.0.0.1"}
	require.Equal("client:c1_server:s1", client.Key())
	require.Equal("10.0.0.1", client.TerminalLabel())

	client.Terminal = "gate-3"
	require.Equal("gate-3", client.TerminalLabel())

	client.PatronSession = &PatronSession{PatronID: "p"}
	client.ClearPatronSession()
	require.Nil(client.PatronSession)
}
