package demo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/libstack/go-sip2/acs"
)

func TestLibraryLogin(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	library := NewSeededLibrary()
	handlers := library.Handlers()

	profile, err := handlers.Login(ctx, "selfcheck", "selfcheck", "10.0.0.1")
	require.NoError(err)
	require.NotNil(profile)
	require.Equal("demo", profile.InstitutionID)

	profile, err = handlers.Login(ctx, "selfcheck", "wrong", "10.0.0.1")
	require.NoError(err)
	require.Nil(profile)
}

func TestLibraryCirculation(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	library := NewSeededLibrary()
	library.SetClock(func() time.Time {
		return time.Date(2023, 10, 10, 12, 0, 0, 0, time.UTC)
	})
	handlers := library.Handlers()

	req := acs.CirculationRequest{PatronID: "patron1", ItemID: "item1"}

	res, err := handlers.Checkout(ctx, req)
	require.NoError(err)
	require.True(res.OK)
	require.NotNil(res.DueDate)
	require.Equal(time.Date(2023, 11, 7, 12, 0, 0, 0, time.UTC), *res.DueDate)

	t.Run("double checkout is refused with a fallback", func(t *testing.T) {
		_, err := handlers.Checkout(ctx, acs.CirculationRequest{PatronID: "patron2", ItemID: "item1"})
		require.Error(err)

		var cerr *acs.CirculationError
		require.True(errors.As(err, &cerr))
		require.NotNil(cerr.Fallback)
		require.Equal("item1", cerr.Fallback.ItemID)
	})

	t.Run("charged item shows in patron account", func(t *testing.T) {
		account, err := handlers.PatronAccount(ctx, "patron1", "demo")
		require.NoError(err)
		require.Equal([]string{"item1"}, account.ChargedItems)
	})

	t.Run("renew extends the loan", func(t *testing.T) {
		res, err := handlers.Renew(ctx, req)
		require.NoError(err)
		require.True(res.OK)
		require.True(res.RenewalOK)
		require.Equal(time.Date(2023, 12, 5, 12, 0, 0, 0, time.UTC), *res.DueDate)
	})

	t.Run("renew by the wrong patron is refused", func(t *testing.T) {
		_, err := handlers.Renew(ctx, acs.CirculationRequest{PatronID: "patron2", ItemID: "item1"})
		var cerr *acs.CirculationError
		require.True(errors.As(err, &cerr))
	})

	t.Run("checkin releases the item", func(t *testing.T) {
		res, err := handlers.Checkin(ctx, acs.CirculationRequest{ItemID: "item1"})
		require.NoError(err)
		require.True(res.OK)
		require.Equal("patron1", res.PatronID)

		_, err = handlers.Checkin(ctx, acs.CirculationRequest{ItemID: "item1"})
		var cerr *acs.CirculationError
		require.True(errors.As(err, &cerr))
	})
}

func TestLibraryHoldsAndRenewAll(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	library := NewSeededLibrary()
	handlers := library.Handlers()

	res, err := handlers.Hold(ctx, acs.CirculationRequest{PatronID: "patron1", ItemID: "item2", HoldMode: "+"})
	require.NoError(err)
	require.True(res.OK)
	require.NotNil(res.QueuePosition)
	require.Equal(1, *res.QueuePosition)

	account, err := handlers.PatronAccount(ctx, "patron1", "demo")
	require.NoError(err)
	require.Equal([]string{"item2"}, account.HoldItems)

	t.Run("hold cancel empties the queue", func(t *testing.T) {
		_, err := handlers.Hold(ctx, acs.CirculationRequest{PatronID: "patron1", ItemID: "item2", HoldMode: "-"})
		require.NoError(err)

		account, err := handlers.PatronAccount(ctx, "patron1", "demo")
		require.NoError(err)
		require.Empty(account.HoldItems)
	})

	t.Run("renew all renews every loan of the patron", func(t *testing.T) {
		_, err := handlers.Checkout(ctx, acs.CirculationRequest{PatronID: "patron2", ItemID: "item1"})
		require.NoError(err)
		_, err = handlers.Checkout(ctx, acs.CirculationRequest{PatronID: "patron2", ItemID: "item3"})
		require.NoError(err)

		res, err := handlers.RenewAll(ctx, "patron2", "demo")
		require.NoError(err)
		require.True(res.OK)
		require.ElementsMatch([]string{"item1", "item3"}, res.RenewedItems)
	})
}
