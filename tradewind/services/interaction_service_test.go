package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tradewind-gg/tradewind/tradewind/database/models"
	"github.com/tradewind-gg/tradewind/tradewind/database/repositories"
)

func newInteractionFixture() (*InteractionService, *fakeInteractions, *fakeListings) {
	interactions := newFakeInteractions()
	listings := newFakeListings()
	svc := NewInteractionService(interactions, listings, &fakeUsers{}, testModeration())
	return svc, interactions, listings
}

func TestCreateInteraction(t *testing.T) {
	svc, _, listings := newInteractionFixture()
	ctx := context.Background()

	listing := listings.add(&models.TradeListing{OwnerID: "owner", Game: models.GameMM2, Offering: []int64{1}, Requesting: []int64{2}})

	interaction, err := svc.Create(ctx, listing.ID, "buyer", "is this still available?")
	require.NoError(t, err)
	require.Equal(t, models.InteractionPending, interaction.Status)
	require.Equal(t, "buyer", interaction.InitiatorID)
	require.NotNil(t, interaction.Initiator)
}

func TestCreateInteractionOnOwnListing(t *testing.T) {
	svc, _, listings := newInteractionFixture()

	listing := listings.add(&models.TradeListing{OwnerID: "owner", Game: models.GameMM2, Offering: []int64{1}, Requesting: []int64{2}})

	_, err := svc.Create(context.Background(), listing.ID, "owner", "")
	require.True(t, repositories.IsValidation(err))
}

func TestCreateInteractionOnInactiveListing(t *testing.T) {
	svc, _, listings := newInteractionFixture()

	listing := listings.add(&models.TradeListing{OwnerID: "owner", Game: models.GameMM2, Status: models.ListingCompleted})

	_, err := svc.Create(context.Background(), listing.ID, "buyer", "")
	require.True(t, repositories.IsConflict(err))
}

func TestCreateInteractionModeratesMessage(t *testing.T) {
	svc, _, listings := newInteractionFixture()

	listing := listings.add(&models.TradeListing{OwnerID: "owner", Game: models.GameMM2})

	_, err := svc.Create(context.Background(), listing.ID, "buyer", "you b-a-d-w-o-r-d")
	require.True(t, repositories.IsValidation(err))
	require.NotContains(t, err.Error(), "badword")
}

func TestInteractionTransitions(t *testing.T) {
	ctx := context.Background()

	setup := func() (*InteractionService, *models.TradeInteraction) {
		svc, interactions, listings := newInteractionFixture()
		listing := listings.add(&models.TradeListing{OwnerID: "owner", Game: models.GameMM2})
		interaction := interactions.add(&models.TradeInteraction{ListingID: listing.ID, InitiatorID: "buyer"})
		return svc, interaction
	}

	t.Run("owner accepts", func(t *testing.T) {
		svc, interaction := setup()
		updated, err := svc.Accept(ctx, interaction.ID, "owner")
		require.NoError(t, err)
		require.Equal(t, models.InteractionAccepted, updated.Status)
	})

	t.Run("owner declines", func(t *testing.T) {
		svc, interaction := setup()
		updated, err := svc.Decline(ctx, interaction.ID, "owner")
		require.NoError(t, err)
		require.Equal(t, models.InteractionDeclined, updated.Status)
	})

	t.Run("initiator withdraws", func(t *testing.T) {
		svc, interaction := setup()
		updated, err := svc.Withdraw(ctx, interaction.ID, "buyer")
		require.NoError(t, err)
		require.Equal(t, models.InteractionWithdrawn, updated.Status)
	})

	t.Run("initiator cannot accept", func(t *testing.T) {
		svc, interaction := setup()
		_, err := svc.Accept(ctx, interaction.ID, "buyer")
		require.True(t, repositories.IsValidation(err))
	})

	t.Run("owner cannot withdraw", func(t *testing.T) {
		svc, interaction := setup()
		_, err := svc.Withdraw(ctx, interaction.ID, "owner")
		require.True(t, repositories.IsValidation(err))
	})

	t.Run("terminal state stays frozen", func(t *testing.T) {
		svc, interaction := setup()
		_, err := svc.Accept(ctx, interaction.ID, "owner")
		require.NoError(t, err)

		_, err = svc.Decline(ctx, interaction.ID, "owner")
		require.True(t, repositories.IsConflict(err))
		_, err = svc.Withdraw(ctx, interaction.ID, "buyer")
		require.True(t, repositories.IsConflict(err))
	})
}

func TestListForListingOwnerOnly(t *testing.T) {
	svc, interactions, listings := newInteractionFixture()
	ctx := context.Background()

	listing := listings.add(&models.TradeListing{OwnerID: "owner", Game: models.GameMM2})
	interactions.add(&models.TradeInteraction{ListingID: listing.ID, InitiatorID: "buyer"})

	got, err := svc.ListForListing(ctx, listing.ID, "owner")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Initiator)

	_, err = svc.ListForListing(ctx, listing.ID, "buyer")
	require.True(t, repositories.IsNotFound(err))
}
