package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tradewind-gg/tradewind/tradewind/database/models"
	"github.com/tradewind-gg/tradewind/tradewind/database/repositories"
)

func newListingFixture() (*ListingService, *fakeListings, *fakeItems) {
	listings := newFakeListings()
	items := newFakeItems(
		&models.Item{ID: 1, Game: models.GameMM2, Name: "Chroma Luger"},
		&models.Item{ID: 2, Game: models.GameMM2, Name: "Corrupt"},
		&models.Item{ID: 3, Game: models.GameAdoptMe, Name: "Shadow Dragon"},
	)
	svc := NewListingService(listings, items, &fakeUsers{}, testModeration())
	return svc, listings, items
}

func TestCreateListingValidation(t *testing.T) {
	svc, _, _ := newListingFixture()
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateListingInput
	}{
		{
			name:  "unsupported game",
			input: CreateListingInput{OwnerID: "u1", Game: "fortnite", Offering: []int64{1}, Requesting: []int64{2}},
		},
		{
			name:  "empty offering",
			input: CreateListingInput{OwnerID: "u1", Game: models.GameMM2, Requesting: []int64{2}},
		},
		{
			name:  "empty requesting",
			input: CreateListingInput{OwnerID: "u1", Game: models.GameMM2, Offering: []int64{1}},
		},
		{
			name:  "unknown item",
			input: CreateListingInput{OwnerID: "u1", Game: models.GameMM2, Offering: []int64{99}, Requesting: []int64{2}},
		},
		{
			name:  "item from another game",
			input: CreateListingInput{OwnerID: "u1", Game: models.GameMM2, Offering: []int64{1}, Requesting: []int64{3}},
		},
		{
			name:  "blocked notes",
			input: CreateListingInput{OwnerID: "u1", Game: models.GameMM2, Offering: []int64{1}, Requesting: []int64{2}, Notes: "b4dw0rd here"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.input)
			require.Error(t, err)
			require.True(t, repositories.IsValidation(err))
		})
	}
}

func TestCreateListingModerationReasonIsGeneric(t *testing.T) {
	svc, _, _ := newListingFixture()

	_, err := svc.Create(context.Background(), CreateListingInput{
		OwnerID:    "u1",
		Game:       models.GameMM2,
		Offering:   []int64{1},
		Requesting: []int64{2},
		Notes:      "selling b a d w o r d stuff",
	})
	require.Error(t, err)
	require.NotContains(t, err.Error(), "badword")
}

func TestCreateListingAttachesOwner(t *testing.T) {
	svc, _, _ := newListingFixture()

	listing, err := svc.Create(context.Background(), CreateListingInput{
		OwnerID:    "u1",
		Game:       models.GameMM2,
		Offering:   []int64{1},
		Requesting: []int64{2},
	})
	require.NoError(t, err)
	require.Equal(t, models.ListingActive, listing.Status)
	require.NotNil(t, listing.Owner)
	require.Equal(t, "u1", listing.Owner.DiscordID)
}

func TestCreateListingQuota(t *testing.T) {
	svc, _, _ := newListingFixture()
	ctx := context.Background()

	input := CreateListingInput{
		OwnerID:    "u1",
		Game:       models.GameMM2,
		Offering:   []int64{1},
		Requesting: []int64{2},
	}
	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, input)
		require.NoError(t, err)
	}

	_, err := svc.Create(ctx, input)
	require.Error(t, err)
	require.True(t, repositories.IsQuota(err))

	// The cap is per owner.
	input.OwnerID = "u2"
	_, err = svc.Create(ctx, input)
	require.NoError(t, err)
}

func TestUpdateListingStatusValidation(t *testing.T) {
	svc, listings, _ := newListingFixture()
	ctx := context.Background()

	listing := listings.add(&models.TradeListing{OwnerID: "u1", Game: models.GameMM2, Offering: []int64{1}, Requesting: []int64{2}})

	bogus := models.ListingStatus("archived")
	_, err := svc.Update(ctx, "u1", listing.ID, UpdateListingInput{Status: &bogus})
	require.True(t, repositories.IsValidation(err))

	done := models.ListingCompleted
	updated, err := svc.Update(ctx, "u1", listing.ID, UpdateListingInput{Status: &done})
	require.NoError(t, err)
	require.Equal(t, models.ListingCompleted, updated.Status)
}

func TestUpdateListingWrongOwner(t *testing.T) {
	svc, listings, _ := newListingFixture()

	listing := listings.add(&models.TradeListing{OwnerID: "u1", Game: models.GameMM2, Offering: []int64{1}, Requesting: []int64{2}})

	done := models.ListingCompleted
	_, err := svc.Update(context.Background(), "u2", listing.ID, UpdateListingInput{Status: &done})
	require.True(t, repositories.IsNotFound(err))
}

func TestDeleteListing(t *testing.T) {
	svc, listings, _ := newListingFixture()
	ctx := context.Background()

	listing := listings.add(&models.TradeListing{OwnerID: "u1", Game: models.GameMM2, Offering: []int64{1}, Requesting: []int64{2}})

	err := svc.Delete(ctx, "u2", listing.ID)
	require.True(t, repositories.IsNotFound(err))

	require.NoError(t, svc.Delete(ctx, "u1", listing.ID))
	require.True(t, repositories.IsNotFound(svc.Delete(ctx, "u1", listing.ID)))
}

func TestListActiveRejectsUnknownGame(t *testing.T) {
	svc, _, _ := newListingFixture()

	bogus := models.Game("fortnite")
	_, err := svc.ListActive(context.Background(), &bogus)
	require.True(t, repositories.IsValidation(err))
}
