package services

import (
	"context"
	"time"

	"github.com/tradewind-gg/tradewind/tradewind/config"
	"github.com/tradewind-gg/tradewind/tradewind/database/models"
	"github.com/tradewind-gg/tradewind/tradewind/database/repositories"
	"github.com/tradewind-gg/tradewind/tradewind/moderation"
)

// In-memory fakes mirroring the repository contracts, including the typed
// errors the Postgres implementations return.

func testModeration() *moderation.Service {
	return moderation.NewService(
		moderation.NewFilter([]string{"badword"}),
		moderation.NewEscalator("", time.Second),
	)
}

type fakeListings struct {
	rows      map[int64]*models.TradeListing
	nextID    int64
	maxActive int
}

func newFakeListings() *fakeListings {
	return &fakeListings{rows: map[int64]*models.TradeListing{}, maxActive: config.MaxActiveListings}
}

func (f *fakeListings) add(listing *models.TradeListing) *models.TradeListing {
	f.nextID++
	listing.ID = f.nextID
	if listing.Status == "" {
		listing.Status = models.ListingActive
	}
	f.rows[listing.ID] = listing
	return listing
}

func (f *fakeListings) Create(ctx context.Context, listing *models.TradeListing) error {
	count, _ := f.CountActive(ctx, listing.OwnerID)
	if count >= f.maxActive {
		return &repositories.QuotaError{Resource: "listings", Limit: f.maxActive}
	}
	listing.Status = models.ListingActive
	listing.CreatedAt = time.Now()
	listing.UpdatedAt = listing.CreatedAt
	f.add(listing)
	return nil
}

func (f *fakeListings) GetByID(ctx context.Context, id int64) (*models.TradeListing, error) {
	listing, ok := f.rows[id]
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "listing", ID: id}
	}
	return listing, nil
}

func (f *fakeListings) GetActive(ctx context.Context, game *models.Game) ([]*models.TradeListing, error) {
	var out []*models.TradeListing
	for _, listing := range f.rows {
		if listing.Status != models.ListingActive {
			continue
		}
		if game != nil && listing.Game != *game {
			continue
		}
		out = append(out, listing)
	}
	return out, nil
}

func (f *fakeListings) GetByOwner(ctx context.Context, ownerID string) ([]*models.TradeListing, error) {
	var out []*models.TradeListing
	for _, listing := range f.rows {
		if listing.OwnerID == ownerID {
			out = append(out, listing)
		}
	}
	return out, nil
}

func (f *fakeListings) Update(ctx context.Context, ownerID string, id int64, update repositories.ListingUpdate) (*models.TradeListing, error) {
	listing, ok := f.rows[id]
	if !ok || listing.OwnerID != ownerID {
		return nil, &repositories.NotFoundError{Entity: "listing", ID: id}
	}
	if update.Status != nil {
		listing.Status = *update.Status
	}
	if update.Offering != nil {
		listing.Offering = update.Offering
	}
	if update.Requesting != nil {
		listing.Requesting = update.Requesting
	}
	if update.Notes != nil {
		listing.Notes = *update.Notes
	}
	listing.UpdatedAt = time.Now()
	return listing, nil
}

func (f *fakeListings) Delete(ctx context.Context, ownerID string, id int64) (bool, error) {
	listing, ok := f.rows[id]
	if !ok || listing.OwnerID != ownerID {
		return false, nil
	}
	delete(f.rows, id)
	return true, nil
}

func (f *fakeListings) DeleteExpired(ctx context.Context, retention time.Duration) (int64, error) {
	var removed int64
	cutoff := time.Now().Add(-retention)
	for id, listing := range f.rows {
		if listing.CreatedAt.Before(cutoff) {
			delete(f.rows, id)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeListings) CountActive(ctx context.Context, ownerID string) (int, error) {
	count := 0
	for _, listing := range f.rows {
		if listing.OwnerID == ownerID && listing.Status == models.ListingActive {
			count++
		}
	}
	return count, nil
}

type fakeItems struct {
	rows map[int64]*models.Item
}

func newFakeItems(items ...*models.Item) *fakeItems {
	f := &fakeItems{rows: map[int64]*models.Item{}}
	for _, item := range items {
		f.rows[item.ID] = item
	}
	return f
}

func (f *fakeItems) Create(ctx context.Context, item *models.Item) error {
	item.ID = int64(len(f.rows) + 1)
	f.rows[item.ID] = item
	return nil
}

func (f *fakeItems) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	item, ok := f.rows[id]
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "item", ID: id}
	}
	return item, nil
}

func (f *fakeItems) GetByIDs(ctx context.Context, ids []int64) ([]*models.Item, error) {
	var out []*models.Item
	for _, id := range ids {
		if item, ok := f.rows[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeItems) GetByGame(ctx context.Context, game models.Game) ([]*models.Item, error) {
	var out []*models.Item
	for _, item := range f.rows {
		if item.Game == game {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeItems) GetAll(ctx context.Context) ([]*models.Item, error) {
	var out []*models.Item
	for _, item := range f.rows {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeItems) Update(ctx context.Context, item *models.Item) error {
	if _, ok := f.rows[item.ID]; !ok {
		return &repositories.NotFoundError{Entity: "item", ID: item.ID}
	}
	f.rows[item.ID] = item
	return nil
}

func (f *fakeItems) Delete(ctx context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return &repositories.NotFoundError{Entity: "item", ID: id}
	}
	delete(f.rows, id)
	return nil
}

type fakeUsers struct{}

func (f *fakeUsers) Upsert(ctx context.Context, user *models.User) error { return nil }

func (f *fakeUsers) GetByDiscordID(ctx context.Context, discordID string) (*models.User, error) {
	return &models.User{DiscordID: discordID, Username: "user-" + discordID}, nil
}

func (f *fakeUsers) GetProfile(ctx context.Context, discordID string) (*models.UserProfile, error) {
	return &models.UserProfile{DiscordID: discordID, Username: "user-" + discordID}, nil
}

func (f *fakeUsers) GetProfiles(ctx context.Context, discordIDs []string) (map[string]*models.UserProfile, error) {
	out := make(map[string]*models.UserProfile, len(discordIDs))
	for _, id := range discordIDs {
		out[id] = &models.UserProfile{DiscordID: id, Username: "user-" + id}
	}
	return out, nil
}

type fakeInteractions struct {
	rows   map[int64]*models.TradeInteraction
	nextID int64
}

func newFakeInteractions() *fakeInteractions {
	return &fakeInteractions{rows: map[int64]*models.TradeInteraction{}}
}

func (f *fakeInteractions) add(interaction *models.TradeInteraction) *models.TradeInteraction {
	f.nextID++
	interaction.ID = f.nextID
	if interaction.Status == "" {
		interaction.Status = models.InteractionPending
	}
	f.rows[interaction.ID] = interaction
	return interaction
}

func (f *fakeInteractions) Create(ctx context.Context, interaction *models.TradeInteraction) error {
	interaction.Status = models.InteractionPending
	interaction.CreatedAt = time.Now()
	interaction.UpdatedAt = interaction.CreatedAt
	f.add(interaction)
	return nil
}

func (f *fakeInteractions) GetByID(ctx context.Context, id int64) (*models.TradeInteraction, error) {
	interaction, ok := f.rows[id]
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "interaction", ID: id}
	}
	return interaction, nil
}

func (f *fakeInteractions) GetByListing(ctx context.Context, listingID int64) ([]*models.TradeInteraction, error) {
	var out []*models.TradeInteraction
	for _, interaction := range f.rows {
		if interaction.ListingID == listingID {
			out = append(out, interaction)
		}
	}
	return out, nil
}

func (f *fakeInteractions) UpdateStatus(ctx context.Context, id int64, from, to models.InteractionStatus) error {
	interaction, ok := f.rows[id]
	if !ok || interaction.Status != from {
		return &repositories.ConflictError{Entity: "interaction", Reason: "not in a transitionable state"}
	}
	interaction.Status = to
	interaction.UpdatedAt = time.Now()
	return nil
}

type fakeConversations struct {
	rows   map[int64]*models.Conversation
	nextID int64
}

func newFakeConversations() *fakeConversations {
	return &fakeConversations{rows: map[int64]*models.Conversation{}}
}

func (f *fakeConversations) add(userA, userB string) *models.Conversation {
	a, b := models.CanonicalPair(userA, userB)
	f.nextID++
	conv := &models.Conversation{ID: f.nextID, UserAID: a, UserBID: b, CreatedAt: time.Now()}
	f.rows[conv.ID] = conv
	return conv
}

func (f *fakeConversations) GetOrCreate(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	if userA == userB {
		return nil, &repositories.ValidationError{Field: "participants", Reason: "cannot start a conversation with yourself"}
	}
	a, b := models.CanonicalPair(userA, userB)
	for _, conv := range f.rows {
		if conv.UserAID == a && conv.UserBID == b {
			return conv, nil
		}
	}
	return f.add(userA, userB), nil
}

func (f *fakeConversations) GetByID(ctx context.Context, id int64) (*models.Conversation, error) {
	conv, ok := f.rows[id]
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "conversation", ID: id}
	}
	return conv, nil
}

func (f *fakeConversations) ListForUser(ctx context.Context, userID string) ([]*models.ConversationSummary, error) {
	var out []*models.ConversationSummary
	for _, conv := range f.rows {
		if conv.Involves(userID) {
			out = append(out, &models.ConversationSummary{Conversation: conv})
		}
	}
	return out, nil
}

func (f *fakeConversations) SetPinned(ctx context.Context, id int64, pinned bool) error {
	conv, ok := f.rows[id]
	if !ok {
		return &repositories.NotFoundError{Entity: "conversation", ID: id}
	}
	conv.Pinned = pinned
	return nil
}

func (f *fakeConversations) Delete(ctx context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return &repositories.NotFoundError{Entity: "conversation", ID: id}
	}
	delete(f.rows, id)
	return nil
}

type fakeMessages struct {
	rows   map[int64]*models.Message
	nextID int64
}

func newFakeMessages() *fakeMessages {
	return &fakeMessages{rows: map[int64]*models.Message{}}
}

func (f *fakeMessages) add(message *models.Message) *models.Message {
	f.nextID++
	message.ID = f.nextID
	f.rows[message.ID] = message
	return message
}

func (f *fakeMessages) Send(ctx context.Context, message *models.Message) error {
	if message.ReplyToID != nil {
		target, ok := f.rows[*message.ReplyToID]
		if !ok || target.ConversationID != message.ConversationID {
			return &repositories.ValidationError{Field: "reply_to", Reason: "target message is not in this conversation"}
		}
	}
	message.CreatedAt = time.Now()
	f.add(message)
	return nil
}

func (f *fakeMessages) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	message, ok := f.rows[id]
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "message", ID: id}
	}
	return message, nil
}

func (f *fakeMessages) Fetch(ctx context.Context, conversationID int64, limit int, cursor *repositories.MessageCursor) ([]*models.Message, error) {
	var out []*models.Message
	for _, message := range f.rows {
		if message.ConversationID != conversationID {
			continue
		}
		if cursor != nil && !message.CreatedAt.Before(cursor.Before) {
			continue
		}
		out = append(out, message)
	}
	return out, nil
}

func (f *fakeMessages) Edit(ctx context.Context, id int64, content string) (*models.Message, error) {
	message, ok := f.rows[id]
	if !ok || message.Deleted() {
		return nil, &repositories.NotFoundError{Entity: "message", ID: id}
	}
	now := time.Now()
	message.Content = content
	message.EditedAt = &now
	return message, nil
}

func (f *fakeMessages) SoftDelete(ctx context.Context, id int64) (*models.Message, error) {
	message, ok := f.rows[id]
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "message", ID: id}
	}
	if !message.Deleted() {
		now := time.Now()
		message.Content = config.MessageTombstone
		message.DeletedAt = &now
	}
	return message, nil
}

func (f *fakeMessages) MarkRead(ctx context.Context, conversationID int64, readerID string) error {
	for _, message := range f.rows {
		if message.ConversationID == conversationID && message.SenderID != readerID {
			message.Read = true
		}
	}
	return nil
}

func (f *fakeMessages) SetReactions(ctx context.Context, id int64, reactions map[string][]string) (*models.Message, error) {
	message, ok := f.rows[id]
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "message", ID: id}
	}
	message.Reactions = reactions
	return message, nil
}
