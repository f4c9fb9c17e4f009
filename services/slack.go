package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"

	"github.com/NextechGS/nextech-concierge/models"
)

// Notifier sends messages through the Slack API, resolving recipients via
// the synced workspace directory. Before the first successful Sync every
// send fails fast with ErrMetadataNotReady.
type Notifier struct {
	api *slack.Client

	mu  sync.RWMutex
	dir *models.Directory
}

// NewNotifier wraps a Slack client. The directory starts empty; call Sync
// before dispatching anything.
func NewNotifier(api *slack.Client) *Notifier {
	return &Notifier{api: api}
}

// Sync lists all workspace members and public channels and replaces the
// directory wholesale. Deleted accounts and bots are not indexed.
func (n *Notifier) Sync(ctx context.Context) error {
	users, err := n.api.GetUsersContext(ctx)
	if err != nil {
		return err
	}

	members := make([]models.SlackUser, 0, len(users))
	for _, u := range users {
		if u.Deleted || u.IsBot {
			continue
		}
		members = append(members, models.SlackUser{
			ID:       u.ID,
			Name:     u.Name,
			RealName: u.RealName,
		})
	}

	var channels []models.SlackChannel
	params := &slack.GetConversationsParameters{
		ExcludeArchived: true,
		Types:           []string{"public_channel"},
		Limit:           200,
	}
	for {
		page, cursor, err := n.api.GetConversationsContext(ctx, params)
		if err != nil {
			return err
		}
		for _, ch := range page {
			channels = append(channels, models.SlackChannel{ID: ch.ID, Name: ch.Name})
		}
		if cursor == "" {
			break
		}
		params.Cursor = cursor
	}

	dir := models.NewDirectory(members, channels, time.Now())
	n.ReplaceDirectory(dir)

	nu, nc := dir.Size()
	log.Info().Int("users", nu).Int("channels", nc).Msg("slack directory synced")
	return nil
}

// ReplaceDirectory swaps in a new snapshot. Sync is the only production
// caller; tests use it to install a canned directory.
func (n *Notifier) ReplaceDirectory(dir *models.Directory) {
	n.mu.Lock()
	n.dir = dir
	n.mu.Unlock()
}

// Directory returns the current snapshot, or nil before the first sync.
func (n *Notifier) Directory() *models.Directory {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.dir
}

// SendToUser posts a direct message to the member with the given handle.
// Returns the resolved recipient ID on success.
func (n *Notifier) SendToUser(ctx context.Context, name, text string) (string, error) {
	dir := n.Directory()
	if dir == nil {
		return "", models.ErrMetadataNotReady
	}
	id, ok := dir.UserID(name)
	if !ok {
		return "", &models.UnresolvedRecipientError{Kind: "user", Name: name}
	}
	return id, n.post(ctx, id, text)
}

// SendToChannel posts a message to the named channel. Returns the resolved
// channel ID on success.
func (n *Notifier) SendToChannel(ctx context.Context, name, text string) (string, error) {
	dir := n.Directory()
	if dir == nil {
		return "", models.ErrMetadataNotReady
	}
	id, ok := dir.ChannelID(name)
	if !ok {
		return "", &models.UnresolvedRecipientError{Kind: "channel", Name: name}
	}
	return id, n.post(ctx, id, text)
}

func (n *Notifier) post(ctx context.Context, id, text string) error {
	_, ts, err := n.api.PostMessageContext(ctx, id, slack.MsgOptionText(text, false))
	if err != nil {
		return err
	}
	log.Debug().Str("recipient", id).Str("ts", ts).Msg("slack message sent")
	return nil
}
