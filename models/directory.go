package models

import "time"

// SlackUser is one entry of the synced workspace member directory.
type SlackUser struct {
	ID       string
	Name     string // handle, e.g. "jsmith"
	RealName string
}

// SlackChannel is one entry of the synced channel directory.
type SlackChannel struct {
	ID   string
	Name string
}

// Directory is an immutable snapshot of the workspace's user and channel
// maps. It is rebuilt from scratch on every metadata sync and swapped in
// wholesale; individual entries are never invalidated.
type Directory struct {
	SyncedAt time.Time

	usersByName    map[string]string
	usersByID      map[string]SlackUser
	channelsByName map[string]string
}

// NewDirectory builds a snapshot from full user and channel listings.
func NewDirectory(users []SlackUser, channels []SlackChannel, syncedAt time.Time) *Directory {
	d := &Directory{
		SyncedAt:       syncedAt,
		usersByName:    make(map[string]string, len(users)),
		usersByID:      make(map[string]SlackUser, len(users)),
		channelsByName: make(map[string]string, len(channels)),
	}
	for _, u := range users {
		d.usersByName[u.Name] = u.ID
		d.usersByID[u.ID] = u
	}
	for _, ch := range channels {
		d.channelsByName[ch.Name] = ch.ID
	}
	return d
}

// UserID resolves a display name to a user ID.
func (d *Directory) UserID(name string) (string, bool) {
	id, ok := d.usersByName[name]
	return id, ok
}

// User returns the directory record for a user ID.
func (d *Directory) User(id string) (SlackUser, bool) {
	u, ok := d.usersByID[id]
	return u, ok
}

// ChannelID resolves a channel name to its ID.
func (d *Directory) ChannelID(name string) (string, bool) {
	id, ok := d.channelsByName[name]
	return id, ok
}

// Size reports how many users and channels the snapshot holds.
func (d *Directory) Size() (users, channels int) {
	return len(d.usersByID), len(d.channelsByName)
}
