package bot

import "sync"

// userSets holds the process-wide user sets consulted during permission
// resolution: banned users, creators, and the application owner.
type userSets struct {
	mu       sync.RWMutex
	banned   map[string]struct{}
	creators map[string]struct{}
	appOwner string
}

func newUserSets() userSets {
	return userSets{
		banned:   make(map[string]struct{}),
		creators: make(map[string]struct{}),
	}
}

// IsBanned reports whether the user is banned from using commands.
func (b *Bot) IsBanned(userID string) bool {
	b.users.mu.RLock()
	defer b.users.mu.RUnlock()
	_, ok := b.users.banned[userID]
	return ok
}

// BanUser bans the user from using any command. Reports false if the user
// was already banned.
func (b *Bot) BanUser(userID string) bool {
	b.users.mu.Lock()
	defer b.users.mu.Unlock()
	if _, ok := b.users.banned[userID]; ok {
		return false
	}
	b.users.banned[userID] = struct{}{}
	return true
}

// UnbanUser lifts the user's ban. Reports false if the user was not banned.
func (b *Bot) UnbanUser(userID string) bool {
	b.users.mu.Lock()
	defer b.users.mu.Unlock()
	if _, ok := b.users.banned[userID]; !ok {
		return false
	}
	delete(b.users.banned, userID)
	return true
}

// IsCreator reports whether the user is a registered creator.
func (b *Bot) IsCreator(userID string) bool {
	b.users.mu.RLock()
	defer b.users.mu.RUnlock()
	_, ok := b.users.creators[userID]
	return ok
}

// AddCreator registers the user as a creator. Reports false if already
// registered.
func (b *Bot) AddCreator(userID string) bool {
	b.users.mu.Lock()
	defer b.users.mu.Unlock()
	if _, ok := b.users.creators[userID]; ok {
		return false
	}
	b.users.creators[userID] = struct{}{}
	return true
}

// RemoveCreator unregisters the user as a creator.
func (b *Bot) RemoveCreator(userID string) bool {
	b.users.mu.Lock()
	defer b.users.mu.Unlock()
	if _, ok := b.users.creators[userID]; !ok {
		return false
	}
	delete(b.users.creators, userID)
	return true
}

// Creators returns a snapshot of the registered creator IDs.
func (b *Bot) Creators() []string {
	b.users.mu.RLock()
	defer b.users.mu.RUnlock()
	out := make([]string, 0, len(b.users.creators))
	for id := range b.users.creators {
		out = append(out, id)
	}
	return out
}

// IsAppOwner reports whether the user owns the bot application.
func (b *Bot) IsAppOwner(userID string) bool {
	b.users.mu.RLock()
	defer b.users.mu.RUnlock()
	return b.users.appOwner != "" && b.users.appOwner == userID
}

// SetAppOwner records the application owner's user ID.
func (b *Bot) SetAppOwner(userID string) {
	b.users.mu.Lock()
	defer b.users.mu.Unlock()
	b.users.appOwner = userID
}
