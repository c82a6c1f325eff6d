// Package storage persists per-guild settings: the command prefix, the
// master and owner sets, and per-command aliases. It is the loader the bot
// consults when a guild connects and the sink for admin mutations.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/keshon/bowtie/datastore"
)

// Storage wraps the datastore with guild-keyed records.
type Storage struct {
	ds *datastore.DataStore
}

// GuildRecord is the persisted settings of one guild.
type GuildRecord struct {
	Prefix  string            `json:"prefix,omitempty"`
	Masters []string          `json:"masters,omitempty"`
	Owners  []string          `json:"owners,omitempty"`
	// Aliases maps a command's primary trigger word to its guild alias.
	Aliases map[string]string `json:"aliases,omitempty"`
}

// New opens the storage file at the given path.
func New(filePath string, log zerolog.Logger) (*Storage, error) {
	ds, err := datastore.New(filePath, 10*time.Second, log)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

// Close flushes and closes the underlying store.
func (s *Storage) Close() error {
	return s.ds.Close()
}

// Guild returns the record for the guild, creating an empty one if absent.
func (s *Storage) Guild(guildID string) (*GuildRecord, error) {
	return s.getOrCreate(guildID)
}

// SetPrefix stores the guild's command prefix.
func (s *Storage) SetPrefix(guildID, prefix string) error {
	return s.update(guildID, func(rec *GuildRecord) {
		rec.Prefix = prefix
	})
}

// AddMaster adds a user to the guild's persisted masters set.
func (s *Storage) AddMaster(guildID, userID string) error {
	return s.update(guildID, func(rec *GuildRecord) {
		rec.Masters = addUnique(rec.Masters, userID)
	})
}

// RemoveMaster removes a user from the guild's persisted masters set.
func (s *Storage) RemoveMaster(guildID, userID string) error {
	return s.update(guildID, func(rec *GuildRecord) {
		rec.Masters = removeAll(rec.Masters, userID)
	})
}

// AddOwner adds a user to the guild's persisted owners set, dropping any
// master entry for the same user.
func (s *Storage) AddOwner(guildID, userID string) error {
	return s.update(guildID, func(rec *GuildRecord) {
		rec.Masters = removeAll(rec.Masters, userID)
		rec.Owners = addUnique(rec.Owners, userID)
	})
}

// RemoveOwner removes a user from the guild's persisted owners set.
func (s *Storage) RemoveOwner(guildID, userID string) error {
	return s.update(guildID, func(rec *GuildRecord) {
		rec.Owners = removeAll(rec.Owners, userID)
	})
}

// SetAlias stores a per-guild alias for the command's trigger word. An
// empty alias removes the entry.
func (s *Storage) SetAlias(guildID, commandWord, alias string) error {
	return s.update(guildID, func(rec *GuildRecord) {
		if rec.Aliases == nil {
			rec.Aliases = make(map[string]string)
		}
		if alias == "" {
			delete(rec.Aliases, commandWord)
			return
		}
		rec.Aliases[commandWord] = alias
	})
}

func (s *Storage) update(guildID string, mutate func(*GuildRecord)) error {
	rec, err := s.getOrCreate(guildID)
	if err != nil {
		return err
	}
	mutate(rec)
	s.ds.Set(guildID, rec)
	return nil
}

func (s *Storage) getOrCreate(guildID string) (*GuildRecord, error) {
	data, exists := s.ds.Get(guildID)
	if !exists {
		rec := &GuildRecord{}
		s.ds.Set(guildID, rec)
		return rec, nil
	}

	// Values read back from disk arrive as generic JSON; round-trip them
	// into the typed record.
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error marshalling guild record: %w", err)
	}
	var rec GuildRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("error unmarshalling guild record: %w", err)
	}
	return &rec, nil
}

func addUnique(set []string, v string) []string {
	for _, s := range set {
		if s == v {
			return set
		}
	}
	return append(set, v)
}

func removeAll(set []string, v string) []string {
	out := set[:0]
	for _, s := range set {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
