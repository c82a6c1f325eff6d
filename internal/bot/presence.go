package bot

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Presence is one displayed status/activity of the bot.
type Presence struct {
	Status   discordgo.Status
	Activity discordgo.ActivityType
	Text     string
	// URL is only meaningful for streaming activities.
	URL string
}

// Apply pushes the presence to the gateway.
func (p Presence) Apply(s *discordgo.Session) error {
	return s.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status: string(p.Status),
		Activities: []*discordgo.Activity{{
			Name: p.Text,
			Type: p.Activity,
			URL:  p.URL,
		}},
	})
}

// Rotator cycles through a list of presences, wrapping at the end.
type Rotator struct {
	mu        sync.Mutex
	presences []Presence
	idx       int
}

// Set replaces the presence list and restarts the cycle.
func (r *Rotator) Set(presences []Presence) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presences = presences
	r.idx = 0
}

// Next returns the next presence in the cycle. ok is false when the list
// is empty.
func (r *Rotator) Next() (p Presence, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.presences) == 0 {
		return Presence{}, false
	}
	if r.idx >= len(r.presences) {
		r.idx = 0
	}
	p = r.presences[r.idx]
	r.idx++
	return p, true
}

// Len returns the number of presences in the cycle.
func (r *Rotator) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.presences)
}

// SetPresences sets the list the bot rotates through at the configured
// interval. Call before Run.
func (b *Bot) SetPresences(presences []Presence) {
	b.rotator.Set(presences)
}

func (b *Bot) startPresence() {
	if b.rotator.Len() == 0 {
		return
	}

	err := b.jobs.Every("presence", b.cfg.PresenceInterval, func() {
		p, ok := b.rotator.Next()
		if !ok {
			return
		}
		if err := p.Apply(b.session); err != nil {
			b.log.Warn().Err(err).Msg("failed to update presence")
		}
	})
	if err != nil {
		b.log.Warn().Err(err).Msg("presence rotation already running")
	}
}
