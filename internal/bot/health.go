package bot

import "time"

// maxHeartbeatAge is how long the gateway may stay silent before the
// connection is considered dead.
const maxHeartbeatAge = 5 * time.Minute

// startWatchdog periodically checks the age of the last heartbeat ack and
// forces a session reopen when the gateway has gone silent.
func (b *Bot) startWatchdog() {
	err := b.jobs.Every("heartbeat-watch", b.cfg.HealthInterval, func() {
		last := b.session.LastHeartbeatAck
		if last.IsZero() {
			return
		}
		age := time.Since(last)
		if age < maxHeartbeatAge {
			return
		}
		b.log.Warn().Dur("age", age).Msg("gateway silent, reconnecting")
		if err := b.session.Close(); err != nil {
			b.log.Error().Err(err).Msg("failed to close stale session")
		}
		if err := b.session.Open(); err != nil {
			b.log.Error().Err(err).Msg("failed to reopen session")
		}
	})
	if err != nil {
		b.log.Warn().Err(err).Msg("heartbeat watchdog already running")
	}
}
