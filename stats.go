package texturerender

import "time"

// TextureStats is a snapshot of one texture slot.
type TextureStats struct {
	ID                 TextureID `json:"id"`
	CreatedAt          time.Time `json:"created_at"`
	LastUpdateAt       *time.Time `json:"last_update_at,omitempty"` // nil until the first update
	LastPullAt         *time.Time `json:"last_pull_at,omitempty"`   // nil until the first pull
	Sequence           uint64    `json:"sequence"`
	LastPulledSequence uint64    `json:"last_pulled_sequence"`

	// Updates counts UpdateFrame calls that reached the slot.
	Updates uint64 `json:"updates"`

	// Dropped counts frames overwritten before any pull returned them.
	// A steadily growing value means the producer outpaces the display.
	Dropped uint64 `json:"dropped"`

	Pulls      uint64 `json:"pulls"`
	StalePulls uint64 `json:"stale_pulls"`

	// Idle is set when no pull happened within Options.IdleThreshold.
	Idle bool `json:"idle"`
}

// BridgeStats aggregates all textures.
type BridgeStats struct {
	Registered    bool   `json:"registered"`
	Textures      int    `json:"textures"`
	Updates       uint64 `json:"updates"`
	Dropped       uint64 `json:"dropped"`
	Pulls         uint64 `json:"pulls"`
	OrphanUpdates uint64 `json:"orphan_updates"`
	OrphanPulls   uint64 `json:"orphan_pulls"`

	PerTexture map[TextureID]TextureStats `json:"per_texture"`
}

func (s *textureSlot) snapshot(clock TimeProvider, idleThreshold time.Duration) TextureStats {
	stats := TextureStats{
		ID:                 s.id,
		CreatedAt:          s.createdAt,
		LastPulledSequence: s.pulled.Load(),
		Updates:            s.updates.Load(),
		Dropped:            s.drops.Load(),
		Pulls:              s.pulls.Load(),
		StalePulls:         s.stalePulls.Load(),
	}
	if entry := s.latest.Load(); entry != nil {
		stats.Sequence = entry.seq
	}
	if ns := s.lastUpdate.Load(); ns != 0 {
		at := time.Unix(0, ns)
		stats.LastUpdateAt = &at
	}

	lastActivity := s.createdAt
	if ns := s.lastPull.Load(); ns != 0 {
		at := time.Unix(0, ns)
		stats.LastPullAt = &at
		lastActivity = at
	}
	stats.Idle = clock.Since(lastActivity) > idleThreshold

	return stats
}

// TextureStats returns a snapshot for id.
func (b *Bridge) TextureStats(id TextureID) (TextureStats, bool) {
	b.mu.RLock()
	slot := b.textures[id]
	clock := b.clock
	b.mu.RUnlock()

	if slot == nil {
		return TextureStats{}, false
	}
	return slot.snapshot(clock, b.options.IdleThreshold), true
}

// Stats returns a snapshot of every texture. Values may be slightly stale
// relative to each other; it is meant for monitoring.
func (b *Bridge) Stats() BridgeStats {
	b.mu.RLock()
	slots := make([]*textureSlot, 0, len(b.textures))
	for _, slot := range b.textures {
		slots = append(slots, slot)
	}
	registered := b.registrar != nil
	clock := b.clock
	b.mu.RUnlock()

	stats := BridgeStats{
		Registered:    registered,
		Textures:      len(slots),
		OrphanUpdates: b.orphanUpdates.Load(),
		OrphanPulls:   b.orphanPulls.Load(),
		PerTexture:    make(map[TextureID]TextureStats, len(slots)),
	}
	for _, slot := range slots {
		ts := slot.snapshot(clock, b.options.IdleThreshold)
		stats.Updates += ts.Updates
		stats.Dropped += ts.Dropped
		stats.Pulls += ts.Pulls
		stats.PerTexture[ts.ID] = ts
	}
	return stats
}
