package model

// PlayerState is one session's resumable playback snapshot.
type PlayerState struct {
	CurrentClipID string  `json:"currentClipId"` // Reference to AudioClip.ID; may be stale
	Volume        float64 `json:"volume"`        // Normalized [0,1]
	IsPlaying     bool    `json:"isPlaying"`     // Best-effort hint, not authoritative
	CurrentTime   float64 `json:"currentTime"`   // Playback offset in seconds, best-effort
	LastUpdated   int64   `json:"lastUpdated"`   // Epoch milliseconds of the last write
}

// PlayerStateUpdate carries a partial PlayerState. Nil fields are left
// untouched by a merge, so callers persisting a single field (a time tick,
// a volume change) never clobber fields written by other events.
type PlayerStateUpdate struct {
	CurrentClipID *string  `json:"currentClipId,omitempty"`
	Volume        *float64 `json:"volume,omitempty"`
	IsPlaying     *bool    `json:"isPlaying,omitempty"`
	CurrentTime   *float64 `json:"currentTime,omitempty"`
}

// Apply merges the non-nil fields of u into s.
func (u PlayerStateUpdate) Apply(s *PlayerState) {
	if u.CurrentClipID != nil {
		s.CurrentClipID = *u.CurrentClipID
	}
	if u.Volume != nil {
		s.Volume = *u.Volume
	}
	if u.IsPlaying != nil {
		s.IsPlaying = *u.IsPlaying
	}
	if u.CurrentTime != nil {
		s.CurrentTime = *u.CurrentTime
	}
}
