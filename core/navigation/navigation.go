// Package navigation computes successor, predecessor and random selection
// over an ordered clip list. It never re-sorts: the caller-supplied order
// is authoritative. All functions are pure; persistence of the resulting
// position is the caller's responsibility.
package navigation

import (
	"errors"
	"math/rand"

	"github.com/astevko/randombmir/model"
)

// ErrEmptyCollection is returned when navigation is attempted over an
// empty clip list. Callers recover by leaving playback state unchanged.
var ErrEmptyCollection = errors.New("clip collection is empty")

// Next returns the clip immediately following currentID, wrapping to the
// first clip after the last. An unknown currentID falls open to the first
// clip rather than stranding the caller without a playable clip.
func Next(clips []*model.AudioClip, currentID string) (*model.AudioClip, error) {
	if len(clips) == 0 {
		return nil, ErrEmptyCollection
	}
	idx := indexOf(clips, currentID)
	if idx < 0 {
		return clips[0], nil
	}
	return clips[(idx+1)%len(clips)], nil
}

// Previous returns the clip immediately preceding currentID, wrapping to
// the last clip before the first. Unknown currentID falls open to the
// first clip.
func Previous(clips []*model.AudioClip, currentID string) (*model.AudioClip, error) {
	if len(clips) == 0 {
		return nil, ErrEmptyCollection
	}
	idx := indexOf(clips, currentID)
	if idx < 0 {
		return clips[0], nil
	}
	return clips[(idx-1+len(clips))%len(clips)], nil
}

// Random returns a uniformly selected clip. The current clip is not
// excluded, so repeats are possible.
func Random(clips []*model.AudioClip) (*model.AudioClip, error) {
	if len(clips) == 0 {
		return nil, ErrEmptyCollection
	}
	return clips[rand.Intn(len(clips))], nil
}

func indexOf(clips []*model.AudioClip, id string) int {
	for i, clip := range clips {
		if clip.ID == id {
			return i
		}
	}
	return -1
}
