package player

import (
	"math/rand/v2"

	"github.com/gharapp/server/internal/domain"
)

// Next decides what plays after currentId. The boolean is false when
// sequential playback ran off the end of the list and repeat is off; the
// caller stops playback instead of advancing. A currentId that is no
// longer in songs falls back to the first track.
func Next(songs []domain.Song, currentId string, shuffle, repeat bool) (domain.Song, bool) {
	if len(songs) == 0 {
		return domain.Song{}, false
	}

	currentIdx := indexOf(songs, currentId)

	if shuffle {
		if len(songs) == 1 {
			return songs[0], true
		}

		nextIdx := rand.IntN(len(songs))
		for nextIdx == currentIdx {
			nextIdx = rand.IntN(len(songs))
		}

		return songs[nextIdx], true
	}

	if currentIdx < 0 {
		return songs[0], true
	}

	nextIdx := (currentIdx + 1) % len(songs)
	if nextIdx == 0 && !repeat {
		return domain.Song{}, false
	}

	return songs[nextIdx], true
}

// Prev always steps back one track, wrapping from the first to the last.
// Shuffle and repeat do not apply.
func Prev(songs []domain.Song, currentId string) (domain.Song, bool) {
	if len(songs) == 0 {
		return domain.Song{}, false
	}

	currentIdx := indexOf(songs, currentId)
	if currentIdx <= 0 {
		return songs[len(songs)-1], true
	}

	return songs[currentIdx-1], true
}

func indexOf(songs []domain.Song, id string) int {
	for i, song := range songs {
		if song.Id == id {
			return i
		}
	}

	return -1
}
