package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gharapp/server/internal/domain"
)

func testSongs(ids ...string) []domain.Song {
	songs := make([]domain.Song, 0, len(ids))
	for _, id := range ids {
		songs = append(songs, domain.Song{Id: id, Title: "Song " + id, SourceId: "src-" + id})
	}

	return songs
}

func TestNextSequential(t *testing.T) {
	songs := testSongs("a", "b", "c")

	song, ok := Next(songs, "a", false, false)
	require.True(t, ok)
	assert.Equal(t, "b", song.Id)
}

func TestNextAtEndWithoutRepeatSignalsEndOfPlaylist(t *testing.T) {
	songs := testSongs("a", "b", "c")

	_, ok := Next(songs, "c", false, false)
	assert.False(t, ok)
}

func TestNextAtEndWithRepeatWrapsToFirst(t *testing.T) {
	songs := testSongs("a", "b", "c")

	song, ok := Next(songs, "c", false, true)
	require.True(t, ok)
	assert.Equal(t, "a", song.Id)
}

func TestNextStaleCurrentFallsBackToFirst(t *testing.T) {
	songs := testSongs("a", "b", "c")

	song, ok := Next(songs, "gone", false, false)
	require.True(t, ok)
	assert.Equal(t, "a", song.Id)
}

func TestNextShuffleSingleTrackReplays(t *testing.T) {
	songs := testSongs("only")

	for i := 0; i < 10; i++ {
		song, ok := Next(songs, "only", true, false)
		require.True(t, ok)
		assert.Equal(t, "only", song.Id)
	}
}

func TestNextShuffleNeverRepeatsCurrent(t *testing.T) {
	songs := testSongs("a", "b", "c", "d")

	for i := 0; i < 200; i++ {
		song, ok := Next(songs, "b", true, false)
		require.True(t, ok)
		assert.NotEqual(t, "b", song.Id)
	}
}

func TestNextEmptyPlaylist(t *testing.T) {
	_, ok := Next(nil, "a", false, true)
	assert.False(t, ok)
}

func TestPrevStepsBack(t *testing.T) {
	songs := testSongs("a", "b", "c")

	song, ok := Prev(songs, "c")
	require.True(t, ok)
	assert.Equal(t, "b", song.Id)
}

func TestPrevAtStartWrapsToLast(t *testing.T) {
	songs := testSongs("a", "b", "c")

	song, ok := Prev(songs, "a")
	require.True(t, ok)
	assert.Equal(t, "c", song.Id)
}

func TestPrevStaleCurrentWrapsToLast(t *testing.T) {
	songs := testSongs("a", "b", "c")

	song, ok := Prev(songs, "gone")
	require.True(t, ok)
	assert.Equal(t, "c", song.Id)
}

func TestPrevEmptyPlaylist(t *testing.T) {
	_, ok := Prev(nil, "a")
	assert.False(t, ok)
}
