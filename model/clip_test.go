package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	for _, name := range []string{"long-talks", "random", "camps-arts", "warnings"} {
		cat, err := ParseCategory(name)
		require.NoError(t, err)
		assert.True(t, cat.Valid())
	}

	_, err := ParseCategory("talks")
	assert.Error(t, err)
	_, err = ParseCategory("")
	assert.Error(t, err)
}

func TestCategoryURLSegment(t *testing.T) {
	assert.Equal(t, "long+talks", CategoryLongTalks.URLSegment())
	assert.Equal(t, "random", CategoryRandom.URLSegment())
	assert.Equal(t, "camps+and+arts", CategoryCampsArts.URLSegment())
	assert.Equal(t, "warnings", CategoryWarnings.URLSegment())
}

func TestTranscriptFilename(t *testing.T) {
	assert.Equal(t, "01+fire+safety.txt", TranscriptFilename("01+fire+safety.mp3"))
	assert.Equal(t, "talk.txt", TranscriptFilename("talk.wav"))
	assert.Equal(t, "noext.txt", TranscriptFilename("noext"))
	// Already a .txt resource name stays stable.
	assert.Equal(t, "talk.txt", TranscriptFilename("talk.txt"))
}
