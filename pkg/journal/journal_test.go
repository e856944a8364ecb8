package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMood_Known(t *testing.T) {
	mood, ok := Mood(" Stressed ").Known()
	assert.True(t, ok)
	assert.Equal(t, Stressed, mood)

	mood, ok = Mood("ecstatic").Known()
	assert.False(t, ok)
	assert.Equal(t, Mood("ecstatic"), mood)
}

func TestOn(t *testing.T) {
	entries := []Entry{
		{Id: "a", Date: "2024-03-18", Mood: Good},
		{Id: "b", Date: "2024-03-17", Mood: Low},
		{Id: "c", Date: "", Mood: Great},
		{Id: "d", Date: "2024-03-18T22:15:00", Mood: "ecstatic"},
	}

	got := On(entries, time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC))

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Id)
	assert.Equal(t, "d", got[1].Id)
}
