package attribution

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

func poolOf(t *testing.T, topics []topic, name string) []string {
	t.Helper()
	for _, tp := range topics {
		if tp.Name == name {
			return tp.Pool
		}
	}
	t.Fatalf("unknown topic %q", name)
	return nil
}

func TestAttributeCalculusDrawsFromMathPool(t *testing.T) {
	h := NewSeeded(1)
	mathPool := poolOf(t, sourceTopics, "mathematics")

	for i := 0; i < 50; i++ {
		res := h.Attribute("Can you explain calculus limits?", "A limit describes...", nil, nil)

		require.NotEmpty(t, res.Sources)
		assert.LessOrEqual(t, len(res.Sources), 4)
		assert.Equal(t, "mathematics", res.Topic)
		for _, s := range res.Sources {
			assert.Contains(t, mathPool, s)
		}
		assert.Len(t, res.FollowUps, 3)
	}
}

func TestAttributeIncludesUploadedFiles(t *testing.T) {
	h := NewSeeded(2)
	uploads := []domain.Upload{{Name: "notes.pdf"}, {Name: "slides.pdf"}, {Name: "extra.txt"}}
	mathPool := poolOf(t, sourceTopics, "mathematics")

	res := h.Attribute("algebra homework", "", uploads, nil)

	require.Len(t, res.Sources, 4)
	assert.Contains(t, mathPool, res.Sources[0])
	assert.Contains(t, mathPool, res.Sources[1])
	assert.Equal(t, UploadSourcePrefix+"notes.pdf", res.Sources[2])
	assert.Equal(t, UploadSourcePrefix+"slides.pdf", res.Sources[3])
}

func TestAttributeFallsBackToGenericPool(t *testing.T) {
	h := NewSeeded(3)

	res := h.Attribute("hello there", "nice to meet you", nil, nil)

	assert.Empty(t, res.Topic)
	require.NotEmpty(t, res.Sources)
	assert.LessOrEqual(t, len(res.Sources), 4)
	for _, s := range res.Sources {
		assert.Contains(t, genericSources, s)
	}
	require.Len(t, res.FollowUps, 3)
	for _, f := range res.FollowUps {
		assert.Contains(t, genericFollowUps, f)
	}
}

func TestAttributeSamplesWithoutReplacement(t *testing.T) {
	h := NewSeeded(4)

	for i := 0; i < 50; i++ {
		res := h.Attribute("quick question", "", nil, nil)
		assert.Len(t, res.FollowUps, 3)
		seen := map[string]bool{}
		for _, f := range res.FollowUps {
			assert.False(t, seen[f], "duplicate follow-up %q", f)
			seen[f] = true
		}
	}
}

func TestAttributeFirstMatchWins(t *testing.T) {
	h := NewSeeded(5)
	mathPool := poolOf(t, sourceTopics, "mathematics")

	// "physics" would match science, but mathematics is checked first.
	res := h.Attribute("statistics in physics", "", nil, nil)

	assert.Equal(t, "mathematics", res.Topic)
	for _, s := range res.Sources {
		assert.Contains(t, mathPool, s)
	}
}

func TestAttributePersonalizedFollowUps(t *testing.T) {
	h := NewSeeded(6)
	profile := &domain.UserProfile{SubjectsOfInterest: []string{"Chemistry"}}
	personal := personalizedFollowUps(profile)

	res := h.Attribute("hello", "hi", nil, profile)

	require.Len(t, res.FollowUps, 3)
	assert.Contains(t, personal, res.FollowUps[0])
	assert.Contains(t, personal, res.FollowUps[1])
	assert.Contains(t, genericFollowUps, res.FollowUps[2])
	assert.Contains(t, personal, "How does this relate to your Chemistry studies?")
}

func TestAttributeIsDeterministicForSeed(t *testing.T) {
	a := NewSeeded(42).Attribute("history of rome", "", nil, nil)
	b := NewSeeded(42).Attribute("history of rome", "", nil, nil)

	assert.True(t, slices.Equal(a.Sources, b.Sources))
	assert.True(t, slices.Equal(a.FollowUps, b.FollowUps))
}
