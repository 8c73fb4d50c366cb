// Package attribution picks cosmetic citation strings and follow-up questions
// for an answer by keyword matching against a fixed topic taxonomy. It is
// flavor text, not retrieval: nothing here is checked against the answer.
package attribution

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

const (
	topicSources      = 2
	topicFollowUps    = 3
	personalFollowUps = 2
	maxSources        = 4
	maxFollowUps      = 3
)

// UploadSourcePrefix prefixes the synthetic source added per attached file.
const UploadSourcePrefix = "Uploaded Document: "

// Result is the attribution attached to an assistant message.
type Result struct {
	Topic     string
	Sources   []string
	FollowUps []string
}

// Heuristic samples from the topic pools with an injectable random source.
// It is safe for concurrent use.
type Heuristic struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Heuristic drawing from src. A nil src seeds from the clock.
func New(src rand.Source) *Heuristic {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>17|1)
	}
	return &Heuristic{rnd: rand.New(src)}
}

// NewSeeded returns a deterministic Heuristic.
func NewSeeded(seed uint64) *Heuristic {
	return New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Attribute selects sources and follow-ups for one answer.
func (h *Heuristic) Attribute(input, output string, uploads []domain.Upload, profile *domain.UserProfile) Result {
	haystack := strings.ToLower(input) + "\n" + strings.ToLower(output)

	var res Result
	if t, ok := firstMatch(sourceTopics, haystack); ok {
		res.Topic = t.Name
		res.Sources = h.sample(t.Pool, topicSources)
	} else {
		res.Sources = h.sample(genericSources, topicSources)
	}
	for _, u := range uploads {
		res.Sources = append(res.Sources, UploadSourcePrefix+u.Name)
	}
	if len(res.Sources) > maxSources {
		res.Sources = res.Sources[:maxSources]
	}

	if t, ok := firstMatch(followUpTopics, haystack); ok {
		res.FollowUps = h.sample(t.Pool, topicFollowUps)
	} else if profile != nil {
		res.FollowUps = h.sample(personalizedFollowUps(profile), personalFollowUps)
	}
	if missing := maxFollowUps - len(res.FollowUps); missing > 0 {
		res.FollowUps = append(res.FollowUps, h.sample(genericFollowUps, missing)...)
	}
	if len(res.FollowUps) > maxFollowUps {
		res.FollowUps = res.FollowUps[:maxFollowUps]
	}

	return res
}

// sample draws n distinct entries of pool in random order.
func (h *Heuristic) sample(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	h.mu.Lock()
	perm := h.rnd.Perm(len(pool))
	h.mu.Unlock()

	out := make([]string, 0, n)
	for _, i := range perm[:n] {
		out = append(out, pool[i])
	}
	return out
}

func firstMatch(topics []topic, haystack string) (topic, bool) {
	for _, t := range topics {
		for _, kw := range t.Keywords {
			if strings.Contains(haystack, kw) {
				return t, true
			}
		}
	}
	return topic{}, false
}

func personalizedFollowUps(p *domain.UserProfile) []string {
	out := make([]string, 0, 5)
	if len(p.SubjectsOfInterest) > 0 {
		out = append(out, fmt.Sprintf("How does this relate to your %s studies?", p.SubjectsOfInterest[0]))
	}
	return append(out,
		"Would you like me to adjust the difficulty level?",
		"Can you explain this concept back to me in your own words?",
		"What specific part would you like me to elaborate on?",
		"How can we apply this to help achieve your learning goals?",
	)
}
