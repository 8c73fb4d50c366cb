package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

func TestStudyStreak(t *testing.T) {
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	day := func(offset int, hour int) time.Time {
		return time.Date(2024, 5, 10+offset, hour, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{"no sessions", nil, 0},
		{"today only", []time.Time{day(0, 9)}, 1},
		{"same day twice", []time.Time{day(0, 9), day(0, 11)}, 1},
		{"three days running", []time.Time{day(0, 9), day(-1, 9), day(-2, 22)}, 3},
		{"ending yesterday", []time.Time{day(-1, 9), day(-2, 9)}, 2},
		{"gap breaks it", []time.Time{day(0, 9), day(-2, 9)}, 1},
		{"stale", []time.Time{day(-3, 9), day(-4, 9)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.StudyStreak(tt.dates, now, time.UTC))
		})
	}
}
