package mood

import "time"

const (
	// MinScore is the lowest mood score.
	MinScore = 0
	// MaxScore is the highest mood score.
	MaxScore = 100
	// DefaultScore is the score a new pet starts with.
	DefaultScore = 81
)

// Band is a coarse mood bucket used to pick animations.
type Band string

const (
	BandUpbeat   Band = "upbeat"
	BandNeutral  Band = "neutral"
	BandDownbeat Band = "downbeat"
)

// BandFor maps a score to its band. Above 80 is upbeat, 41 through 80 is
// neutral, 40 and below is downbeat.
func BandFor(score int) Band {
	switch {
	case score > 80:
		return BandUpbeat
	case score > 40:
		return BandNeutral
	default:
		return BandDownbeat
	}
}

// State is a snapshot of the engine.
type State struct {
	Score   int
	FeedLog []time.Time
}

// Band derives the band from the snapshot's score.
func (s State) Band() Band {
	return BandFor(s.Score)
}

// Clamp bounds score to MinScore-MaxScore.
func Clamp(score int) int {
	switch {
	case score < MinScore:
		return MinScore
	case score > MaxScore:
		return MaxScore
	default:
		return score
	}
}
