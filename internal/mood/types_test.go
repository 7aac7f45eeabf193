package mood

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandFor(t *testing.T) {
	cases := []struct {
		score int
		want  Band
	}{
		{100, BandUpbeat},
		{81, BandUpbeat},
		{80, BandNeutral},
		{60, BandNeutral},
		{41, BandNeutral},
		{40, BandDownbeat},
		{10, BandDownbeat},
		{0, BandDownbeat},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BandFor(tc.score), "score=%d", tc.score)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-1))
	assert.Equal(t, 0, Clamp(0))
	assert.Equal(t, 42, Clamp(42))
	assert.Equal(t, 100, Clamp(100))
	assert.Equal(t, 100, Clamp(101))
}

func TestParseDelta(t *testing.T) {
	delta, ok := ParseDelta("good pet (+7)")
	assert.True(t, ok)
	assert.Equal(t, 7, delta)

	delta, ok = ParseDelta("(-3) grr")
	assert.True(t, ok)
	assert.Equal(t, -3, delta)

	_, ok = ParseDelta("no marker here (3)")
	assert.False(t, ok)
}

func TestStripDelta(t *testing.T) {
	assert.Equal(t, "I love treats!", StripDelta("I love treats! (+5)"))
	assert.Equal(t, "Nice (really) day.", StripDelta("Nice (really) day. (+2)"))
	assert.Equal(t, "plain", StripDelta("  plain  "))
}

func TestInstructionCoversEveryBand(t *testing.T) {
	for _, band := range []Band{BandUpbeat, BandNeutral, BandDownbeat} {
		assert.NotEmpty(t, Instruction(band), "band=%s", band)
	}
	assert.Empty(t, Instruction(Band("sleepy")))
}
