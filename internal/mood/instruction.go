package mood

// Instruction returns a short behavior guideline for the given band.
func Instruction(band Band) string {
	switch band {
	case BandUpbeat:
		return "Sound cheerful and playful, a little affectionate."
	case BandNeutral:
		return "Sound calm and attentive."
	case BandDownbeat:
		return "Sound quiet and a bit sulky, keep replies short."
	default:
		return ""
	}
}
