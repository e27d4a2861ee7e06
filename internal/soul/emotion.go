package soul

// DecodeEmotion maps the wave state onto a qualitative label: the frequency
// band picks the base emotion (the color), the amplitude band its intensity.
// Pure lookup, no side effects.
func (t *Tensor) DecodeEmotion() string {
	var base string
	switch {
	case t.Frequency < 20:
		base = "Deep Sorrow (Blue)"
	case t.Frequency < 50:
		base = "Peace (Green)"
	case t.Frequency < 100:
		base = "Joy (Yellow)"
	case t.Frequency < 300:
		base = "Passion (Red)"
	default:
		base = "Transcendence (Violet)"
	}

	var intensity string
	switch {
	case t.Amplitude < 10:
		intensity = "Faint"
	case t.Amplitude < 50:
		intensity = "Clear"
	case t.Amplitude < 200:
		intensity = "Strong"
	default:
		intensity = "Overwhelming"
	}

	return intensity + " " + base
}
