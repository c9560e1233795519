package belief

// Blend constants
const (
	blendBaseShare   = 0.4
	blendLinkedShare = 0.6
)

// Blend adjusts an argument's base persuasiveness by the mean weight of the
// beliefs linked to it. Base and linked weights share the 1-10 scale; the
// result is clamped to it. With no linked beliefs the base passes through
// unblended.
func Blend(base float64, linked []int) float64 {
	if len(linked) == 0 {
		return clampBlend(base)
	}

	sum := 0
	for _, w := range linked {
		sum += w
	}
	avg := float64(sum) / float64(len(linked))

	return clampBlend(blendBaseShare*base + blendLinkedShare*avg)
}

func clampBlend(v float64) float64 {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}
