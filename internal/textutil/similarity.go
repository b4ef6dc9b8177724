package textutil

// CosineSimilarity returns the cosine of the angle between two fingerprints,
// in [0, 1]. A nil or empty fingerprint compares as 0.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	small, large := a.tokens, b.tokens
	if len(small) > len(large) {
		small, large = large, small
	}
	var dot float64
	for token, weight := range small {
		dot += weight * large[token]
	}
	return dot / (a.norm * b.norm)
}
