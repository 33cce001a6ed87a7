package core

// PositionsToInts converts positions to plain ints, for logs and serialized records
func PositionsToInts(ps []Position) []int {
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i] = int(p)
	}
	return out
}
