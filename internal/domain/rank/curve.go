package rank

import "math"

// Curve maps an unbounded signal to (-100, 100), preserving sign:
//
//	Curve(x, growth) = sign(x) * (1 - 0.5^(|x|/growth)) * 100
//
// growth is the signal magnitude at which half of the attainable score is
// reached. sign(0) = +1 by the copysign convention, which keeps Curve(0) = 0.
func Curve(x, growth float64) float64 {
	return math.Copysign(1, x) * (1 - math.Pow(0.5, math.Abs(x)/growth)) * 100
}

// VoteBalance is the weighted difference between likes and dislikes; likes
// weigh more than dislikes.
func VoteBalance(likes, dislikes int) float64 {
	return likeWeight*float64(likes) - dislikeWeight*float64(dislikes)
}
