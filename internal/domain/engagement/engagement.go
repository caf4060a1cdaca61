package engagement

// Counters holds the live engagement numbers of one post, plus the viewer's
// own reaction when a viewer login was supplied.
type Counters struct {
	Likes          int
	Dislikes       int
	Comments       int
	ViewerReaction int // +1, -1, or 0 for none
}
