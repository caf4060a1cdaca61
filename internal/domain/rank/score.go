// Package rank holds the pure scoring functions of the feed engine. They are
// stateless given their inputs; repositories feed them live counters and the
// paginator sorts on the result.
package rank

// Every weight group sums to 1.0 so scores stay within (-100, 100).
const (
	// FinalScore blend for authenticated viewers.
	staticWeight   = 0.2
	specificWeight = 0.8

	// StaticScore factors.
	initialWeight  = 0.1
	votesWeight    = 0.3
	commentsWeight = 0.2
	ageWeight      = 0.5

	// SpecificScore factors.
	topicsWeight     = 0.4
	visitsWeight     = 0.5
	membershipWeight = 0.1

	// Affinity update blend: 60% history, 40% latest window.
	affinityPrevWeight     = 0.6
	affinityVotesWeight    = 0.2
	affinityCommentsWeight = 0.2

	// Vote balance polarity weights.
	likeWeight    = 0.6
	dislikeWeight = 0.4
)

// Growth factors: the signal magnitude yielding half the attainable score.
const (
	postVotesGrowth    = 1
	postCommentsGrowth = 1
	postAgeGrowth      = 24 // hours
	postVisitsGrowth   = 1
	topicVotesGrowth   = 2
	topicCommentsGrowth = 2
)

// StaticInputs are the viewer-independent signals of one post.
type StaticInputs struct {
	InitialScore float64
	Likes        int
	Dislikes     int
	Comments     int
	AgeHours     float64
}

// SpecificInputs are the signals personalizing a post for one viewer.
type SpecificInputs struct {
	// TopicAffinities holds the viewer's affinity for each topic of the
	// post (direct and implied). Empty means no topic contribution.
	TopicAffinities []float64
	Visits          int
	Member          bool // viewer belongs to the post's section
}

// StaticScore ranks a post independently of any viewer. Fresh, liked and
// discussed posts by well-received authors score high; age decays the score.
func StaticScore(in StaticInputs) float64 {
	return initialWeight*in.InitialScore +
		votesWeight*Curve(VoteBalance(in.Likes, in.Dislikes), postVotesGrowth) +
		commentsWeight*Curve(float64(in.Comments), postCommentsGrowth) +
		ageWeight*Curve(-in.AgeHours, postAgeGrowth)
}

// InitialScore is the score a new post starts with: the mean ageless static
// score of the author's existing posts, or 0 for a first-time author.
func InitialScore(priors []StaticInputs) float64 {
	if len(priors) == 0 {
		return 0
	}
	var sum float64
	for _, p := range priors {
		p.AgeHours = 0
		sum += StaticScore(p)
	}
	return sum / float64(len(priors))
}

// SpecificScore ranks a post for one viewer. Repeated visits depress the
// score (novelty bias); section membership lifts it.
func SpecificScore(in SpecificInputs) float64 {
	var topicAffinity float64
	if len(in.TopicAffinities) > 0 {
		for _, a := range in.TopicAffinities {
			topicAffinity += a
		}
		topicAffinity /= float64(len(in.TopicAffinities))
	}

	var belongs float64
	if in.Member {
		belongs = 1
	}

	return topicsWeight*topicAffinity +
		visitsWeight*Curve(-float64(in.Visits), postVisitsGrowth) +
		membershipWeight*100*belongs
}

// FinalScore combines the static and personalized scores. specific is nil for
// anonymous viewers, whose ranking is purely static.
func FinalScore(static StaticInputs, specific *SpecificInputs) float64 {
	if specific == nil {
		return StaticScore(static)
	}
	return staticWeight*StaticScore(static) + specificWeight*SpecificScore(*specific)
}

// AffinityUpdate blends a user's previous affinity for a topic with the
// latest engagement window: likes/dislikes cast on and comments written under
// posts carrying the topic. An exponential moving average bounds drift per
// recompute cycle.
func AffinityUpdate(prev float64, likes, dislikes, comments int) float64 {
	return affinityPrevWeight*prev +
		affinityVotesWeight*Curve(VoteBalance(likes, dislikes), topicVotesGrowth) +
		affinityCommentsWeight*Curve(float64(comments), topicCommentsGrowth)
}
