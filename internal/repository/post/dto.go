package post

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/loomboard/feedrank/internal/domain"
	dompost "github.com/loomboard/feedrank/internal/domain/post"
)

// buildPostFields converts a domain Post into a flat map for HSET. Topic id
// lists and user tags are space-joined; ids and tags never contain spaces.
func buildPostFields(p dompost.Post) map[string]string {
	return map[string]string{
		"id":            p.ID(),
		"title":         p.Title(),
		"text":          p.Text(),
		"author":        p.Author(),
		"section":       p.Section(),
		"created_at":    strconv.FormatInt(p.CreatedAt(), 10),
		"initial_score": strconv.FormatFloat(p.InitialScore(), 'f', -1, 64),
		"topics":        strings.Join(p.TopicIDs(), " "),
		"implied":       strings.Join(p.ImpliedTopicIDs(), " "),
		"user_tags":     strings.Join(p.UserTags(), " "),
	}
}

// parsePostFields converts a flat hash back into a domain Post.
func parsePostFields(m map[string]string) dompost.Post {
	createdAt, _ := strconv.ParseInt(m["created_at"], 10, 64)
	initialScore, _ := strconv.ParseFloat(m["initial_score"], 64)
	return dompost.Reconstruct(
		m["id"], m["title"], m["text"], m["author"], m["section"],
		createdAt, initialScore,
		splitList(m["topics"]), splitList(m["implied"]), splitList(m["user_tags"]),
	)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, " ")
}

func postKey(id string) string {
	return fmt.Sprintf("%spost:%s", domain.KeyPrefix, id)
}

func allPostsKey() string {
	return domain.KeyPrefix + "posts"
}

func sectionPostsKey(sectionName string) string {
	return fmt.Sprintf("%sposts:section:%s", domain.KeyPrefix, sectionName)
}

func authorPostsKey(login string) string {
	return fmt.Sprintf("%sposts:author:%s", domain.KeyPrefix, login)
}

func topicPostsKey(sectionName, topicID string) string {
	return fmt.Sprintf("%sposts:topic:%s:%s", domain.KeyPrefix, sectionName, topicID)
}
