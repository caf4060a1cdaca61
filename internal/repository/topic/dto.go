package topic

import (
	"fmt"
	"strconv"

	"github.com/loomboard/feedrank/internal/domain"
	domtopic "github.com/loomboard/feedrank/internal/domain/topic"
)

// buildTopicFields converts a domain Topic into a flat map for HSET.
func buildTopicFields(t domtopic.Topic) map[string]string {
	return map[string]string{
		"id":      t.ID(),
		"section": t.Section(),
		"name":    t.Name(),
		"slug":    t.Slug(),
		"tooltip": t.Tooltip(),
		"level":   strconv.Itoa(t.Level()),
	}
}

// parseTopicFields converts a flat hash back into a domain Topic.
func parseTopicFields(m map[string]string) domtopic.Topic {
	level, _ := strconv.Atoi(m["level"])
	return domtopic.Reconstruct(m["id"], m["section"], m["name"], m["slug"], m["tooltip"], level)
}

func topicKey(id string) string {
	return fmt.Sprintf("%stopic:%s", domain.KeyPrefix, id)
}

func sectionKey(sectionName string) string {
	return fmt.Sprintf("%stopics:section:%s", domain.KeyPrefix, sectionName)
}

func namesKey(sectionName string) string {
	return fmt.Sprintf("%stopic_names:%s", domain.KeyPrefix, sectionName)
}

func slugsKey(sectionName string) string {
	return fmt.Sprintf("%stopic_slugs:%s", domain.KeyPrefix, sectionName)
}

func childrenKey(id string) string {
	return fmt.Sprintf("%stopic_children:%s", domain.KeyPrefix, id)
}

func parentsKey(id string) string {
	return fmt.Sprintf("%stopic_parents:%s", domain.KeyPrefix, id)
}
