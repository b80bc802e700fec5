package metrics

import (
	"sort"
	"strings"
)

// Tags are the scope tags of a Receiver.
type Tags map[string]string

func formatName(prefix string, name string) string {
	formatted := prefix
	if len(name) > 0 && len(prefix) > 0 {
		formatted += "."
	}
	return formatted + name
}

func sortedKeys(tags Tags) []string {
	keys := make([]string, 0, len(tags))
	for key := range tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// FormatTags converts a map of tags into a string that can be used as a map key.
func FormatTags(tags Tags) string {
	var b strings.Builder
	for _, key := range sortedKeys(tags) {
		b.WriteString(key)
		b.WriteByte(':')
		b.WriteString(tags[key])
		b.WriteByte(',')
	}
	return b.String()
}

// tagList orders tags by name and appends the Hostname tag last so that it is the
// one ResolveHostname settles on. An empty hostname adds no tag.
func tagList(tags Tags, hostname string) []Tag {
	list := make([]Tag, 0, len(tags)+1)
	for _, key := range sortedKeys(tags) {
		if key == HostnameTag {
			continue
		}
		list = append(list, NewTag(key, tags[key]))
	}
	if len(hostname) > 0 {
		list = append(list, NewTag(HostnameTag, hostname))
	}
	return list
}
