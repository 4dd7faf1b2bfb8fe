package llm

import (
	"regexp"
	"strings"
)

var listPrefix = regexp.MustCompile(`^\d+\.\s*`)

// ParseProductNames разбирает нумерованный список вида "1. Name, Price"
// из сырого текста модели: по строке на товар, имя — до первой запятой,
// префикс "N. " отбрасывается.
func ParseProductNames(raw string) []string {
	var names []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		namePart := line
		if i := strings.Index(line, ","); i >= 0 {
			namePart = line[:i]
		}
		name := strings.TrimSpace(listPrefix.ReplaceAllString(namePart, ""))
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}
