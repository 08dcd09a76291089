package internal

import (
	"github.com/dustin/go-humanize"
)

// TextSize formats the UTF-8 size of text for log lines.
func TextSize(text string) string {
	return humanize.Bytes(uint64(len(text)))
}

// UniqueStrings returns s without duplicates, keeping first occurrences.
func UniqueStrings(s []string) []string {
	seen := make(map[string]struct{}, len(s))
	out := make([]string, 0, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
