// Package linker resolves the logical event name reference of a match to a
// stored event, the reference is not enforced by the store so names may be
// missing or spelled differently.
package linker

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// MinCorrelation is the similarity under which two names are not linked.
const MinCorrelation = 0.8

type Link struct {
	Event       string
	Stored      string
	Correlation float64
}

func normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// ClosestEvent returns the stored name most similar to name, ok is false if
// no stored name reaches MinCorrelation.
func ClosestEvent(name string, stored []string) (link Link, ok bool) {
	link.Event = name
	target := normalize(name)
	for _, candidate := range stored {
		if candidate == name {
			return Link{Event: name, Stored: candidate, Correlation: 1}, true
		}
		similarity := matchr.JaroWinkler(target, normalize(candidate), false)
		if similarity > link.Correlation {
			link.Stored = candidate
			link.Correlation = similarity
		}
	}
	return link, link.Correlation >= MinCorrelation
}

// LinkEvents links each match event name to at most one stored event name.
// Exact matches are taken first, the remaining names are then linked to the
// most similar stored name that has not been taken yet.
func LinkEvents(events, stored []string) []Link {
	var result []Link
	linked := make(map[string]struct{})
	taken := make(map[string]struct{})

	for _, event := range events {
		for _, candidate := range stored {
			if _, isTaken := taken[candidate]; isTaken {
				continue
			}
			if event == candidate {
				result = append(result, Link{Event: event, Stored: candidate, Correlation: 1})
				linked[event] = struct{}{}
				taken[candidate] = struct{}{}
				break
			}
		}
	}

	for _, event := range events {
		if _, isLinked := linked[event]; isLinked {
			continue
		}

		var available []string
		for _, candidate := range stored {
			if _, isTaken := taken[candidate]; !isTaken {
				available = append(available, candidate)
			}
		}

		link, ok := ClosestEvent(event, available)
		if !ok {
			continue
		}
		result = append(result, link)
		linked[event] = struct{}{}
		taken[link.Stored] = struct{}{}
	}

	return result
}
