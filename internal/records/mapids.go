package records

import (
	"strconv"
	"strings"
)

const mapIDSeparator = "_"

// EncodeMapIDs joins map ids in order, ex. [1, 2, 3] -> "1_2_3".
func EncodeMapIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, mapIDSeparator)
}

// DecodeMapIDs is the inverse of EncodeMapIDs, segments that are not integers are skipped.
func DecodeMapIDs(encoded string) []int64 {
	if encoded == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(encoded, mapIDSeparator) {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
