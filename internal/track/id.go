package track

import (
	"fmt"
	"hash/fnv"
	"strconv"
)

// GenerateID derives a stable identifier from an item's type, start position,
// and content. Re-parsing unchanged text yields unchanged IDs; any change to
// the inputs changes the ID. 64-bit FNV-1a keeps collisions between distinct
// tuples unlikely without a collision-resolution step.
func GenerateID(t ItemType, line, column int, content string) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s:%d:%d:%s", t, line, column, content)
	return strconv.FormatUint(h.Sum64(), 36)
}
