package styling

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// ClassPrefix marks every generated class name
const ClassPrefix = "r_"

// Hash maps a canonical key to a class name: the prefix followed by the
// base36 form of the key's 64-bit xxhash (at most 13 characters). The hash
// has no seed, so names are stable across runs and processes.
//
// Two distinct keys hashing to the same name is not detected: both
// declarations would share one class and one of them would be styled
// wrongly. With 64 bits the chance stays negligible for realistic numbers of
// distinct declarations (below one in a billion at 100k declarations); this
// is an accepted risk rather than a checked condition.
func Hash(key CanonicalKey) string {
	return ClassPrefix + strconv.FormatUint(xxhash.Sum64String(string(key)), 36)
}
