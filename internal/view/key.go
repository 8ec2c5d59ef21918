package view

import (
	"encoding/json"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Key fingerprints a filter and sort state together with the ids it
// selected, in order. Two requests with the same key see the same filtered
// set, so a client may keep its page. A different key means the filter, the
// sort or the rows themselves changed, and the view starts again at page 1.
func Key(query any, sort SortState, ids []int) string {
	payload, err := json.Marshal(struct {
		Query any       `json:"q"`
		Sort  SortState `json:"s"`
		IDs   []int     `json:"i"`
	}{query, sort, ids})
	if err != nil {
		return ""
	}
	return strconv.FormatUint(xxhash.Sum64(payload), 16)
}

// ResolvePage returns the page to serve for a request carrying clientKey.
// An empty client key is trusted as-is.
func ResolvePage(requested int, clientKey, currentKey string) int {
	if clientKey != "" && clientKey != currentKey {
		return 1
	}
	if requested < 1 {
		return 1
	}
	return requested
}
