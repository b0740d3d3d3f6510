// internal/common/ids.go
package common

import (
	"strconv"
	"strings"
)

// ClusterID builds the name of the n-th emitted cluster.
func ClusterID(prefix string, n int) string {
	return prefix + strconv.Itoa(n)
}

// SplitClusterID extracts the prefix and ordinal from an ID built by
// ClusterID. It returns prefix, n, ok.
func SplitClusterID(id string) (string, int, bool) {
	i := len(id)
	for i > 0 && id[i-1] >= '0' && id[i-1] <= '9' {
		i--
	}
	if i == len(id) {
		return id, 0, false
	}
	n, err := strconv.Atoi(id[i:])
	if err != nil {
		return id, 0, false
	}
	return strings.Clone(id[:i]), n, true
}
