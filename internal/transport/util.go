package transport

import (
	"strings"
	"time"
)

// headerContainsToken reports whether header, a comma/space-separated
// list of tokens (as Connection and Upgrade both are), contains token,
// case-insensitively — matching original_source's header-splitting check.
func headerContainsToken(header, token string) bool {
	for _, part := range strings.FieldsFunc(header, func(r rune) bool { return r == ',' || r == ' ' }) {
		if strings.EqualFold(part, token) {
			return true
		}
	}
	return false
}

// deadlineNow returns a short absolute deadline for a single control-frame
// write, used when closing a rejected connection.
func deadlineNow() time.Time {
	return time.Now().Add(writeWait)
}
