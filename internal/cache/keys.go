package cache

import "strconv"

// Keys are derived deterministically from the wrapped operation's
// identity and arguments, with a version segment so the shape of the
// cached value can change without a flush.

func ItemsListKey(limit int) string {
	return "items:list:v1:limit=" + strconv.Itoa(limit)
}
