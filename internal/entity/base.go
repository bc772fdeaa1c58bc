package entity

import "time"

// NowUnixMilli returns current unix timestamp in milliseconds
func NowUnixMilli() int64 {
	return time.Now().UnixMilli()
}

// NormalizePair orders two user ids so the numerically smaller one comes first.
// (A,B) and (B,A) normalize to the same pair, which keys a conversation.
func NormalizePair(userA, userB int64) (low, high int64) {
	if userA <= userB {
		return userA, userB
	}
	return userB, userA
}
