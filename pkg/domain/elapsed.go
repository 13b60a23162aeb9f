package domain

import (
	"fmt"
	"time"
)

// FormatElapsed renders d as "M minutes and S.SS seconds".
func FormatElapsed(d time.Duration) string {
	minutes := int(d / time.Minute)
	seconds := (d - time.Duration(minutes)*time.Minute).Seconds()
	return fmt.Sprintf("%d minutes and %.2f seconds", minutes, seconds)
}
