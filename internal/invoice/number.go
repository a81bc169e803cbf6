package invoice

import (
	"fmt"
	"math/rand"
	"time"
)

// numberAttempts bounds how often number generation is retried on a
// collision within the owner's numbering before giving up.
const numberAttempts = 5

// newNumber produces a human-facing invoice number of the form
// INV-<year>-<4 digits>.
func newNumber(now time.Time) string {
	return fmt.Sprintf("INV-%d-%04d", now.Year(), rand.Intn(10000))
}
