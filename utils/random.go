package utils

import (
	"fmt"
	"math/rand"
	"time"
)

const randomCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandomString returns n random uppercase alphanumerics, used as the
// suffix of invoice numbers.
func GenerateRandomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = randomCharset[rand.Intn(len(randomCharset))]
	}
	return string(b)
}

// GenerateReferenceID builds estimation/work-order references of the shape
// {PREFIX}-{unix-ms}-{3-digit random}. Uniqueness is best effort, not
// guaranteed.
func GenerateReferenceID(prefix string) string {
	return fmt.Sprintf("%s-%d-%03d", prefix, time.Now().UnixMilli(), rand.Intn(1000))
}
