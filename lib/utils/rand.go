package utils

import "math/rand"

const letters = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandString returns a random alphanumeric string of length n. Not crypto
// safe; used for request ids and throwaway names in tests.
func RandString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
