package storage

import (
	"fmt"

	"github.com/go-faster/city"
)

// URLID returns the 16-hex-char CityHash64 id of a URL.
func URLID(url string) string {
	return fmt.Sprintf("%016x", city.CH64([]byte(url)))
}

// SentenceID returns the 16-hex-char CityHash64 id of the exact sentence
// text. Duplicate sentences collapse to one document.
func SentenceID(sentence string) string {
	return fmt.Sprintf("%016x", city.CH64([]byte(sentence)))
}

// TextID returns the 32-hex-char CityHash128 id of a raw page text.
func TextID(text string) string {
	h := city.CH128([]byte(text))
	return fmt.Sprintf("%016x%016x", h.High, h.Low)
}
