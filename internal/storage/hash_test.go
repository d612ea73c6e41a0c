package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURLID(t *testing.T) {
	id := URLID("http://www.example.ch/")
	assert.Len(t, id, 16)
	assert.Regexp(t, "^[0-9a-f]{16}$", id)

	assert.Equal(t, id, URLID("http://www.example.ch/"))
	assert.NotEqual(t, id, URLID("http://www.example.ch/site"))
}

func TestSentenceID(t *testing.T) {
	id := SentenceID("Das isch e Satz.")
	assert.Regexp(t, "^[0-9a-f]{16}$", id)
	assert.NotEqual(t, id, SentenceID("Das isch en andere Satz."))
}

func TestTextID(t *testing.T) {
	id := TextID("Es laengers Textstuck us de Siite.")
	assert.Len(t, id, 32)
	assert.Regexp(t, "^[0-9a-f]{32}$", id)

	assert.Equal(t, id, TextID("Es laengers Textstuck us de Siite."))
	assert.NotEqual(t, id, TextID("Es anders Textstuck."))
}
