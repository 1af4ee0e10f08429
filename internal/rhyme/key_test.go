package rhyme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	t.Run("Long And Short Vowels", func(t *testing.T) {
		tt := []struct {
			word string
			want string
		}{
			{"street", "E|t"},
			{"heat", "E|t"},
			{"felt", "e|lt"},
			{"cat", "a|t"},
			{"sat", "a|t"},
			{"time", "I|m"},
			{"rhyme", "I|m"},
			{"mine", "I|n"},
			{"place", "A|s"},
			{"rose", "O|s"},
			{"goes", "O|s"},
			{"long", "o|ng"},
			{"song", "o|ng"},
			{"here", "E|r"},
			{"near", "E|r"},
			{"true", "U|"},
			{"blue", "U|"},
			{"me", "E|"},
			{"see", "E|"},
		}

		for _, tc := range tt {
			t.Run(tc.word, func(t *testing.T) {
				assert.Equal(t, tc.want, Key(tc.word))
			})
		}
	})

	t.Run("Silent GH And Final Y", func(t *testing.T) {
		for _, w := range []string{"night", "light", "fight"} {
			assert.Equal(t, "I|t", Key(w), w)
		}
		for _, w := range []string{"high", "sky", "fly", "my"} {
			assert.Equal(t, "I|", Key(w), w)
		}
	})

	t.Run("Coda Normalization", func(t *testing.T) {
		tt := []struct {
			word string
			want string
		}{
			{"edge", "e|j"},
			{"table", "a|bl"},
			{"force", "o|rs"},
			{"horse", "o|rs"},
			{"back", "a|k"},
			{"ball", "a|l"},
			{"lamb", "a|m"},
			{"graph", "a|f"},
		}

		for _, tc := range tt {
			assert.Equal(t, tc.want, Key(tc.word), tc.word)
		}
	})

	t.Run("Past Tense", func(t *testing.T) {
		tt := []struct {
			word string
			want string
		}{
			{"walked", "a|lkd"},
			{"stopped", "o|pd"},
			{"loved", "u|vd"},
			{"played", "A|d"},
		}

		for _, tc := range tt {
			assert.Equal(t, tc.want, Key(tc.word), tc.word)
		}
	})

	t.Run("Irregular Words", func(t *testing.T) {
		assert.Equal(t, Key("love"), Key("above"))
		assert.Equal(t, Key("there"), Key("where"))
		assert.Equal(t, Key("do"), Key("through"))
		assert.NotEqual(t, Key("love"), Key("rove"))
	})

	t.Run("QU Before Silent E", func(t *testing.T) {
		assert.Equal(t, "I|t", Key("quite"))
		assert.Equal(t, Key("night"), Key("quite"))
		assert.Equal(t, "O|t", Key("quote"))
		assert.Equal(t, "A|k", Key("quake"))
	})

	t.Run("Sounded Final E", func(t *testing.T) {
		assert.Equal(t, "E|", Key("maybe"))
		assert.Equal(t, Key("baby"), Key("maybe"))
	})

	t.Run("Case And Punctuation Are Ignored", func(t *testing.T) {
		assert.Equal(t, Key("heat"), Key("HEAT!"))
		assert.Equal(t, Key("street"), Key("\"Street,\""))
		assert.Equal(t, Key("cafe"), Key("café"))
	})

	t.Run("No Letters", func(t *testing.T) {
		assert.Empty(t, Key(""))
		assert.Empty(t, Key("1999"))
		assert.Empty(t, Key("..."))
	})

	t.Run("No Vowel Uses Spelling", func(t *testing.T) {
		assert.Equal(t, "hmm", Key("hmm"))
		assert.Equal(t, "shh", Key("Shh"))
	})
}

func TestKeyParts(t *testing.T) {
	assert.Equal(t, "E", Vowel("E|t"))
	assert.Equal(t, "t", Coda("E|t"))
	assert.Equal(t, "hmm", Vowel("hmm"))
	assert.Empty(t, Coda("hmm"))
}

func TestDistance(t *testing.T) {
	tt := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"m", "n", 1},
		{"kitten", "sitting", 3},
		{"lt", "lt", 0},
		{"ŋk", "nk", 1},
	}

	for _, tc := range tt {
		assert.Equal(t, tc.want, Distance(tc.a, tc.b), "%q -> %q", tc.a, tc.b)
		assert.Equal(t, tc.want, Distance(tc.b, tc.a), "%q -> %q", tc.b, tc.a)
	}
}
