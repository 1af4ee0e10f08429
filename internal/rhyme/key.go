package rhyme

import "strings"

const keySep = "|"

// irregular holds keys for frequent lyric words the letter rules get wrong.
var irregular = map[string]string{
	"are":     "a|r",
	"heart":   "a|rt",
	"were":    "e|r",
	"there":   "A|r",
	"where":   "A|r",
	"their":   "A|r",
	"theyre":  "A|r",
	"they":    "A|",
	"hey":     "A|",
	"grey":    "A|",
	"obey":    "A|",
	"maybe":   "E|",
	"door":    "O|r",
	"floor":   "O|r",
	"four":    "O|r",
	"pour":    "O|r",
	"your":    "O|r",
	"youre":   "O|r",
	"love":    "u|v",
	"above":   "u|v",
	"glove":   "u|v",
	"dove":    "u|v",
	"of":      "u|v",
	"come":    "u|m",
	"some":    "u|m",
	"become":  "u|m",
	"done":    "u|n",
	"none":    "u|n",
	"one":     "u|n",
	"won":     "u|n",
	"son":     "u|n",
	"gone":    "o|n",
	"have":    "a|v",
	"give":    "i|v",
	"live":    "i|v",
	"been":    "i|n",
	"said":    "e|d",
	"head":    "e|d",
	"dead":    "e|d",
	"bread":   "e|d",
	"says":    "e|s",
	"again":   "e|n",
	"do":      "U|",
	"to":      "U|",
	"too":     "U|",
	"who":     "U|",
	"two":     "U|",
	"through": "U|",
	"now":     "OW|",
	"how":     "OW|",
	"cow":     "OW|",
	"wow":     "OW|",
	"allow":   "OW|",
	"vow":     "OW|",
	"own":     "O|n",
	"known":   "O|n",
	"shown":   "O|n",
	"grown":   "O|n",
	"blown":   "O|n",
	"flown":   "O|n",
	"thrown":  "O|n",
}

// magicVowels maps the vowel of a silent-e word to its long sound.
var magicVowels = map[rune]string{
	'a': "A",
	'e': "E",
	'i': "I",
	'o': "O",
	'u': "U",
	'y': "I",
}

var codaReplacer = strings.NewReplacer(
	"tch", "ch",
	"ch", "ch",
	"ph", "f",
	"ck", "k",
	"c", "k",
	"q", "k",
	"x", "ks",
	"z", "s",
)

// Key returns the rhyme key of word, or "" when word has no letters.
//
// Words that share a key rhyme. Keys are "VOWEL|coda"; upper case vowels are long sounds ("E" in street),
// lower case ones short ("e" in felt). Words without any vowel use their normalized spelling as key.
func Key(word string) string {
	w := Normalize(word)
	if !hasLetter(w) {
		return ""
	}
	if k, ok := irregular[w]; ok {
		return k
	}
	if stem, ok := trimPastTense([]rune(w)); ok {
		return keyOf(stem) + "d"
	}
	return keyOf(w)
}

func keyOf(w string) string {
	if k, ok := irregular[w]; ok {
		return k
	}
	vowel, coda, ok := nucleus([]rune(w))
	if !ok {
		return w
	}
	return vowel + keySep + coda
}

// Vowel returns the vowel part of a key.
func Vowel(key string) string {
	v, _, _ := strings.Cut(key, keySep)
	return v
}

// Coda returns the consonant part of a key.
func Coda(key string) string {
	_, c, _ := strings.Cut(key, keySep)
	return c
}

// trimPastTense strips a regular "-ed" ending, restoring a silent e or undoing a doubled consonant.
// Endings after t or d are syllabic ("wanted") and left alone.
func trimPastTense(r []rune) (string, bool) {
	n := len(r)
	if n <= 4 || r[n-2] != 'e' || r[n-1] != 'd' {
		return "", false
	}
	last := r[n-3]
	if isPlainVowel(last) || last == 't' || last == 'd' {
		return "", false
	}

	stem := r[:n-2]
	if !hasVowelIn(stem) {
		return "", false
	}

	switch {
	case last == r[n-4]:
		stem = stem[:len(stem)-1]
	case last != 'w' && last != 'x' && last != 'y' && isPlainVowel(r[n-4]) && !isVowelAt(r, n-5):
		stem = append(append([]rune{}, stem...), 'e')
	}

	return string(stem), true
}

// nucleus splits r into the sound class of its last vowel group and the consonants after it.
func nucleus(r []rune) (string, string, bool) {
	magic := false
	if n := len(r); n >= 3 && r[n-1] == 'e' && !isVowelAt(r, n-2) && hasVowelIn(r[:n-2]) {
		magic = isVowelAt(r, n-3) && (n == 3 || !isVowelAt(r, n-4) || isQU(r, n-4))
		body := append([]rune{}, r[:n-1]...)
		switch last := len(body) - 1; {
		case last > 0 && body[last-1] == 'd' && body[last] == 'g':
			body = append(body[:last-1], 'j')
		case body[last] == 'g':
			body[last] = 'j'
		case body[last] == 'c':
			body[last] = 's'
		}
		r = body
	}

	i := len(r)
	for i > 0 && !isVowelAt(r, i-1) {
		i--
	}
	if i == 0 {
		return "", "", false
	}

	j := i
	for j > 0 && isVowelAt(r, j-1) {
		j--
	}
	if j > 0 && r[j-1] == 'q' && r[j] == 'u' && i-j > 1 {
		j++
	}

	group := string(r[j:i])
	coda := string(r[i:])
	silentGH := strings.HasPrefix(coda, "gh")
	if silentGH {
		coda = coda[2:]
	}

	var vowel string
	if magic {
		vowel = magicVowels[r[j]]
	} else {
		vowel = vowelClass(group, coda, silentGH, hasVowelIn(r[:j]))
	}

	return vowel, normalizeCoda(coda), true
}

// vowelClass maps a spelled vowel group to a sound class.
func vowelClass(group, coda string, silentGH, multi bool) string {
	switch group {
	case "a":
		if coda == "" {
			return "ah"
		}
		return "a"
	case "e":
		if coda == "" {
			return "E"
		}
		return "e"
	case "i":
		if silentGH || coda == "" {
			return "I"
		}
		return "i"
	case "o":
		if coda == "" {
			return "O"
		}
		return "o"
	case "u":
		if coda == "" {
			return "U"
		}
		return "u"
	case "y":
		if coda != "" {
			return "i"
		}
		if multi {
			return "E"
		}
		return "I"
	case "ee", "ea", "ey":
		return "E"
	case "ie":
		if coda == "" || coda == "s" || coda == "d" {
			return "I"
		}
		return "E"
	case "ye", "eye", "uy":
		return "I"
	case "ai", "ay", "ei", "aye":
		return "A"
	case "oa", "oe":
		return "O"
	case "ow":
		if coda == "" || coda == "s" {
			return "O"
		}
		return "OW"
	case "oo", "ew", "ue", "ui", "eu":
		return "U"
	case "ou":
		if silentGH {
			if coda == "t" {
				return "AW"
			}
			return "O"
		}
		if coda == "" {
			return "U"
		}
		return "OW"
	case "oi", "oy":
		return "OY"
	case "au", "aw":
		return "AW"
	}
	return group
}

func normalizeCoda(coda string) string {
	coda = codaReplacer.Replace(coda)

	var b strings.Builder
	var prev rune
	for _, r := range coda {
		if r == prev {
			continue
		}
		b.WriteRune(r)
		prev = r
	}

	out := b.String()
	if strings.HasSuffix(out, "mb") {
		out = out[:len(out)-1]
	}
	return out
}

func isPlainVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// isVowelAt reports whether r[i] is sounded as (part of) a vowel.
//
// y is a vowel anywhere but the start of a word; w only directly after a vowel ("ow", "aw", "ew").
func isVowelAt(r []rune, i int) bool {
	if i < 0 || i >= len(r) {
		return false
	}
	switch c := r[i]; {
	case isPlainVowel(c):
		return true
	case c == 'y':
		return i > 0
	case c == 'w':
		return i > 0 && isPlainVowel(r[i-1])
	}
	return false
}

// isQU reports whether r[i] is the u of "qu", sounded as a consonant.
func isQU(r []rune, i int) bool {
	return i > 0 && r[i] == 'u' && r[i-1] == 'q'
}

func hasVowelIn(r []rune) bool {
	for i := range r {
		if isVowelAt(r, i) {
			return true
		}
	}
	return false
}
