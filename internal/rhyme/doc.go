// Package rhyme detects rhyming words in song lyrics.
//
// # Tokenizing
//
// [Tokenize] splits raw lyrics into lines and each line into words. A line break is any of "\n", "\r\n" or "\r".
// Words are separated by every rune that is not a letter, a digit or an apostrophe, so "street," and "heat!" become
// "street" and "heat". Each [Word] keeps its original spelling for output and a normalized form (lower case, accents
// folded, apostrophes dropped) used for comparison.
//
// Section headers such as "[Chorus]" and blank lines stay in the [Text] as lines without words so that line indices
// always match the input.
//
// # Rhyme Keys
//
// [Key] reduces a word to the sound of its last vowel nucleus followed by its trailing consonants, rendered as
// "VOWEL|coda" (street -> "E|t", heat -> "E|t", time -> "I|m").
//
// The reduction is a letter-pattern heuristic, not a dictionary-backed phonetic transcription. It knows about silent
// final e ("time", "place"), common vowel digraphs ("ee", "ea", "ai", "oa", "oo", "ou", "igh"), final y, regular past
// tense endings and a short table of irregular words that are frequent in lyrics. It will be wrong for plenty of
// English words ("though" vs "through" vs "tough") and knows nothing about other languages beyond accent folding.
//
// # Grouping
//
// Words with equal keys rhyme. With [WithNearRhymes] two keys also rhyme when their vowels are equal and their codas
// are within the given Levenshtein distance ("time" and "mine"). That near-rhyme relation is not transitive, so
// groups are the connected components of it: if A rhymes with B and B with C, all three share a group even when A and
// C are too far apart on their own. Every [Group] is therefore symmetric and transitive by construction.
//
// By default only the last word of each line is compared ([ScopeLineEnd]), which is what a rhyme scheme is made of.
// [ScopeAllWords] compares every word and picks up internal rhymes.
//
// # Results
//
// [Analyzer.Analyze] never fails. Empty input and the lookup placeholder [Placeholder] produce an empty [Result].
// Output is deterministic: groups are ordered by the position of their first word and labeled A, B, C ... in that
// order; [Result.Scheme] gives the label of each line's final word.
//
// An [Analyzer] holds no mutable state and is safe for concurrent use.
package rhyme
