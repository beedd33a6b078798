// Package text provides text measurement helpers shared by the write-path
// validators. Lengths are counted in runes, not bytes, so multi-byte
// scripts and emoji count the same as ASCII.
package text

// CountRunes counts the number of Unicode characters (runes) in the given text.
//
// Examples:
//
//	CountRunes("hello")          // returns 5 (ASCII text)
//	CountRunes("こんにちは")       // returns 5 (Japanese text)
//	CountRunes("hello世界")       // returns 7 (mixed text)
//	CountRunes("Hello👋")         // returns 6 (text with emoji)
//	CountRunes("")               // returns 0 (empty string)
func CountRunes(text string) int {
	return len([]rune(text))
}

// Exceeds reports whether the text is longer than limit runes.
func Exceeds(text string, limit int) bool {
	return CountRunes(text) > limit
}
