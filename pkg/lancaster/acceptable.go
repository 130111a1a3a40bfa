package lancaster

import "strings"

// Acceptable reports whether removing removeCount characters from word leaves a plausible
// stem: two characters for a vowel-initial word, otherwise three characters with a vowel in
// the second or third position.
func Acceptable(word string, removeCount int) bool {
	return acceptable([]rune(word), removeCount)
}

func acceptable(word []rune, removeCount int) bool {
	if len(word) == 0 {
		return false
	}
	remaining := len(word) - removeCount
	if isVowel(word[0]) {
		return remaining >= 2
	}
	// remaining >= 3 guarantees word[1] and word[2] exist.
	return remaining >= 3 && (isVowel(word[1]) || isVowel(word[2]))
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

// StripPrefix removes the first entry of Prefixes that word starts with. At most one prefix
// is removed.
func StripPrefix(word string) string {
	for _, prefix := range prefixes {
		if strings.HasPrefix(word, prefix) {
			return word[len(prefix):]
		}
	}
	return word
}
