package events

// ansiKeycodes maps characters to their key codes on the ANSI US layout.
var ansiKeycodes = map[rune]int{
	'a': 0, 'b': 11, 'c': 8, 'd': 2, 'e': 14, 'f': 3, 'g': 5, 'h': 4,
	'i': 34, 'j': 38, 'k': 40, 'l': 37, 'm': 46, 'n': 45, 'o': 31,
	'p': 35, 'q': 12, 'r': 15, 's': 1, 't': 17, 'u': 32, 'v': 9,
	'w': 13, 'x': 7, 'y': 16, 'z': 6,

	'0': 29, '1': 18, '2': 19, '3': 20, '4': 21, '5': 23,
	'6': 22, '7': 26, '8': 28, '9': 25,

	'-': 27, '=': 24, '[': 33, ']': 30, '\\': 42, ';': 41,
	'\'': 39, ',': 43, '.': 47, '/': 44, '`': 50,

	' ':  49,
	'\t': 48,
	'\n': 36,
	'\r': 36,
}

// KeycodeForChar returns the ANSI US key code for a character. Letters are
// case-insensitive (shifted characters share the code of their base key).
func KeycodeForChar(ch rune) (int, bool) {
	if ch >= 'A' && ch <= 'Z' {
		ch += 'a' - 'A'
	}
	code, ok := ansiKeycodes[ch]
	return code, ok
}

// KeycodesForString maps every character of s to its key code, collapsing
// duplicates and preserving first-seen order. Characters with no mapping
// are returned separately so callers can report them.
func KeycodesForString(s string) (codes []int, unmapped []rune) {
	seen := make(map[int]struct{})
	for _, ch := range s {
		code, ok := KeycodeForChar(ch)
		if !ok {
			unmapped = append(unmapped, ch)
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes, unmapped
}
