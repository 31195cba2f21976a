// Package keymap maps host keyboard keys to the 16 keys of the CHIP-8 keypad.
//
// The hexadecimal keypad is mapped to the left block of a QWERTY keyboard:
//
//	1 2 3 C        1 2 3 4
//	4 5 6 D   ->   Q W E R
//	7 8 9 E        A S D F
//	A 0 B F        Z X C V
//
// Y is accepted as an alternative for Z to support QWERTZ keyboards.
package keymap

import (
	"unicode"
)

var layout = map[rune]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
	'y': 0xA,
}

// Lookup returns the keypad key that the given keyboard character maps to.
func Lookup(ch rune) (uint8, bool) {
	key, ok := layout[unicode.ToLower(ch)]
	return key, ok
}

// Runes returns all keyboard characters that are mapped, in keypad row order.
func Runes() []rune {
	return []rune("1234qwerasdfzxcvy")
}

// Parse returns the keypad key for a name, which is either a single hexadecimal digit
// of the keypad or a mapped keyboard character prefixed by "key:".
func Parse(name string) (uint8, bool) {
	runes := []rune(name)
	switch {
	case len(runes) == 1:
		return parseHex(runes[0])
	case len(runes) == 5 && string(runes[:4]) == "key:":
		return Lookup(runes[4])
	default:
		return 0, false
	}
}

func parseHex(ch rune) (uint8, bool) {
	ch = unicode.ToLower(ch)
	switch {
	case ch >= '0' && ch <= '9':
		return uint8(ch - '0'), true
	case ch >= 'a' && ch <= 'f':
		return uint8(ch-'a') + 10, true
	default:
		return 0, false
	}
}
