package asm

import (
	"regexp"
	"strconv"
	"strings"
)

// ParseNumber resolves a single word to an integer literal: plain or
// negative decimal, `$`-prefixed hex, `%`-prefixed binary, or a
// double-quoted string packed little-endian into one integer (one
// byte per character). ok is false when word is none of these forms
// and should instead be resolved as a symbolic reference.
func ParseNumber(word string) (value int64, ok bool, err error) {
	switch {
	case isDecimal(word):
		v, perr := strconv.ParseInt(word, 10, 64)
		if perr != nil {
			return 0, true, ErrParseNumber(word)
		}
		return v, true, nil

	case strings.HasPrefix(word, "$"):
		v, perr := strconv.ParseUint(word[1:], 16, 64)
		if perr != nil {
			return 0, true, ErrParseNumber(word)
		}
		return int64(v), true, nil

	case strings.HasPrefix(word, "%"):
		v, perr := strconv.ParseUint(word[1:], 2, 64)
		if perr != nil {
			return 0, true, ErrParseNumber(word)
		}
		return int64(v), true, nil

	case len(word) >= 2 && word[0] == '"' && word[len(word)-1] == '"':
		s := unescape(word[1 : len(word)-1])
		var v int64
		for i := 0; i < len(s) && i < 8; i++ {
			v |= int64(s[i]) << uint(i*8)
		}
		return v, true, nil
	}

	return 0, false, nil
}

var decimalRe = regexp.MustCompile(`^-?[0-9]+$`)

func isDecimal(word string) bool {
	return decimalRe.MatchString(word)
}

// unescape expands the small set of backslash escapes the dialect's
// string and character literals use.
func unescape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'e':
			b.WriteByte('\033')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Num2Bytes packs n into the dialect's native little-endian byte
// encoding. Values up to and including 255 emit as a single byte:
// values below 255 take the short path, and 255 takes the "large"
// branch below, whose loop body never runs for it. Anything from 256
// upward emits as many little-endian bytes as needed.
func Num2Bytes(n int64) []byte {
	if n < 255 {
		return []byte{byte(n & 0xff)}
	}
	var out []byte
	for n > 255 {
		out = append(out, byte(n&0xff))
		n >>= 8
	}
	out = append(out, byte(n))
	return out
}

// BytesToNum reassembles a little-endian byte sequence produced by
// Num2Bytes back into an integer.
func BytesToNum(b []byte) int64 {
	var n int64
	for i, v := range b {
		n |= int64(v) << uint(i*8)
	}
	return n
}

// expandCharLiterals rewrites 'x' and '\x' character literals inline
// in a source line into their decimal ASCII values, mirroring the
// dialect's escape set (\n \r \t \e \\).
func expandCharLiterals(line string) string {
	re := regexp.MustCompile(`'\\?[^']'`)
	return re.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return strconv.Itoa(int(str[0]))
	})
}
