package asm

import "fmt"

// Token is a named region of RAM: a function's instruction bytes or a
// data declaration's initializer bytes. Auto-created symbols are
// Tokens too, just with a single zero byte and a name nobody wrote.
type Token struct {
	Name    string
	Addr    int
	Content []byte
}

// String renders a short preview of the token's content, eliding past
// the first five bytes, for the -t dump diagnostic.
func (t *Token) String() string {
	n := len(t.Content)
	if n > 5 {
		n = 5
	}
	s := fmt.Sprintf("%s@%03x %v", t.Name, t.Addr, t.Content[:n])
	if len(t.Content) > 5 {
		s += "..."
	}
	return s
}
