package asm

import (
	"bufio"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/chbenoit/sbb/cpu"
)

// Image is the fully resolved output of an assembly run: the 4096
// byte RAM contents ready to load into a cpu.Cpu, plus the symbol
// table and per-line address table kept around for diagnostics.
type Image struct {
	Ram      [cpu.RamSize]byte
	Tokens   []*Token
	LineAddr []int // 0-based source line -> RAM address (a label line gets its function's address), -1 for blank, comment-only, or marker-only lines
}

// Assembler assembles one SBB source file into an Image. It is a
// two-pass assembler: Assemble first lays out every label and data
// declaration (resolving forward and backward references alike),
// then walks the source again to resolve every operand and emit
// bytes.
type Assembler struct {
	Verbose bool
}

type lineInfo struct {
	no     int // 1-based
	raw    string
	words  []string
	label  string
	marker string
	isData bool // data declaration (only meaningful before the first label)
}

var lineRefRe = regexp.MustCompile(`^[lL]([0-9]+)$`)

// Assemble reads a complete source file and produces its Image.
func (asm *Assembler) Assemble(r io.Reader) (*Image, error) {
	lines, err := asm.scan(r)
	if err != nil {
		return nil, err
	}

	img := &Image{LineAddr: make([]int, len(lines))}
	for i := range img.LineAddr {
		img.LineAddr[i] = -1
	}

	symbols := map[string]int{}
	markerLine := map[string]int{}

	dataCursor := cpu.RamSize - 1

	// Functions, in source order, including "start".
	type fn struct {
		name     string
		labelIdx int
		lines    []int // indices into lines, instruction lines only
	}
	var funcs []*fn
	var cur *fn
	sawLabel := false

	for i, ln := range lines {
		if ln.marker != "" {
			markerLine[ln.marker] = i
		}
		switch {
		case ln.label != "":
			sawLabel = true
			if _, dup := symbols[ln.label]; dup {
				return nil, ErrSyntax{LineNo: ln.no, Line: ln.raw, Err: ErrLabelDuplicate}
			}
			symbols[ln.label] = 0 // placeholder, resolved below
			cur = &fn{name: ln.label, labelIdx: i}
			funcs = append(funcs, cur)
		case ln.isData && !sawLabel:
			tok, cursorAssigned, err := parseDataLine(ln.words)
			if err != nil {
				return nil, ErrSyntax{LineNo: ln.no, Line: ln.raw, Err: err}
			}
			if cursorAssigned {
				addr := dataCursor - len(tok.Content) + 1
				dataCursor -= len(tok.Content)
				tok.Addr = addr
			}
			if tok.Name != "" {
				symbols[tok.Name] = tok.Addr
			}
			img.Tokens = append(img.Tokens, tok)
			img.LineAddr[i] = tok.Addr
			for k := range tok.Content {
				img.Ram[tok.Addr+k] = tok.Content[k]
			}
		case len(ln.words) > 0 && cur != nil:
			cur.lines = append(cur.lines, i)
		case len(ln.words) > 0:
			return nil, ErrSyntax{LineNo: ln.no, Line: ln.raw, Err: ErrOpcodeMissing}
		}
	}

	// Size and place every function.
	startSize := 0
	for _, fn := range funcs {
		size := 0
		for _, i := range fn.lines {
			op, ok := cpu.Lookup(lines[i].words[0])
			if !ok {
				return nil, ErrSyntax{LineNo: lines[i].no, Line: lines[i].raw, Err: ErrOpcodeInvalid}
			}
			size += op.Size()
		}
		if fn.name == "start" {
			startSize = size
			symbols["start"] = 0
			img.LineAddr[fn.labelIdx] = 0
			offset := 0
			for _, i := range fn.lines {
				img.LineAddr[i] = offset
				op, _ := cpu.Lookup(lines[i].words[0])
				offset += op.Size()
			}
			continue
		}
		addr := dataCursor - size + 1
		dataCursor -= size
		symbols[fn.name] = addr
		img.LineAddr[fn.labelIdx] = addr
		offset := addr
		for _, i := range fn.lines {
			img.LineAddr[i] = offset
			op, _ := cpu.Lookup(lines[i].words[0])
			offset += op.Size()
		}
	}

	if dataCursor+1 < startSize {
		return nil, ErrLayoutCollision
	}

	markers := map[string]int{}
	for name, i := range markerLine {
		if img.LineAddr[i] < 0 {
			return nil, ErrMarkerMissing(name)
		}
		markers[name] = img.LineAddr[i]
	}

	// Emission: resolve every instruction's operand and write bytes.
	// $(...) expressions are expanded here, not during the scan, since
	// they are seeded with the now-complete symbol table built by the
	// layout pass above.
	autoCursor := dataCursor
	resolveAddress := func(word string) (int, error) {
		word, err := expandExpressions(word, symbols)
		if err != nil {
			return 0, err
		}
		if v, ok, perr := ParseNumber(word); ok {
			if perr != nil {
				return 0, perr
			}
			return int(v), nil
		}
		if m := lineRefRe.FindStringSubmatch(word); m != nil {
			n, _ := strconv.Atoi(m[1])
			idx := n - 1
			if idx < 0 || idx >= len(img.LineAddr) || img.LineAddr[idx] < 0 {
				return 0, ErrLineMissing(n)
			}
			return img.LineAddr[idx], nil
		}
		if strings.HasPrefix(word, "&") {
			amps := 0
			for amps < len(word) && word[amps] == '&' {
				amps++
			}
			name := word[amps:]
			addr, ok := markers[name]
			if !ok {
				return 0, ErrMarkerMissing(name)
			}
			return addr + (amps - 1), nil
		}
		if addr, ok := symbols[word]; ok {
			return addr, nil
		}
		// Auto-create a zero-initialised variable just below the
		// lowest address used so far.
		addr := autoCursor
		autoCursor--
		symbols[word] = addr
		tok := &Token{Name: word, Addr: addr, Content: []byte{0}}
		img.Tokens = append(img.Tokens, tok)
		img.Ram[addr] = 0
		return addr, nil
	}

	// Immediate operands are numeric only, matching the original
	// assembler: no symbol, line, or pointer reference ever resolves
	// to an immediate byte, only a $(...) expression or a literal.
	resolveImmediate := func(word string) (int, error) {
		word, err := expandExpressions(word, symbols)
		if err != nil {
			return 0, err
		}
		v, ok, perr := ParseNumber(word)
		if perr != nil {
			return 0, perr
		}
		if !ok {
			return 0, ErrOperandRange
		}
		return int(v), nil
	}

	for _, fn := range funcs {
		for _, i := range fn.lines {
			ln := lines[i]
			op, _ := cpu.Lookup(ln.words[0])
			addr := img.LineAddr[i]

			var operand string
			if len(ln.words) > 1 {
				operand = strings.Join(ln.words[1:], " ")
			}

			switch op.Family() {
			case cpu.FamilyNullary:
				if len(ln.words) > 1 {
					return nil, ErrSyntax{LineNo: ln.no, Line: ln.raw, Err: ErrOperandExtra}
				}
				img.Ram[addr] = byte(op)

			case cpu.FamilyAddressed:
				if operand == "" {
					return nil, ErrSyntax{LineNo: ln.no, Line: ln.raw, Err: ErrOperandMissing}
				}
				v, err := resolveAddress(operand)
				if err != nil {
					return nil, ErrSyntax{LineNo: ln.no, Line: ln.raw, Err: err}
				}
				v &= 0xfff
				img.Ram[addr] = byte(op) | byte(v>>8)
				img.Ram[addr+1] = byte(v & 0xff)

			case cpu.FamilyImmediate:
				if operand == "" {
					return nil, ErrSyntax{LineNo: ln.no, Line: ln.raw, Err: ErrOperandMissing}
				}
				v, err := resolveImmediate(operand)
				if err != nil {
					return nil, ErrSyntax{LineNo: ln.no, Line: ln.raw, Err: err}
				}
				img.Ram[addr] = byte(op)
				img.Ram[addr+1] = byte(v & 0xff)
			}

			if asm.Verbose {
				log.Printf("asm: line %d addr=%03x %s", ln.no, addr, op)
			}
		}
	}

	return img, nil
}

// scan reads every source line, strips comments, expands character
// literals, extracts *name markers, and classifies each line as a
// label, a data declaration, or an instruction. $(...) expressions
// are expanded later, during emission, once the symbol table exists.
func (asm *Assembler) scan(r io.Reader) ([]lineInfo, error) {
	var lines []lineInfo
	seenLabel := false

	scanner := bufio.NewScanner(r)
	no := 0
	for scanner.Scan() {
		no++
		raw := scanner.Text()
		line := stripComment(raw)
		line = expandCharLiterals(line)

		words := splitWords(line)
		if len(words) == 0 {
			lines = append(lines, lineInfo{no: no, raw: raw})
			continue
		}

		li := lineInfo{no: no, raw: raw}
		if strings.HasPrefix(words[0], "*") && len(words[0]) > 1 {
			li.marker = words[0][1:]
			words = words[1:]
		}
		if len(words) == 0 {
			lines = append(lines, li)
			continue
		}

		if strings.HasSuffix(words[0], ":") {
			li.label = strings.TrimSuffix(words[0], ":")
			seenLabel = true
			lines = append(lines, li)
			continue
		}

		li.words = words
		li.isData = !seenLabel
		lines = append(lines, li)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// stripComment truncates line at the first '/' outside a quoted
// string.
func stripComment(line string) string {
	inStr := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inStr = !inStr
		case '/':
			if !inStr {
				return line[:i]
			}
		}
	}
	return line
}

// splitWords tokenizes on whitespace, keeping quoted segments intact.
func splitWords(line string) []string {
	var words []string
	var cur strings.Builder
	inStr := false
	for _, r := range line {
		switch {
		case r == '"':
			inStr = !inStr
			cur.WriteRune(r)
		case !inStr && (r == ' ' || r == '\t'):
			if cur.Len() > 0 {
				words = append(words, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		words = append(words, cur.String())
	}
	return words
}

// parseDataLine classifies one data-section line into one of the
// five declaration forms and resolves its content immediately - data
// initializers are always literal, never symbolic, so no deferred
// resolution is needed.
func parseDataLine(words []string) (tok *Token, cursorAssigned bool, err error) {
	if len(words) == 0 {
		return nil, false, ErrOpcodeMissing
	}

	v0, isNum0, perr := ParseNumber(words[0])
	if perr != nil {
		return nil, false, perr
	}

	if !isNum0 {
		// <name>  or  <name> = v1 v2 ...
		name := words[0]
		if len(words) == 1 {
			return &Token{Name: name, Content: []byte{0}}, true, nil
		}
		if words[1] != "=" {
			return nil, false, ErrOperandExtra
		}
		content, err := valuesToBytes(words[2:])
		if err != nil {
			return nil, false, err
		}
		return &Token{Name: name, Content: content}, true, nil
	}

	if len(words) == 1 {
		return nil, false, ErrOperandMissing
	}

	v1, isNum1, perr := ParseNumber(words[1])
	if perr != nil {
		return nil, false, perr
	}

	if isNum1 {
		if len(words) == 2 {
			// <addr> <literal>
			return &Token{Addr: int(v0), Content: Num2Bytes(v1)}, false, nil
		}
		// <addr1> <addr2> <name> [= v1 v2 ...]
		name := words[2]
		size := int(v1) - int(v0) + 1
		if size < 1 {
			return nil, false, ErrOperandRange
		}
		content := make([]byte, size)
		if len(words) > 3 {
			if words[3] != "=" {
				return nil, false, ErrOperandExtra
			}
			values := words[4:]
			for i, w := range values {
				if i >= size {
					break
				}
				v, _, verr := ParseNumber(w)
				if verr != nil {
					return nil, false, verr
				}
				content[i] = byte(v & 0xff)
			}
		}
		return &Token{Name: name, Addr: int(v0), Content: content}, false, nil
	}

	// <addr> <name> [= v1 v2 ...]
	name := words[1]
	if len(words) == 2 {
		return &Token{Name: name, Addr: int(v0), Content: []byte{0}}, false, nil
	}
	if words[2] != "=" {
		return nil, false, ErrOperandExtra
	}
	content, err := valuesToBytes(words[3:])
	if err != nil {
		return nil, false, err
	}
	return &Token{Name: name, Addr: int(v0), Content: content}, false, nil
}

func valuesToBytes(words []string) ([]byte, error) {
	var content []byte
	for _, w := range words {
		v, _, err := ParseNumber(w)
		if err != nil {
			return nil, err
		}
		content = append(content, Num2Bytes(v)...)
	}
	if len(content) == 0 {
		content = []byte{0}
	}
	return content, nil
}
