package kicad

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokOpen tokenKind = iota
	tokClose
	tokAtom
	tokString
)

// token is a lexical element of a board file. start and end are byte
// offsets into the source; text is the atom or the decoded string.
type token struct {
	kind       tokenKind
	start, end int
	text       string
}

// span is a half-open byte range of the source.
type span struct {
	start, end int
}

// tokenize splits an S-expression source into tokens. Quoted strings may
// contain whitespace, parentheses and backslash escapes.
func tokenize(src []byte) ([]token, error) {
	var toks []token
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '(':
			toks = append(toks, token{kind: tokOpen, start: i, end: i + 1})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokClose, start: i, end: i + 1})
			i++
		case c == '"':
			text, n, err := readString(src[i:])
			if err != nil {
				return nil, fmt.Errorf("offset %d: %w", i, err)
			}
			toks = append(toks, token{kind: tokString, start: i, end: i + n, text: text})
			i += n
		default:
			j := i
			for j < len(src) && !strings.ContainsRune(" \t\r\n()\"", rune(src[j])) {
				j++
			}
			toks = append(toks, token{kind: tokAtom, start: i, end: j, text: string(src[i:j])})
			i = j
		}
	}
	return toks, nil
}

// readString decodes the quoted string at the start of src and returns it
// with the number of bytes consumed.
func readString(src []byte) (string, int, error) {
	var b strings.Builder
	for i := 1; i < len(src); i++ {
		switch c := src[i]; c {
		case '"':
			return b.String(), i + 1, nil
		case '\\':
			i++
			if i == len(src) {
				return "", 0, errUnterminated
			}
			switch src[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(src[i])
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, errUnterminated
}

var errUnterminated = errors.New("unterminated string")

// stringRef is the prefix of the atoms that stand in for quoted strings in
// the text handed to the S-expression parser.
const stringRef = "$s"

// structure rewrites the token stream as plain S-expression text in which
// every quoted string is replaced by a reference atom into strs.
func structure(toks []token) (text string, strs []string) {
	var b strings.Builder
	for i, t := range toks {
		if i > 0 && t.kind != tokClose && toks[i-1].kind != tokOpen {
			b.WriteByte(' ')
		}
		switch t.kind {
		case tokOpen:
			b.WriteByte('(')
		case tokClose:
			b.WriteByte(')')
		case tokAtom:
			b.WriteString(t.text)
		case tokString:
			b.WriteString(stringRef)
			b.WriteString(strconv.Itoa(len(strs)))
			strs = append(strs, t.text)
		}
	}
	return b.String(), strs
}

// footprintPlacements returns, for every footprint of the board in file
// order, the span of its own (at ...) form. Footprints without one get a
// zero span with start -1.
func footprintPlacements(toks []token) []span {
	var spans []span
	depth := 0
	inFootprint := false
	atStart := -1

	for i, t := range toks {
		switch t.kind {
		case tokOpen:
			depth++
			head := ""
			if i+1 < len(toks) && toks[i+1].kind == tokAtom {
				head = toks[i+1].text
			}
			switch {
			case depth == 2 && (head == "footprint" || head == "module"):
				inFootprint = true
				spans = append(spans, span{start: -1, end: -1})
			case depth == 3 && inFootprint && head == "at" && spans[len(spans)-1].start < 0:
				atStart = t.start
			}
		case tokClose:
			if depth == 3 && atStart >= 0 {
				spans[len(spans)-1] = span{start: atStart, end: t.end}
				atStart = -1
			}
			if depth == 2 {
				inFootprint = false
			}
			depth--
		}
	}
	return spans
}
