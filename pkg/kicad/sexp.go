package kicad

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/sexp"
)

// node is a parsed list together with the string table of its file.
type node struct {
	items []sexp.Sexp
	strs  []string
}

// items returns the elements of a list form.
func items(s sexp.Sexp) []sexp.Sexp {
	if l, ok := s.(sexp.List); ok {
		return l
	}
	var out []sexp.Sexp
	for s != nil && !s.IsLeaf() && s.LeafCount() > 0 {
		h := s.Head()
		if h == nil {
			break
		}
		out = append(out, h)
		s = s.Tail()
	}
	return out
}

// leafText returns the source text of a leaf.
func leafText(s sexp.Sexp) string {
	if sym, ok := s.(sexp.Symbol); ok {
		return string(sym)
	}
	return fmt.Sprint(s)
}

func (n node) wrap(s sexp.Sexp) node {
	return node{items: items(s), strs: n.strs}
}

// head is the keyword of the form, e.g. "footprint" for (footprint ...).
func (n node) head() string {
	if len(n.items) == 0 || !n.items[0].IsLeaf() {
		return ""
	}
	return leafText(n.items[0])
}

// atom returns element i as text, resolving string references. ok is false
// when i is out of range or the element is a list.
func (n node) atom(i int) (string, bool) {
	if i < 0 || i >= len(n.items) || !n.items[i].IsLeaf() {
		return "", false
	}
	s := leafText(n.items[i])
	if ref, found := strings.CutPrefix(s, stringRef); found {
		if k, err := strconv.Atoi(ref); err == nil && k < len(n.strs) {
			return n.strs[k], true
		}
	}
	return s, true
}

func (n node) float(i int) (float64, error) {
	s, ok := n.atom(i)
	if !ok {
		return 0, fmt.Errorf("(%s): missing value %d", n.head(), i)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("(%s): invalid number %q", n.head(), s)
	}
	return f, nil
}

// children returns the list elements with the given keyword.
func (n node) children(key string) []node {
	var out []node
	for _, it := range n.items {
		if it.IsLeaf() {
			continue
		}
		c := n.wrap(it)
		if c.head() == key {
			out = append(out, c)
		}
	}
	return out
}

// child returns the first list element with the given keyword.
func (n node) child(key string) (node, bool) {
	for _, it := range n.items {
		if it.IsLeaf() {
			continue
		}
		if c := n.wrap(it); c.head() == key {
			return c, true
		}
	}
	return node{}, false
}

// point reads an (at x y [angle]) form.
func (n node) point() (x, y, angle float64, hasAngle bool, err error) {
	if x, err = n.float(1); err != nil {
		return
	}
	if y, err = n.float(2); err != nil {
		return
	}
	if a, ferr := n.float(3); ferr == nil {
		angle, hasAngle = a, true
	}
	return
}
