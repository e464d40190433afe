// Package segment implements stage 2 of the pipeline: splitting input text
// into an ordered list of typed segments, each either a minified/pruned JSON
// blob or whitespace-normalized prose.
//
// The bracket scan and the recursive pruning walk are a depth-tracked,
// string-literal-aware traversal: decode, recurse, drop every leaf that
// prunes to nothing, re-encode. Decoding and re-encoding go through an
// order-preserving node tree rather than map[string]any, because
// encoding/json's map marshaling sorts keys alphabetically and this stage
// must reproduce the source object's own key order.
package segment

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

var errUnexpectedToken = errors.New("segment: unexpected JSON token")

// Kind tags a Segment as either parsed JSON or normalized prose.
type Kind int

const (
	Prose Kind = iota
	JSON
)

// Segment is a tagged chunk of the input text.
type Segment struct {
	Kind    Kind
	Content string
}

// Split scans text left to right, emitting JSON segments for balanced
// {...} or [...] regions that parse as JSON (content replaced by the
// minified, pruned encoding), and PROSE segments — whitespace-normalized —
// for everything else. Consecutive prose chunks merge into one segment.
func Split(text string) []Segment {
	var segments []Segment
	var proseBuf strings.Builder

	flushProse := func() {
		if proseBuf.Len() == 0 {
			return
		}
		segments = append(segments, Segment{Kind: Prose, Content: normalizeProse(proseBuf.String())})
		proseBuf.Reset()
	}

	i := 0
	n := len(text)
	for i < n {
		c := text[i]
		if c == '{' || c == '[' {
			if end, ok := matchingCloser(text, i); ok {
				candidate := text[i : end+1]
				if doc, ok := parseOrdered(candidate); ok {
					flushProse()
					pruned, _ := prune(doc)
					segments = append(segments, Segment{Kind: JSON, Content: pruned.marshal()})
					i = end + 1
					continue
				}
			}
		}
		proseBuf.WriteByte(c)
		i++
	}
	flushProse()
	return segments
}

// matchingCloser finds the index of the closing brace/bracket matching the
// opener at text[start], tracking nesting depth while ignoring brace/bracket
// characters that occur inside JSON string literals.
func matchingCloser(text string, start int) (int, bool) {
	open := text[start]
	var close byte
	switch open {
	case '{':
		close = '}'
	case '[':
		close = ']'
	default:
		return 0, false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch {
		case c == '"':
			inString = true
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// nodeKind tags the shape held by a node.
type nodeKind int

const (
	kindNull nodeKind = iota
	kindBool
	kindNumber
	kindString
	kindArray
	kindObject
)

// node is an order-preserving JSON value: objects carry parallel keys/vals
// slices instead of a map, so re-marshaling reproduces the source's own key
// order instead of encoding/json's alphabetical map order.
type node struct {
	kind   nodeKind
	b      bool
	num    json.Number
	str    string
	arr    []node
	keys   []string
	vals   []node
}

// parseOrdered decodes candidate as a single JSON document, reporting ok
// false if it is not well-formed JSON or has trailing content after the
// first value.
func parseOrdered(candidate string) (node, bool) {
	dec := json.NewDecoder(strings.NewReader(candidate))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return node{}, false
	}
	// Reject trailing garbage after the value (e.g. "{}garbage").
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return node{}, false
	}
	return v, true
}

func decodeValue(dec *json.Decoder) (node, error) {
	tok, err := dec.Token()
	if err != nil {
		return node{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			n := node{kind: kindObject}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return node{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return node{}, errUnexpectedToken
				}
				val, err := decodeValue(dec)
				if err != nil {
					return node{}, err
				}
				n.keys = append(n.keys, key)
				n.vals = append(n.vals, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return node{}, err
			}
			return n, nil
		case '[':
			n := node{kind: kindArray}
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return node{}, err
				}
				n.arr = append(n.arr, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return node{}, err
			}
			return n, nil
		default:
			return node{}, errUnexpectedToken
		}
	case nil:
		return node{kind: kindNull}, nil
	case bool:
		return node{kind: kindBool, b: t}, nil
	case json.Number:
		return node{kind: kindNumber, num: t}, nil
	case string:
		return node{kind: kindString, str: t}, nil
	default:
		return node{}, errUnexpectedToken
	}
}

// prune recursively drops null, empty-string, whitespace-only-string,
// empty-array, and empty-object values. It returns the pruned node and
// whether the caller (array or object) should keep this entry at all;
// numeric zero and boolean false are always kept.
func prune(n node) (node, bool) {
	switch n.kind {
	case kindNull:
		return node{}, false
	case kindString:
		if strings.TrimSpace(n.str) == "" {
			return node{}, false
		}
		return n, true
	case kindArray:
		out := node{kind: kindArray}
		for _, item := range n.arr {
			if pv, keep := prune(item); keep {
				out.arr = append(out.arr, pv)
			}
		}
		if len(out.arr) == 0 {
			return node{}, false
		}
		return out, true
	case kindObject:
		out := node{kind: kindObject}
		for i, k := range n.keys {
			if pv, keep := prune(n.vals[i]); keep {
				out.keys = append(out.keys, k)
				out.vals = append(out.vals, pv)
			}
		}
		if len(out.keys) == 0 {
			return node{}, false
		}
		return out, true
	default:
		// numbers, booleans — kept verbatim, including 0 and false
		return n, true
	}
}

// marshal renders n as minified JSON text, preserving object key order
// exactly as decoded.
func (n node) marshal() string {
	var b bytes.Buffer
	n.writeTo(&b)
	return b.String()
}

func (n node) writeTo(b *bytes.Buffer) {
	switch n.kind {
	case kindNull:
		b.WriteString("null")
	case kindBool:
		if n.b {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case kindNumber:
		b.WriteString(n.num.String())
	case kindString:
		raw, _ := json.Marshal(n.str)
		b.Write(raw)
	case kindArray:
		b.WriteByte('[')
		for i, item := range n.arr {
			if i > 0 {
				b.WriteByte(',')
			}
			item.writeTo(b)
		}
		b.WriteByte(']')
	case kindObject:
		b.WriteByte('{')
		for i, k := range n.keys {
			if i > 0 {
				b.WriteByte(',')
			}
			raw, _ := json.Marshal(k)
			b.Write(raw)
			b.WriteByte(':')
			n.vals[i].writeTo(b)
		}
		b.WriteByte('}')
	}
}

// normalizeProse replaces tabs with a single space, collapses runs of 2+
// interior spaces to one, and collapses runs of 3+ consecutive newlines to
// exactly two.
func normalizeProse(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	s = collapseSpaces(s)
	s = collapseNewlines(s)
	return s
}

func collapseSpaces(s string) string {
	var b strings.Builder
	run := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			run++
			if run <= 1 {
				b.WriteByte(' ')
			}
			continue
		}
		run = 0
		b.WriteByte(s[i])
	}
	return b.String()
}

func collapseNewlines(s string) string {
	var b strings.Builder
	run := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			run++
			continue
		}
		if run > 0 {
			if run >= 3 {
				b.WriteString("\n\n")
			} else {
				b.WriteString(strings.Repeat("\n", run))
			}
			run = 0
		}
		b.WriteByte(s[i])
	}
	if run > 0 {
		if run >= 3 {
			b.WriteString("\n\n")
		} else {
			b.WriteString(strings.Repeat("\n", run))
		}
	}
	return b.String()
}
