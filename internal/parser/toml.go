package parser

import (
	"bytes"
	"errors"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tighterror/tighterror/internal/diag"
	"github.com/tighterror/tighterror/internal/source"
	"github.com/tighterror/tighterror/internal/spec"
)

func parseTOML(fset *source.FileSet, id source.FileID) (*spec.Spec, error) {
	f := fset.Get(id)
	var data map[string]any
	md, err := toml.Decode(string(f.Content), &data)
	if err != nil {
		return nil, diag.Errorf(diag.BadToml, tomlErrorSpan(f, err), "failed to deserialize TOML: %s", strings.TrimPrefix(err.Error(), "toml: "))
	}
	l := tomlLowerer{keys: md.Keys(), file: f}
	var r reader
	return r.document(l.table(nil, data, source.Span{File: f.ID}))
}

func tomlErrorSpan(f *source.File, err error) source.Span {
	var perr toml.ParseError
	if !errors.As(err, &perr) {
		return source.Span{File: f.ID}
	}
	pos := perr.Position
	if pos.Line > 0 && pos.Start == 0 && pos.Len == 0 {
		line, convErr := safeUint32(pos.Line)
		if convErr != nil {
			return source.Span{File: f.ID}
		}
		return f.SpanAt(source.LineCol{Line: line, Col: 1}, len(f.GetLine(line)))
	}
	start, err1 := safeUint32(pos.Start)
	n, err2 := safeUint32(pos.Len)
	if err1 != nil || err2 != nil {
		return source.Span{File: f.ID}
	}
	size := uint32(len(f.Content)) // #nosec G115 -- FileSet.Add bounds content size
	start = min(start, size)
	return source.Span{File: f.ID, Start: start, End: min(start+n, size)}
}

// tomlLowerer converts decoded TOML into nodes, restoring key order
// from the decoder metadata. The decoder reports no positions, so keys are
// located by scanning the source forward from their parent; a key that
// cannot be found gets a span covering its whole file.
type tomlLowerer struct {
	keys []toml.Key
	file *source.File
}

func (l *tomlLowerer) value(path []string, v any, at source.Span) *node {
	switch v := v.(type) {
	case map[string]any:
		return l.table(path, v, at)
	case []map[string]any:
		out := &node{kind: kindList, typ: "array", span: at}
		cursor, from := at, at.Start
		for _, t := range v {
			// each [[header]] opens the next element
			if sp, ok := l.find(from, path[len(path)-1]); ok {
				cursor, from = sp, l.nextLine(sp.End)
			}
			out.items = append(out.items, l.table(path, t, cursor))
		}
		return out
	case []any:
		out := &node{kind: kindList, typ: "array", span: at}
		for _, item := range v {
			out.items = append(out.items, l.value(path, item, at))
		}
		return out
	case string:
		return &node{kind: kindString, typ: "string", str: v, span: at}
	case bool:
		return &node{kind: kindBool, typ: "bool", boolean: v, span: at}
	case int64:
		return &node{kind: kindOther, typ: "integer", span: at}
	case float64:
		return &node{kind: kindOther, typ: "float", span: at}
	case time.Time:
		return &node{kind: kindOther, typ: "datetime", span: at}
	}
	return &node{kind: kindOther, span: at}
}

func (l *tomlLowerer) table(path []string, t map[string]any, at source.Span) *node {
	out := &node{kind: kindMap, typ: "table", span: at}
	for _, k := range l.order(path, t) {
		keySpan, ok := l.find(at.Start, k)
		if !ok {
			keySpan = l.whole()
		}
		out.entries = append(out.entries, entry{
			key:     k,
			keySpan: keySpan,
			value:   l.value(slices.Concat(path, []string{k}), t[k], keySpan),
		})
	}
	return out
}

func (l *tomlLowerer) whole() source.Span {
	return source.Span{File: l.file.ID, End: uint32(len(l.file.Content))} // #nosec G115 -- FileSet.Add bounds content size
}

func (l *tomlLowerer) nextLine(off uint32) uint32 {
	src := l.file.Content
	if i := bytes.IndexByte(src[min(int(off), len(src)):], '\n'); i >= 0 {
		return off + uint32(i) + 1 // #nosec G115 -- bounded by content size
	}
	return uint32(len(src)) // #nosec G115 -- FileSet.Add bounds content size
}

// find returns the span of key on the first line at or after offset from
// that assigns it or names it in a table header.
func (l *tomlLowerer) find(from uint32, key string) (source.Span, bool) {
	src := l.file.Content
	lineStart := 0
	if int(from) <= len(src) {
		lineStart = bytes.LastIndexByte(src[:from], '\n') + 1
	}
	for lineStart < len(src) {
		lineEnd := len(src)
		if i := bytes.IndexByte(src[lineStart:], '\n'); i >= 0 {
			lineEnd = lineStart + i
		}
		if col, ok := tomlKeyColumn(string(src[lineStart:lineEnd]), key); ok {
			start, err := safeUint32(lineStart + col)
			if err != nil {
				return source.Span{}, false
			}
			return source.Span{File: l.file.ID, Start: start, End: start + uint32(len(key))}, true // #nosec G115 -- key is part of src
		}
		lineStart = lineEnd + 1
	}
	return source.Span{}, false
}

// tomlKeyColumn reports where key sits in line when line is an assignment
// or a table header mentioning it as one of its dotted parts.
func tomlKeyColumn(line, key string) (int, bool) {
	code, _, _ := strings.Cut(line, "#")
	code = strings.TrimSpace(code)
	var keys string
	if strings.HasPrefix(code, "[") {
		keys = strings.Trim(code, "[] \t")
	} else {
		k, _, ok := strings.Cut(code, "=")
		if !ok {
			return 0, false
		}
		keys = k
	}
	for part := range strings.SplitSeq(keys, ".") {
		if strings.Trim(strings.TrimSpace(part), `"'`) == key {
			return max(strings.Index(line, key), 0), true
		}
	}
	return 0, false
}

// order returns the keys of t in document order. Keys the metadata does
// not know about (inline tables nested in arrays) follow in sorted order.
func (l *tomlLowerer) order(path []string, t map[string]any) []string {
	out := make([]string, 0, len(t))
	seen := make(map[string]struct{}, len(t))
	for _, key := range l.keys {
		if len(key) != len(path)+1 || !slices.Equal([]string(key[:len(path)]), path) {
			continue
		}
		k := key[len(path)]
		if _, ok := t[k]; !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	var rest []string
	for k := range t {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
