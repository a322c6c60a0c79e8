package parser

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/tighterror/tighterror/internal/diag"
	"github.com/tighterror/tighterror/internal/source"
	"github.com/tighterror/tighterror/internal/spec"
)

// maxYAMLDepth bounds alias expansion.
const maxYAMLDepth = 64

var yamlLineRe = regexp.MustCompile(`^yaml: line (\d+):`)

func parseYAML(fset *source.FileSet, id source.FileID) (*spec.Spec, error) {
	f := fset.Get(id)
	var root yaml.Node
	if err := yaml.Unmarshal(f.Content, &root); err != nil {
		return nil, diag.Errorf(diag.BadYaml, yamlErrorSpan(f, err), "failed to deserialize YAML: %s", trimYAMLError(err))
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, diag.Errorf(diag.BadSpec, source.Span{File: id}, "specification document is empty")
	}
	l := yamlLowerer{file: f}
	doc, err := l.lower(root.Content[0], 0)
	if err != nil {
		return nil, err
	}
	var r reader
	return r.document(doc)
}

func yamlErrorSpan(f *source.File, err error) source.Span {
	m := yamlLineRe.FindStringSubmatch(err.Error())
	if m == nil {
		return source.Span{File: f.ID}
	}
	line, convErr := strconv.ParseUint(m[1], 10, 32)
	if convErr != nil {
		return source.Span{File: f.ID}
	}
	text := f.GetLine(uint32(line))
	return f.SpanAt(source.LineCol{Line: uint32(line), Col: 1}, len(text))
}

func trimYAMLError(err error) string {
	return strings.TrimPrefix(err.Error(), "yaml: ")
}

type yamlLowerer struct {
	file *source.File
}

// spanOf maps the 1-based rune position of n onto a byte span.
func (l *yamlLowerer) spanOf(n *yaml.Node, width int) source.Span {
	line, err := safeUint32(n.Line)
	if err != nil || line == 0 {
		return source.Span{File: l.file.ID}
	}
	text := l.file.GetLine(line)
	off := 0
	for col := 1; col < n.Column && off < len(text); col++ {
		_, size := utf8.DecodeRuneInString(text[off:])
		off += size
	}
	return l.file.SpanAt(source.LineCol{Line: line, Col: uint32(off + 1)}, width) // #nosec G115 -- off <= len(line)
}

func (l *yamlLowerer) scalarSpan(n *yaml.Node) source.Span {
	width := len(n.Value)
	switch n.Style {
	case yaml.DoubleQuotedStyle, yaml.SingleQuotedStyle:
		width += 2
	case yaml.LiteralStyle, yaml.FoldedStyle:
		width = 1
	}
	return l.spanOf(n, width)
}

func (l *yamlLowerer) lower(n *yaml.Node, depth int) (*node, error) {
	if depth > maxYAMLDepth {
		return nil, diag.Errorf(diag.BadYaml, l.spanOf(n, 1), "document nests too deeply")
	}
	switch n.Kind {
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, diag.Errorf(diag.BadYaml, l.spanOf(n, 1), "unresolved alias %s", n.Value)
		}
		out, err := l.lower(n.Alias, depth+1)
		if err != nil {
			return nil, err
		}
		alias := *out
		alias.span = l.spanOf(n, len(n.Value)+1)
		return &alias, nil
	case yaml.MappingNode:
		return l.mapping(n, depth)
	case yaml.SequenceNode:
		out := &node{kind: kindList, typ: "sequence", span: l.spanOf(n, 1)}
		for _, c := range n.Content {
			item, err := l.lower(c, depth+1)
			if err != nil {
				return nil, err
			}
			out.items = append(out.items, item)
			out.span = out.span.Cover(item.span)
		}
		return out, nil
	case yaml.ScalarNode:
		return l.scalar(n)
	}
	return &node{kind: kindOther, typ: "document", span: l.spanOf(n, 1)}, nil
}

func (l *yamlLowerer) mapping(n *yaml.Node, depth int) (*node, error) {
	out := &node{kind: kindMap, typ: "mapping", span: l.spanOf(n, 1)}
	seen := make(map[string]struct{}, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		keySpan := l.scalarSpan(k)
		if k.Kind != yaml.ScalarNode || k.ShortTag() != "!!str" {
			return nil, diag.Errorf(diag.BadKeywordType, keySpan, "mapping keys must be strings: got %s", yamlTypeName(k))
		}
		if _, dup := seen[k.Value]; dup {
			return nil, diag.Errorf(diag.BadSpec, keySpan, "duplicate key: %s", k.Value)
		}
		seen[k.Value] = struct{}{}
		value, err := l.lower(v, depth+1)
		if err != nil {
			return nil, err
		}
		out.entries = append(out.entries, entry{key: k.Value, keySpan: keySpan, value: value})
		out.span = out.span.Cover(keySpan).Cover(value.span)
	}
	return out, nil
}

func (l *yamlLowerer) scalar(n *yaml.Node) (*node, error) {
	out := &node{span: l.scalarSpan(n), typ: yamlTypeName(n)}
	switch n.ShortTag() {
	case "!!str":
		out.kind = kindString
		out.str = n.Value
	case "!!bool":
		out.kind = kindBool
		if err := n.Decode(&out.boolean); err != nil {
			var typeErr *yaml.TypeError
			if errors.As(err, &typeErr) {
				return nil, diag.Errorf(diag.BadValueType, out.span, "invalid bool: %s", n.Value)
			}
			return nil, diag.Errorf(diag.BadYaml, out.span, "%s", trimYAMLError(err))
		}
	default:
		out.kind = kindOther
	}
	return out, nil
}

func yamlTypeName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!str":
			return "string"
		case "!!bool":
			return "bool"
		case "!!int":
			return "integer"
		case "!!float":
			return "float"
		case "!!null":
			return "null"
		}
		return strings.TrimPrefix(n.ShortTag(), "!!")
	}
	return "document"
}
