package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Format represents the output format for trace events.
type Format uint8

const (
	FormatAuto   Format = iota // pick by output file extension
	FormatText                 // human-readable text
	FormatNDJSON               // newline-delimited JSON
	FormatChrome               // chrome://tracing JSON array
)

// ParseFormat converts a string to Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson":
		return FormatNDJSON, nil
	case "chrome":
		return FormatChrome, nil
	default:
		return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson|chrome)", s)
	}
}

// FormatEvent formats an event according to the specified format.
func FormatEvent(ev *Event, format Format) []byte {
	switch format {
	case FormatNDJSON:
		return formatNDJSON(ev)
	case FormatChrome:
		return formatChrome(ev)
	default:
		return formatText(ev)
	}
}

type jsonEvent struct {
	Time   string            `json:"time"`
	Seq    uint64            `json:"seq"`
	Kind   string            `json:"kind"`
	Scope  string            `json:"scope"`
	Span   uint64            `json:"span,omitempty"`
	Parent uint64            `json:"parent,omitempty"`
	Lane   uint64            `json:"lane,omitempty"`
	Name   string            `json:"name"`
	Detail string            `json:"detail,omitempty"`
	Attrs  map[string]string `json:"attrs,omitempty"`
}

func formatNDJSON(ev *Event) []byte {
	data, _ := json.Marshal(jsonEvent{
		Time:   ev.Time.UTC().Format(time.RFC3339Nano),
		Seq:    ev.Seq,
		Kind:   ev.Kind.String(),
		Scope:  ev.Scope.String(),
		Span:   ev.Span,
		Parent: ev.Parent,
		Lane:   ev.Lane,
		Name:   ev.Name,
		Detail: ev.Detail,
		Attrs:  ev.Attrs,
	})
	return append(data, '\n')
}

// formatChrome renders one element of the Trace Event Format array.
// StreamTracer writes the brackets and commas around it.
func formatChrome(ev *Event) []byte {
	type chromeEvent struct {
		Name string            `json:"name"`
		Cat  string            `json:"cat"`
		Ph   string            `json:"ph"`
		Ts   int64             `json:"ts"`
		Pid  int               `json:"pid"`
		Tid  uint64            `json:"tid"`
		Args map[string]string `json:"args,omitempty"`
	}
	ph := "i"
	switch ev.Kind {
	case KindBegin:
		ph = "B"
	case KindEnd:
		ph = "E"
	}
	args := ev.Attrs
	if ev.Detail != "" {
		args = maps.Clone(args)
		if args == nil {
			args = make(map[string]string, 1)
		}
		args["detail"] = ev.Detail
	}
	data, _ := json.Marshal(chromeEvent{
		Name: ev.Name,
		Cat:  ev.Scope.String(),
		Ph:   ph,
		Ts:   ev.Time.UnixMicro(),
		Pid:  1,
		Tid:  ev.Lane,
		Args: args,
	})
	return data
}

var kindMarks = [...]string{
	KindBegin:     "\u2192", // →
	KindEnd:       "\u2190", // ←
	KindPoint:     "\u2022", // •
	KindHeartbeat: "\u2661", // ♡
}

// formatText renders one line: time, indentation by scope, a kind mark,
// the name, an optional (detail) and sorted key=value attributes.
//
//	12:00:00.000000     → plan
//	12:00:00.000300       ← build_module {module=io}
func formatText(ev *Event) []byte {
	b := make([]byte, 0, 64)
	b = ev.Time.AppendFormat(b, "15:04:05.000000")
	b = append(b, ' ')
	for range max(int(ev.Scope), 1) {
		b = append(b, ' ', ' ')
	}
	if int(ev.Kind) < len(kindMarks) && kindMarks[ev.Kind] != "" {
		b = append(b, kindMarks[ev.Kind]...)
		b = append(b, ' ')
	}
	b = append(b, ev.Name...)
	if ev.Detail != "" {
		b = append(b, " ("...)
		b = append(b, ev.Detail...)
		b = append(b, ')')
	}
	if len(ev.Attrs) > 0 {
		b = append(b, " {"...)
		for i, k := range slices.Sorted(maps.Keys(ev.Attrs)) {
			if i > 0 {
				b = append(b, ", "...)
			}
			b = append(b, k...)
			b = append(b, '=')
			b = append(b, ev.Attrs[k]...)
		}
		b = append(b, '}')
	}
	return append(b, '\n')
}
