package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeRun, false},
		{LevelError, ScopeStage, true},
		{LevelError, ScopeModule, false},
		{LevelStage, ScopeStage, true},
		{LevelStage, ScopeModule, false},
		{LevelModule, ScopeModule, true},
		{LevelDebug, ScopeModule, true},
	}
	for _, tt := range tests {
		if got := tt.level.Allows(tt.scope); got != tt.want {
			t.Errorf("%s.Allows(%s) = %t, want %t", tt.level, tt.scope, got, tt.want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("ParseLevel accepted an unknown level")
	}
	if l, err := ParseLevel(" Module "); err != nil || l != LevelModule {
		t.Fatalf("ParseLevel(Module) = %s, %v", l, err)
	}
}

func names(evs []Event) string {
	var out []string
	for _, ev := range evs {
		out = append(out, ev.Name)
	}
	return strings.Join(out, ",")
}

func TestRingKeepsNewest(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(ctx, ScopeStage, name, "")
	}
	if got := names(r.Snapshot()); got != "c,d,e" {
		t.Fatalf("snapshot = %s", got)
	}
	if r.Dropped() != 2 {
		t.Fatalf("dropped = %d", r.Dropped())
	}
}

func TestBeginNestsThroughContext(t *testing.T) {
	r := NewRingTracer(16, LevelModule)
	ctx := WithTracer(context.Background(), r)

	runCtx, run := Begin(ctx, ScopeRun, "generate")
	if SpanID(runCtx) != run.ID() || SpanID(ctx) != 0 {
		t.Fatal("span not propagated")
	}
	_, mod := Begin(runCtx, ScopeModule, "build_module")
	mod.Attr("module", "io").End("")
	run.End("done")

	evs := r.Snapshot()
	if got := names(evs); got != "generate,build_module,build_module,generate" {
		t.Fatalf("events = %s", got)
	}
	if evs[1].Parent != evs[0].Span {
		t.Fatalf("module parent = %d, want %d", evs[1].Parent, evs[0].Span)
	}
	if evs[1].Lane == evs[0].Lane {
		t.Fatal("module span shares the run lane")
	}
	if evs[2].Attrs["module"] != "io" || evs[3].Kind != KindEnd || evs[3].Detail != "done" {
		t.Fatalf("end events = %+v / %+v", evs[2], evs[3])
	}

	// stage level drops module spans
	r = NewRingTracer(16, LevelStage)
	ctx = WithTracer(context.Background(), r)
	inner, span := Begin(ctx, ScopeModule, "build_module")
	span.Attr("k", "v").End("")
	if len(r.Snapshot()) != 0 || span.ID() != 0 || inner != ctx {
		t.Fatal("module span emitted at stage level")
	}
}

func TestNopContext(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("empty context must yield Nop")
	}
	_, span := Begin(context.Background(), ScopeRun, "x")
	if span.End("") != 0 {
		t.Fatal("disabled span measured time")
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	s := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	_, span := Begin(WithTracer(context.Background(), s), ScopeStage, "parse")
	span.Attr("spec", "x.yaml").End("")
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("ndjson: %v", err)
	}
	if ev.Kind != "end" || ev.Name != "parse" || ev.Scope != "stage" || ev.Attrs["spec"] != "x.yaml" {
		t.Fatalf("event = %+v", ev)
	}
}

func TestStreamChrome(t *testing.T) {
	for _, spans := range []int{0, 2} {
		var buf bytes.Buffer
		s := NewStreamTracer(&buf, LevelDebug, FormatChrome)
		ctx := WithTracer(context.Background(), s)
		for range spans {
			_, span := Begin(ctx, ScopeStage, "plan")
			span.End("")
		}
		if err := s.Close(); err != nil {
			t.Fatal(err)
		}
		var doc struct {
			TraceEvents []map[string]any `json:"traceEvents"`
		}
		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("chrome output is not JSON: %v\n%s", err, buf.String())
		}
		if len(doc.TraceEvents) != 2*spans {
			t.Fatalf("got %d chrome events, want %d", len(doc.TraceEvents), 2*spans)
		}
		if spans > 0 && (doc.TraceEvents[0]["ph"] != "B" || doc.TraceEvents[1]["ph"] != "E") {
			t.Fatalf("chrome events = %v", doc.TraceEvents)
		}
	}
}

func TestTextFormat(t *testing.T) {
	ev := &Event{Kind: KindPoint, Scope: ScopeStage, Name: "cache", Detail: "miss", Attrs: map[string]string{"b": "2", "a": "1"}}
	got := string(FormatEvent(ev, FormatText))
	if !strings.HasSuffix(got, "    • cache (miss) {a=1, b=2}\n") {
		t.Fatalf("text = %q", got)
	}
}

func TestNewRespectsMode(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelStage, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	ring := Ring(tr)
	if ring == nil {
		t.Fatal("both mode has no ring")
	}
	Point(WithTracer(context.Background(), tr), ScopeStage, "p", "")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	if len(ring.Snapshot()) != 1 || !strings.Contains(buf.String(), "p") {
		t.Fatalf("tee lost an event: ring=%d stream=%q", len(ring.Snapshot()), buf.String())
	}

	tr, err = New(Config{Level: LevelError, Mode: ModeStream, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if Ring(tr) == nil {
		t.Fatal("error level must keep a ring")
	}
	if tr, _ := New(Config{Level: LevelOff}); tr != Nop {
		t.Fatal("off level must yield Nop")
	}
}

func TestHeartbeat(t *testing.T) {
	r := NewRingTracer(64, LevelStage)
	stop := StartHeartbeat(WithTracer(context.Background(), r), time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(r.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	stop()
	stop()
	evs := r.Snapshot()
	if len(evs) == 0 || evs[0].Kind != KindHeartbeat || evs[0].Detail != "#1" {
		t.Fatalf("heartbeats = %+v", evs)
	}

	StartHeartbeat(context.Background(), time.Millisecond)()
}

func TestParseFormatAndMode(t *testing.T) {
	for in, want := range map[string]Format{"": FormatAuto, "text": FormatText, "NDJSON": FormatNDJSON, "chrome": FormatChrome} {
		if got, err := ParseFormat(in); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if FormatForPath("out.ndjson") != FormatNDJSON || FormatForPath("out.json") != FormatChrome || FormatForPath("-") != FormatText {
		t.Fatal("FormatForPath")
	}
	if m, err := ParseMode("Ring"); err != nil || m != ModeRing {
		t.Fatalf("ParseMode(Ring) = %v, %v", m, err)
	}
	if _, err := ParseMode(""); err == nil {
		t.Fatal("ParseMode accepted an empty mode")
	}
}
