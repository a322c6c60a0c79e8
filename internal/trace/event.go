package trace

import "time"

// Kind tells span boundaries apart from instant events.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{
	KindBegin:     "begin",
	KindEnd:       "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is how coarse an event is. A run contains stages, the plan
// stage contains one span per spec module.
type Scope uint8

const (
	ScopeRun Scope = iota + 1
	ScopeStage
	ScopeModule
)

var scopeNames = [...]string{
	ScopeRun:    "run",
	ScopeStage:  "stage",
	ScopeModule: "module",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one trace record.
type Event struct {
	Time   time.Time
	Seq    uint64
	Kind   Kind
	Scope  Scope
	Span   uint64 // 0 for points
	Parent uint64
	// Lane groups events that happen sequentially: module spans get a lane
	// of their own, everything else shares lane 1.
	Lane   uint64
	Name   string
	Detail string
	Attrs  map[string]string
}
