package sigward

import (
	"runtime"
	"strconv"
	"sync"
)

// Callsite records where a scope was opened. Enclosing open scopes are
// reachable through Parent, so a conflict report can name the whole stack of
// overrides that were in flight.
type Callsite struct {
	Frames []CallFrame
	Parent *Callsite
}

// CallFrame is one collected stack frame.
type CallFrame struct {
	Function string
	File     string
	Line     int
}

const maxCallsiteFrames = 8

var pcBufPool = sync.Pool{
	New: func() any {
		buf := make([]uintptr, 64)
		return &buf
	},
}

// captureCallsite collects up to maxCallsiteFrames frames above the caller,
// skipping skip additional frames.
func captureCallsite(parent *Callsite, skip uint) *Callsite {
	bufp := pcBufPool.Get().(*[]uintptr)
	defer pcBufPool.Put(bufp)

	// +2 skips runtime.Callers and this function
	n := runtime.Callers(int(skip)+2, *bufp)
	iter := runtime.CallersFrames((*bufp)[:n])

	var frames []CallFrame
	for len(frames) < maxCallsiteFrames {
		fr, more := iter.Next()
		frames = append(frames, CallFrame{Function: fr.Function, File: fr.File, Line: fr.Line})
		if !more {
			break
		}
	}
	return &Callsite{Frames: frames, Parent: parent}
}

func (c *Callsite) String() string {
	if c == nil {
		return "<unknown callsite>"
	}

	var buf []byte
	for site := c; site != nil; site = site.Parent {
		if site != c {
			buf = append(buf, "opened within:\n"...)
		}
		for _, f := range site.Frames {
			fn := f.Function
			if fn == "" {
				fn = "<unknown function>"
			}
			buf = append(buf, '\t')
			buf = append(buf, fn...)
			buf = append(buf, " ("...)
			buf = append(buf, f.File...)
			buf = append(buf, ':')
			buf = append(buf, strconv.Itoa(f.Line)...)
			buf = append(buf, ")\n"...)
		}
	}
	return string(buf)
}
