package core

import (
	"path/filepath"
	"runtime"
	"time"
)

// Record carries the data of a single log event. It is built on the
// stack by the originating logger, handed to every sink in the
// effective list, and never retained past the fanout loop.
type Record struct {
	Time     time.Time
	Level    Level
	Category string
	Caller   CallerInfo
	Message  string

	gid int64
}

// ThreadID returns the id of the goroutine that produced the record.
// The id is computed on first use and cached, so patterns without a
// {thread} placeholder never pay for the lookup.
func (r *Record) ThreadID() int64 {
	if r.gid == 0 {
		r.gid = GoroutineID()
	}
	return r.gid
}

// CallerInfo contains information about the logging call site
type CallerInfo struct {
	File      string
	ShortFile string
	Line      int
	Function  string
	Defined   bool
}

// GetCaller retrieves caller information
func GetCaller(skip int) CallerInfo {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return CallerInfo{}
	}

	fn := runtime.FuncForPC(pc)
	var funcName string
	if fn != nil {
		funcName = fn.Name()
	}

	return CallerInfo{
		File:      file,
		ShortFile: filepath.Base(file),
		Line:      line,
		Function:  funcName,
		Defined:   true,
	}
}

// GoroutineID returns the id of the calling goroutine, parsed from the
// first line of the runtime stack header ("goroutine 123 [running]:").
// The runtime does not expose the id directly; the header parse is the
// portable way to get it.
func GoroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	// Skip "goroutine " and accumulate digits up to the next space.
	var id int64
	for _, c := range buf[len("goroutine "):n] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return id
}
