// Package trace provides the optional observer hook used by glyphpack
// codecs.
//
// There is no process-wide logger: a caller that wants visibility into
// encode/decode routing injects an Observer into its own Codec or Schema
// instance. Every other instance stays silent.
package trace

import "github.com/rs/zerolog"

// Observer receives codec events. Events carry a name and alternating
// key/value attribute pairs.
//
// Implementations must be safe for concurrent use; a single Codec may
// serve many goroutines.
type Observer interface {
	Event(name string, kv ...any)
}

type nopObserver struct{}

func (nopObserver) Event(string, ...any) {}

// Nop returns an Observer that discards every event. It is the default
// for codecs constructed without an observer option.
func Nop() Observer {
	return nopObserver{}
}

// Func adapts a plain function to the Observer interface.
type Func func(name string, kv ...any)

func (f Func) Event(name string, kv ...any) {
	f(name, kv...)
}

type zerologObserver struct {
	log zerolog.Logger
}

// Zerolog returns an Observer that emits each event as a debug-level
// zerolog record with the event name as the message and the attribute
// pairs as fields.
func Zerolog(log zerolog.Logger) Observer {
	return zerologObserver{log: log}
}

func (o zerologObserver) Event(name string, kv ...any) {
	ev := o.log.Debug()
	if !ev.Enabled() {
		return
	}

	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, kv[i+1])
	}
	ev.Msg(name)
}
