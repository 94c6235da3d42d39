package engine

import (
	"time"

	"github.com/rosie-lang/rpl/encoder"
	"github.com/rosie-lang/rpl/runtime"
	"github.com/rosie-lang/rpl/source"
)

// MatchOutcome is what a successful Match call hands back, per spec.md
// section 6.1's match row (`{data, leftover, aborted, ttotal, tmatch}`)
// plus the Ok flag section 4.5's general contract also names. A plain
// dismatch (Ok false, Aborted false) is not an error — it comes back as
// an ordinary MatchOutcome with Ok false, the same "failure is data, not
// an exception" policy runtime.Run itself follows.
type MatchOutcome struct {
	Ok        bool
	Data      []byte
	Leftover  int
	Aborted   bool
	TimeMatch time.Duration
	TimeTotal time.Duration
}

// Match runs the compiled pattern behind matcherID against input
// starting at start, encoding the result with the named encoder.
func (e *Engine) Match(matcherID int, start int, encoderName string, input []byte) (MatchOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkOpen(); err != nil {
		return MatchOutcome{}, err
	}

	m, ok := e.matchers[matcherID]
	if !ok {
		return MatchOutcome{}, &EngineError{Kind: source.NoSuchPattern, Message: "no such matcher handle"}
	}
	enc, ok := encoder.Lookup(encoderName)
	if !ok {
		return MatchOutcome{}, &EngineError{Kind: source.NoSuchEncoder, Message: "no such encoder: " + encoderName}
	}

	cfg := runtime.DefaultRunConfig()
	cfg.AllocLimit = e.allocLimit

	tStart := time.Now()
	res, err := runtime.Run(m, input, start, cfg)
	tMatch := time.Since(tStart)
	if err != nil {
		return MatchOutcome{}, &EngineError{Kind: source.EngineCallFailed, Message: err.Error()}
	}

	data, err := enc(res, input)
	tTotal := time.Since(tStart)
	if err != nil {
		return MatchOutcome{}, &EngineError{Kind: source.EngineCallFailed, Message: err.Error()}
	}

	leftover := len(input) - start
	if res.Ok || res.Aborted {
		leftover = len(input) - res.End
	}

	return MatchOutcome{
		Ok:        res.Ok,
		Data:      data,
		Leftover:  leftover,
		Aborted:   res.Aborted,
		TimeMatch: tMatch,
		TimeTotal: tTotal,
	}, nil
}

// Trace runs the compiled pattern the same way Match does, but always
// returns a human-readable rendering rather than dispatching through the
// encoder registry — style selects "json" for a machine-readable trace
// or anything else (including "") for the default colored tree, since
// spec.md names no closed set of trace styles the way it does for
// encoders.
func (e *Engine) Trace(matcherID int, start int, style string, input []byte) (matched bool, trace string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cerr := e.checkOpen(); cerr != nil {
		return false, "", cerr
	}

	m, ok := e.matchers[matcherID]
	if !ok {
		return false, "", &EngineError{Kind: source.NoSuchPattern, Message: "no such matcher handle"}
	}

	cfg := runtime.DefaultRunConfig()
	cfg.AllocLimit = e.allocLimit
	res, rerr := runtime.Run(m, input, start, cfg)
	if rerr != nil {
		return false, "", &EngineError{Kind: source.EngineCallFailed, Message: rerr.Error()}
	}

	var data []byte
	if style == "json" {
		data, err = encoder.JSON(res, input)
	} else {
		data = []byte(encoder.Tree(res, input))
	}
	if err != nil {
		return false, "", &EngineError{Kind: source.EngineCallFailed, Message: err.Error()}
	}
	return res.Ok, string(data), nil
}
