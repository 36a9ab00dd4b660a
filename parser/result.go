package parser

// parseResult carries the outcome of one grammar rule. It counts the tokens
// consumed so that a failure raised after progress is not replaced by a
// vaguer failure from an enclosing rule.
type parseResult struct {
	node Node
	err  *Error

	advanceCount               int
	lastRegisteredAdvanceCount int
	toReverseCount             int
}

func (r *parseResult) registerAdvancement() {
	r.lastRegisteredAdvanceCount = 1
	r.advanceCount++
}

func (r *parseResult) register(sub *parseResult) Node {
	r.lastRegisteredAdvanceCount = sub.advanceCount
	r.advanceCount += sub.advanceCount
	if sub.err != nil {
		r.err = sub.err
	}
	return sub.node
}

// tryRegister registers sub only if it succeeded. On failure it records how
// many tokens the caller must rewind and returns nil.
func (r *parseResult) tryRegister(sub *parseResult) Node {
	if sub.err != nil {
		r.toReverseCount = sub.advanceCount
		return nil
	}
	return r.register(sub)
}

func (r *parseResult) success(node Node) *parseResult {
	r.node = node
	return r
}

// failure records err unless a more specific error is already present,
// i.e. one raised after tokens were consumed.
func (r *parseResult) failure(err *Error) *parseResult {
	if r.err == nil || r.lastRegisteredAdvanceCount == 0 {
		r.err = err
	}
	return r
}
