package lang

// Result carries the outcome of evaluating one node: a value, an error, or
// one of the control signals raised by RETURN, BREAK and CONTINUE.
type Result struct {
	Value       Value
	Err         *RuntimeError
	ReturnValue Value
	Returning   bool
	Breaking    bool
	Continuing  bool
}

func (r *Result) reset() {
	r.Value = None
	r.Err = nil
	r.ReturnValue = None
	r.Returning = false
	r.Breaking = false
	r.Continuing = false
}

// Register takes over the error and signals of sub and yields its value.
func (r *Result) Register(sub *Result) Value {
	r.Err = sub.Err
	r.ReturnValue = sub.ReturnValue
	r.Returning = sub.Returning
	r.Breaking = sub.Breaking
	r.Continuing = sub.Continuing
	return sub.Value
}

func (r *Result) Success(v Value) *Result {
	r.reset()
	r.Value = v
	return r
}

func (r *Result) SuccessReturn(v Value) *Result {
	r.reset()
	r.Returning = true
	r.ReturnValue = v
	return r
}

func (r *Result) SuccessBreak() *Result {
	r.reset()
	r.Breaking = true
	return r
}

func (r *Result) SuccessContinue() *Result {
	r.reset()
	r.Continuing = true
	return r
}

func (r *Result) Failure(err *RuntimeError) *Result {
	r.reset()
	r.Err = err
	return r
}

// ShouldStop reports whether evaluation of the enclosing node must not
// continue: an error occurred or a control signal is in flight.
func (r *Result) ShouldStop() bool {
	return r.Err != nil || r.Returning || r.Breaking || r.Continuing
}
