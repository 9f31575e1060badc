package network

// QueryError reports a failed contract query, categorized by what was requested
type QueryError struct {
	What string
	Err  error
}

func (e *QueryError) Error() string {
	return "failed to get " + e.What + ": " + e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// ExecuteError reports a failed execute message
type ExecuteError struct {
	Action string
	Err    error
}

func (e *ExecuteError) Error() string {
	return "failed to " + e.Action + ": " + e.Err.Error()
}

func (e *ExecuteError) Unwrap() error {
	return e.Err
}
