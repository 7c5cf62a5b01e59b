package scoring

import (
	"fmt"
	"net/http"
)

// connectionErrorMessage is the only text a ConnectionError ever shows.
const connectionErrorMessage = "connection error"

// ConnectionError is returned by FetchModels and FetchHistory for any transport
// failure, non-2xx status or undecodable body. Its message is always generic;
// the cause is reachable through Unwrap for logging.
type ConnectionError struct {
	Op    string
	cause error
}

func (e *ConnectionError) Error() string { return connectionErrorMessage }

func (e *ConnectionError) Unwrap() error { return e.cause }

// Cause returns the underlying failure for diagnostics.
func (e *ConnectionError) Cause() error { return e.cause }

func connectionError(op string, cause error) *ConnectionError {
	return &ConnectionError{Op: op, cause: cause}
}

// PredictionError is returned by PredictPlayer on a non-2xx status. Its message
// is the server-supplied detail when one could be parsed.
type PredictionError struct {
	StatusCode int
	Detail     string
}

func (e *PredictionError) Error() string { return e.Detail }

const genericPredictionMessage = "prediction failed"

func statusMessage(status int) string {
	return fmt.Sprintf("error %d: %s", status, http.StatusText(status))
}
