package domain

import "errors"

// ErrInvalidSearchType marks a search type outside the closed enum. The
// HTTP and bot layers validate before dispatching, so reaching it means a
// caller bypassed parsing.
var ErrInvalidSearchType = errors.New("tipo de pesquisa desconhecido")

// BackendError wraps a remote store failure with the Portuguese message
// shown to end users. The cause never crosses the transport boundary.
type BackendError struct {
	Message string
	cause   error
}

func NewBackendError(message string, cause error) *BackendError {
	return &BackendError{Message: message, cause: cause}
}

func (e *BackendError) Error() string {
	if e.cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.cause.Error()
}

func (e *BackendError) Unwrap() error {
	return e.cause
}

// UserMessage extracts the user-facing text from an error chain.
func UserMessage(err error) string {
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return backendErr.Message
	}
	if errors.Is(err, ErrInvalidSearchType) {
		return ErrInvalidSearchType.Error()
	}
	return "Ocorreu um erro inesperado"
}
