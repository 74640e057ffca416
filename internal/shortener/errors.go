package shortener

import (
	"errors"
	"fmt"
)

// Kind classifies every outcome the services can fail with.
type Kind string

const (
	KindValidation          Kind = "VALIDATION"
	KindCodeTaken           Kind = "CODE_TAKEN"
	KindGenerationExhausted Kind = "GENERATION_EXHAUSTED"
	KindNotFound            Kind = "NOT_FOUND"
	KindExpired             Kind = "EXPIRED"
	KindStoreUnavailable    Kind = "STORE_UNAVAILABLE"
)

// Reason details why a validation failed.
type Reason string

const (
	ReasonEmpty     Reason = "EMPTY"
	ReasonTooLong   Reason = "TOO_LONG"
	ReasonBadScheme Reason = "BAD_SCHEME"
	ReasonMalformed Reason = "MALFORMED"
	ReasonBadChars  Reason = "BAD_CHARS"
)

var (
	ErrInvalidURL          = errors.New("invalid url")
	ErrInvalidCode         = errors.New("invalid custom code")
	ErrCodeTaken           = errors.New("short code already taken")
	ErrGenerationExhausted = errors.New("failed to generate unique short code")
	ErrNotFound            = errors.New("short url not found")
	ErrExpired             = errors.New("short url has expired")
	ErrStoreUnavailable    = errors.New("store unavailable")
)

// Error is the typed result returned by Shortener and Resolver.
// It matches its kind's sentinel with errors.Is and unwraps to the cause.
type Error struct {
	Kind    Kind
	Reason  Reason // set for KindValidation only
	Message string

	sentinel error
	cause    error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}

	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.sentinel}
	}

	return []error{e.sentinel, e.cause}
}

// KindOf returns the kind of err. Errors that did not come from this package
// are treated as store failures.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindStoreUnavailable
}

// ReasonOf returns the validation reason carried by err, if any.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}

	return ""
}

func invalidURL(reason Reason, msg string) *Error {
	return &Error{Kind: KindValidation, Reason: reason, Message: msg, sentinel: ErrInvalidURL}
}

func invalidCode(reason Reason, msg string) *Error {
	return &Error{Kind: KindValidation, Reason: reason, Message: msg, sentinel: ErrInvalidCode}
}

func codeTaken(code Code) *Error {
	return &Error{
		Kind:     KindCodeTaken,
		Message:  fmt.Sprintf("custom code %q is already taken", code),
		sentinel: ErrCodeTaken,
	}
}

func generationExhausted(attempts int) *Error {
	return &Error{
		Kind:     KindGenerationExhausted,
		Message:  fmt.Sprintf("failed to generate unique short code after %d attempts", attempts),
		sentinel: ErrGenerationExhausted,
	}
}

func notFound(code Code) *Error {
	return &Error{
		Kind:     KindNotFound,
		Message:  fmt.Sprintf("short url %q not found", code),
		sentinel: ErrNotFound,
	}
}

func expired(code Code) *Error {
	return &Error{
		Kind:     KindExpired,
		Message:  fmt.Sprintf("short url %q has expired", code),
		sentinel: ErrExpired,
	}
}

func storeUnavailable(op string, cause error) *Error {
	return &Error{
		Kind:     KindStoreUnavailable,
		Message:  op,
		sentinel: ErrStoreUnavailable,
		cause:    cause,
	}
}
