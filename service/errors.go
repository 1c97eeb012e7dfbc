package service

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// ErrorKind classifies a ledger failure for the caller
type ErrorKind string

const (
	KindNotAuthenticated    ErrorKind = "NotAuthenticated"
	KindNotFound            ErrorKind = "NotFound"
	KindValidation          ErrorKind = "ValidationError"
	KindInsufficientBalance ErrorKind = "InsufficientBalance"
	KindAlreadySettled      ErrorKind = "AlreadySettled"
	KindHasDependentBets    ErrorKind = "HasDependentBets"
	KindPersistence         ErrorKind = "PersistenceError"
)

// LedgerError is returned by every service operation that fails.
// Message is safe to show to the caller; Err is for logs only.
type LedgerError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *LedgerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

// Is matches any LedgerError of the same kind, so errors.Is(err, ErrNotFound) works.
func (e *LedgerError) Is(target error) bool {
	t, ok := target.(*LedgerError)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotAuthenticated    = &LedgerError{Kind: KindNotAuthenticated, Message: "not authenticated"}
	ErrNotFound            = &LedgerError{Kind: KindNotFound}
	ErrValidation          = &LedgerError{Kind: KindValidation}
	ErrInsufficientBalance = &LedgerError{Kind: KindInsufficientBalance}
	ErrAlreadySettled      = &LedgerError{Kind: KindAlreadySettled}
	ErrHasDependentBets    = &LedgerError{Kind: KindHasDependentBets}
	ErrPersistence         = &LedgerError{Kind: KindPersistence}
)

// KindOf returns the kind of a ledger error, or PersistenceError for anything else
func KindOf(err error) ErrorKind {
	var ledgerErr *LedgerError
	if errors.As(err, &ledgerErr) {
		return ledgerErr.Kind
	}
	return KindPersistence
}

// MessageOf returns the caller-facing message of err
func MessageOf(err error) string {
	var ledgerErr *LedgerError
	if errors.As(err, &ledgerErr) && ledgerErr.Message != "" {
		return ledgerErr.Message
	}
	return persistenceMessage
}

const persistenceMessage = "an internal error occurred, please try again"

func notFound(what string) error {
	return &LedgerError{Kind: KindNotFound, Message: what + " not found"}
}

func validationError(format string, args ...any) error {
	return &LedgerError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func insufficientBalance(format string, args ...any) error {
	return &LedgerError{Kind: KindInsufficientBalance, Message: fmt.Sprintf(format, args...)}
}

func alreadySettled() error {
	return &LedgerError{Kind: KindAlreadySettled, Message: "bet has already been settled"}
}

func hasDependentBets(count int) error {
	return &LedgerError{
		Kind:    KindHasDependentBets,
		Message: fmt.Sprintf("bankroll has %d bet(s) attached and cannot be deleted", count),
	}
}

// persistenceError logs a store failure and hides its text from the caller.
// Errors that are already ledger errors pass through unchanged.
func persistenceError(err error, operation string) error {
	var ledgerErr *LedgerError
	if errors.As(err, &ledgerErr) {
		return err
	}

	log.WithFields(log.Fields{
		"operation": operation,
		"error":     err,
	}).Error("Ledger store operation failed")

	return &LedgerError{
		Kind:    KindPersistence,
		Message: persistenceMessage,
		Err:     fmt.Errorf("failed to %s: %w", operation, err),
	}
}

func requireUser(userID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	return nil
}
