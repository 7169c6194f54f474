package utils

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed caller input.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	return e.Msg
}

// NotFoundError reports that a referenced record does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// InvalidTransitionError reports a status change the booking lifecycle does not allow.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move booking from %s to %s", e.From, e.To)
}

// AuthorizationError reports that the caller's role does not permit the operation.
type AuthorizationError struct {
	Action string
	Role   string
}

func (e AuthorizationError) Error() string {
	return fmt.Sprintf("role %s is not allowed to %s", e.Role, e.Action)
}

// AuthenticationError reports missing, invalid or revoked credentials.
type AuthenticationError struct {
	Msg string
}

func (e AuthenticationError) Error() string {
	if e.Msg == "" {
		return "authentication required"
	}
	return e.Msg
}

// ConflictError reports a clash with existing state, such as a slot already held.
type ConflictError struct {
	Resource string
	Msg      string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
}

// NotificationDispatchError reports a failed notification insert. It is a warning:
// the status transition that triggered it has already been committed.
type NotificationDispatchError struct {
	BookingID string
	Err       error
}

func (e NotificationDispatchError) Error() string {
	return fmt.Sprintf("notification for booking %s was not saved: %v", e.BookingID, e.Err)
}

func (e NotificationDispatchError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsInvalidTransition(err error) bool {
	var target InvalidTransitionError
	return errors.As(err, &target)
}

func IsAuthorization(err error) bool {
	var target AuthorizationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsNotificationDispatch(err error) bool {
	var target NotificationDispatchError
	return errors.As(err, &target)
}

func IsAuthentication(err error) bool {
	var target AuthenticationError
	return errors.As(err, &target)
}
