package panel

import (
	"errors"
	"fmt"
)

var (
	// ErrOwnershipViolation is returned when someone other than the owner
	// presses a panel button.
	ErrOwnershipViolation = errors.New("ownership violation")

	// ErrDeliveryFailure is returned when the archival report of a Reset
	// could not be sent. The day is not rolled over.
	ErrDeliveryFailure = errors.New("delivery failure")

	// ErrUnexpectedAdapter is returned for any other adapter failure.
	ErrUnexpectedAdapter = errors.New("unexpected adapter error")

	// ErrPermissionDenied is wrapped by adapters when the platform refused
	// an effect for lack of permissions.
	ErrPermissionDenied = errors.New("permission denied")
)

// Private notice texts.
const (
	NoticeNotYours     = "This panel isn’t yours. Use the in command to open your own."
	NoticePanelClosed  = "This panel is already closed. Use the in command to open a fresh one."
	noticeDeliveryPerm = "I couldn’t post your daily report because I’m missing permission to send messages in this channel. Please check my permissions, then tap Reset again. Nothing was lost."
	noticeDelivery     = "I couldn’t post your daily report (%s). Nothing was lost, tap Reset again to retry."
	noticeAdapter      = "Something went wrong while updating your panel (error: %s). Your times are saved."
)

// OwnershipError records who tried to press whose panel.
type OwnershipError struct {
	ActorID string
	OwnerID string
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("user %s cannot operate panel owned by %s", e.ActorID, e.OwnerID)
}

// Is lets errors.Is(err, ErrOwnershipViolation) match.
func (e *OwnershipError) Is(target error) bool {
	return target == ErrOwnershipViolation
}

// DeliveryError wraps a failed archival send.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to send archival report: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrDeliveryFailure) match.
func (e *DeliveryError) Is(target error) bool {
	return target == ErrDeliveryFailure
}

// Permission reports whether the send failed for lack of permissions.
func (e *DeliveryError) Permission() bool {
	return errors.Is(e.Err, ErrPermissionDenied)
}

// Notice is the private message shown to the user.
func (e *DeliveryError) Notice() string {
	if e.Permission() {
		return noticeDeliveryPerm
	}
	return fmt.Sprintf(noticeDelivery, e.Err)
}

// AdapterError wraps any other adapter failure. Category is the opaque label
// shown to the user; the wrapped error is only logged.
type AdapterError struct {
	Op       string
	Category string
	Err      error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrUnexpectedAdapter) match.
func (e *AdapterError) Is(target error) bool {
	return target == ErrUnexpectedAdapter
}

// Notice is the private message shown to the user.
func (e *AdapterError) Notice() string {
	return fmt.Sprintf(noticeAdapter, e.Category)
}

func newAdapterError(op string, err error) *AdapterError {
	category := "adapter_" + op
	if errors.Is(err, ErrPermissionDenied) {
		category = "permission_" + op
	}
	return &AdapterError{Op: op, Category: category, Err: err}
}
