package domain

import "errors"

var (
	// ErrDuplicateName indicates that a device with the same name is already registered.
	ErrDuplicateName = errors.New("device name already exists")

	// ErrNoDraft indicates that no device is being edited.
	ErrNoDraft = errors.New("no device draft in progress")

	// ErrDeviceIndex indicates that a device index is outside the registry.
	ErrDeviceIndex = errors.New("device index out of range")

	// ErrUnknownAction indicates an action type the frame does not understand.
	ErrUnknownAction = errors.New("unknown action")
)
