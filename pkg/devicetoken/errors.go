package devicetoken

import "errors"

var (
	// ErrRecipientRequired is returned when a registration omits the recipient id.
	ErrRecipientRequired = errors.New("devicetoken: recipient id is required")
	// ErrTokenRequired is returned when a registration omits the push token.
	ErrTokenRequired = errors.New("devicetoken: token is required")
	// ErrDeviceIDRequired is returned when a registration omits the device id.
	ErrDeviceIDRequired = errors.New("devicetoken: device id is required")
	// ErrInvalidDisableTarget is returned when a disable request selects
	// neither a token nor a recipient.
	ErrInvalidDisableTarget = errors.New("devicetoken: disable target must specify a token or a recipient")
)
