package commands

import (
	"errors"

	"relaybot/capture"
)

var (
	ErrAuthorizationDenied = errors.New("User is not allowed to change the relay channel")
	ErrInvalidChannel      = errors.New("Captured text is not a channel of the guild")
)

const (
	msgUnauthorized   = "Only administrators can change the translation channel."
	msgPromptSet      = "Please send channel ID where you want to enable auto-translation."
	msgPromptChange   = "Please send new channel ID where you want to enable auto-translation."
	msgTimeout        = "No channel ID received in time. Please run the command again."
	msgInvalidChannel = "Invalid channel ID. Please try again with a valid channel ID."
	msgStorageError   = "An error occurred while saving the channel ID. Please try again later."
	msgLookupError    = "An error occurred while checking your permissions. Please try again later."
	msgUpdated        = "Translation channel updated successfully!"
	msgPing           = "Your bot's ping is : %dms."
)

// IsUserError reports whether err is an outcome already explained to the
// user, as opposed to a fault worth reporting.
func IsUserError(err error) bool {
	return errors.Is(err, ErrAuthorizationDenied) ||
		errors.Is(err, ErrInvalidChannel) ||
		errors.Is(err, capture.ErrTimeout)
}
