package scheduling

import "errors"

var (
	// ErrSlotUnavailable is returned when a requested time overlaps a booked interview.
	ErrSlotUnavailable = errors.New("requested time overlaps an existing interview")
	// ErrPastTime is returned when a requested time is not in the future.
	ErrPastTime = errors.New("requested time is in the past")
	// ErrInterviewClosed is returned when responding to a cancelled or completed interview.
	ErrInterviewClosed = errors.New("interview is no longer open for responses")
	// ErrUnknownResponse is returned for a response other than accept, decline or reschedule.
	ErrUnknownResponse = errors.New("unknown interview response")
)
