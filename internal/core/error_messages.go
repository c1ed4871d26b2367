package core

// # Error Codes Reference
//
// The adapter and the view pipeline never fail; everything here concerns the
// edges of the system: payloads arriving from the host, cards requested by
// id, data sources, and the HTTP surface. When users report an error code,
// support can look it up below.
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Invalid payload: The data update could not be read
//	         Action: Send a JSON object with categories, measures and settings
//	         Patterns: "invalid payload"
//
//	REQ002 - Payload too large: The data update exceeds the size limit
//	         Action: Reduce the number of rows or columns sent per update
//	         Patterns: "request body too large"
//
//	REQ003 - Invalid settings: The settings object is not valid JSON
//	         Action: Check the serialized settings; defaults were used
//	         Patterns: "invalid settings"
//
//	REQ004 - Unsupported format: The payload format is not supported
//	         Action: Use JSON or YAML
//	         Patterns: "unsupported format"
//
//	REQ005 - Request cancelled: The request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
// # Card Errors (CARD001-CARD099)
//
//	CARD001 - Card not found: No card with this id in the current data
//	          Action: The data may have been refreshed. Go back to the list
//	          Patterns: "card not found"
//
//	CARD002 - Export disabled: Export is turned off in the settings
//	          Action: Enable export in the card settings
//	          Patterns: "export disabled"
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Source missing: The configured data file does not exist
//	         Action: Check the SOURCE_FILE path
//	         Patterns: "no such file"
//
//	SRC002 - Query failed: The source query could not be executed
//	         Action: Check the SOURCE_QUERY statement and column names
//	         Patterns: "query failed"
//
//	SRC003 - Connection refused: Unable to connect to the database
//	         Action: Please try again in a few moments
//	         Patterns: "connection refused"
//
//	SRC004 - Timeout: The operation timed out
//	         Action: Try again later
//	         Patterns: "timeout", "context deadline exceeded"
//
// # Access Errors (AUTH001-AUTH099, RATE001-RATE099)
//
//	AUTH001 - Missing API key      Patterns: "missing api key"
//	AUTH002 - Invalid API key      Patterns: "invalid api key"
//	RATE001 - Too many requests    Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the Service and the transport layers.
var (
	ErrCardNotFound    = errors.New("card not found")
	ErrExportDisabled  = errors.New("export disabled")
	ErrInvalidPayload  = errors.New("invalid payload")
	ErrUnsupportedType = errors.New("unsupported format")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Request errors
	{
		pattern: "invalid payload",
		msg: UserMessage{
			Message: "The data update could not be read",
			Action:  "Send a JSON object with categories, measures and settings",
			Code:    "REQ001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The data update exceeds the size limit",
			Action:  "Reduce the number of rows or columns sent per update",
			Code:    "REQ002",
		},
	},
	{
		pattern: "invalid settings",
		msg: UserMessage{
			Message: "The settings object is not valid JSON",
			Action:  "Check the serialized settings; defaults were used",
			Code:    "REQ003",
		},
	},
	{
		pattern: "unsupported format",
		msg: UserMessage{
			Message: "The payload format is not supported",
			Action:  "Use JSON or YAML",
			Code:    "REQ004",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The request was cancelled",
			Action:  "Please try again",
			Code:    "REQ005",
		},
	},

	// Card errors
	{
		pattern: "card not found",
		msg: UserMessage{
			Message: "No card with this id in the current data",
			Action:  "The data may have been refreshed. Go back to the list",
			Code:    "CARD001",
		},
	},
	{
		pattern: "export disabled",
		msg: UserMessage{
			Message: "Export is turned off in the settings",
			Action:  "Enable export in the card settings",
			Code:    "CARD002",
		},
	},

	// Source errors
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "The configured data file does not exist",
			Action:  "Check the SOURCE_FILE path",
			Code:    "SRC001",
		},
	},
	{
		pattern: "query failed",
		msg: UserMessage{
			Message: "The source query could not be executed",
			Action:  "Check the SOURCE_QUERY statement and column names",
			Code:    "SRC002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to the database",
			Action:  "Please try again in a few moments",
			Code:    "SRC003",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The operation timed out",
			Action:  "Try again later",
			Code:    "SRC004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The operation timed out",
			Action:  "Try again later",
			Code:    "SRC004",
		},
	},

	// Access errors
	{
		pattern: "missing api key",
		msg: UserMessage{
			Message: "An API key is required for this endpoint",
			Action:  "Send the key in the X-API-Key header",
			Code:    "AUTH001",
		},
	},
	{
		pattern: "invalid api key",
		msg: UserMessage{
			Message: "The API key is not valid",
			Action:  "Check the configured API keys",
			Code:    "AUTH002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// The first matching pattern wins; unknown errors map to ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
