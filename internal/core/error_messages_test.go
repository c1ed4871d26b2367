package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error returns empty", err: nil, wantCode: ""},
		{name: "wrapped sentinel", err: fmt.Errorf("reader: %w", ErrCardNotFound), wantCode: "CARD001"},
		{name: "invalid payload", err: fmt.Errorf("%w: unexpected EOF", ErrInvalidPayload), wantCode: "REQ001"},
		{name: "settings", err: errors.New("invalid settings: unexpected end of JSON input"), wantCode: "REQ003"},
		{name: "missing file", err: errors.New("open data.json: no such file or directory"), wantCode: "SRC001"},
		{name: "deadline", err: context.DeadlineExceeded, wantCode: "SRC004"},
		{name: "cancelled", err: context.Canceled, wantCode: "REQ005"},
		{name: "case insensitive", err: errors.New("Missing API Key"), wantCode: "AUTH001"},
		{name: "unknown error returns default", err: errors.New("some random internal error"), wantCode: "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrExportDisabled)
	want := "Export is turned off in the settings (Code: CARD002). Enable export in the card settings"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("nil error should not be user facing")
	}
	if !IsUserFacing(ErrCardNotFound) {
		t.Error("known error should be user facing")
	}
	if IsUserFacing(errors.New("random internal error xyz")) {
		t.Error("unknown error should not be user facing")
	}
}
