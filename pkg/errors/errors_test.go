// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and exit-code mapping

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/sims4tools/modinstall/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "unsupported_format",
			code:    errors.ErrUnsupportedFormat,
			message: "unrecognized container",
			wantStr: "[UNSUPPORTED_FORMAT] unrecognized container",
		},
		{
			name:    "unsafe_path",
			code:    errors.ErrUnsafePath,
			message: "entry escapes destination",
			wantStr: "[UNSAFE_PATH] entry escapes destination",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := errors.Wrap(cause, errors.ErrMarkerWriteFailed, "cannot write marker")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause with errors.Is")
	}
	if got := err.Error(); got != "[MARKER_WRITE_FAILED] cannot write marker: disk full" {
		t.Errorf("Error() = %q", got)
	}
	if errors.Wrap(nil, errors.ErrInternal, "x") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrUnsafePath, "bad entry").
		WithDetail("entry", "../../escape.package").
		WithDetail("archive", "evil.zip")

	details := errors.GetErrorDetails(err)
	if details["entry"] != "../../escape.package" {
		t.Errorf("detail entry = %v", details["entry"])
	}
	if details["archive"] != "evil.zip" {
		t.Errorf("detail archive = %v", details["archive"])
	}
}

func TestIsErrorCode(t *testing.T) {
	err := errors.Wrapf(stderrors.New("eof"), errors.ErrArchiveCorrupt, "bad zip %s", "a.zip")

	if !errors.IsErrorCode(err, errors.ErrArchiveCorrupt) {
		t.Error("expected ARCHIVE_CORRUPT code")
	}
	if errors.IsErrorCode(err, errors.ErrUnsafePath) {
		t.Error("unexpected UNSAFE_PATH match")
	}
	if errors.IsErrorCode(stderrors.New("plain"), errors.ErrArchiveCorrupt) {
		t.Error("plain error should not match any code")
	}
	if got := errors.GetErrorCode(stderrors.New("plain")); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode(plain) = %v, want UNKNOWN", got)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"unsupported_format", errors.New(errors.ErrUnsupportedFormat, "x"), 2},
		{"unsafe_path", errors.New(errors.ErrUnsafePath, "x"), 3},
		{"protected_mod_guard", errors.New(errors.ErrProtectedModGuard, "x"), 4},
		{"partial_install", errors.New(errors.ErrPartialInstall, "x"), 5},
		{"external_tool", errors.New(errors.ErrExternalToolUnavailable, "x"), 6},
		{"decision_required", errors.New(errors.ErrDecisionRequired, "x"), 7},
		{"generic", stderrors.New("boom"), 1},
		{"nothing_to_install", errors.New(errors.ErrNothingToInstall, "x"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
