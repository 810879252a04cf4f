package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "plain",
			err:  New(ErrCodeInvalidViewport, "unknown viewport %q", "tablet"),
			want: `INVALID_VIEWPORT: unknown viewport "tablet"`,
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeFileNotFound, fs.ErrNotExist, "layout.json"),
			want: "FILE_NOT_FOUND: layout.json: file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeInvalidDocument, fs.ErrNotExist, "decode %s", "layout.json")

	if err.Message != "decode layout.json" {
		t.Errorf("Message = %q", err.Message)
	}
	if errors.Unwrap(err) != fs.ErrNotExist {
		t.Errorf("Unwrap() = %v", errors.Unwrap(err))
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is(err, fs.ErrNotExist) = false")
	}
}

func TestIsAndGetCode(t *testing.T) {
	script := Wrap(ErrCodeInvalidScript, New(ErrCodeInvalidDirection, "unknown handle %q", "up"), "step 3")

	tests := []struct {
		name string
		err  error
		code Code
		is   bool
		get  Code
	}{
		{"own code", New(ErrCodeInvalidConfig, "x"), ErrCodeInvalidConfig, true, ErrCodeInvalidConfig},
		{"other code", New(ErrCodeInvalidConfig, "x"), ErrCodeInvalidDocument, false, ErrCodeInvalidConfig},
		{"outermost code wins", script, ErrCodeInvalidScript, true, ErrCodeInvalidScript},
		{"inner code hidden", script, ErrCodeInvalidDirection, false, ErrCodeInvalidScript},
		{"fmt wrapped", fmt.Errorf("replay: %w", New(ErrCodeBlockNotFound, "hero")), ErrCodeBlockNotFound, true, ErrCodeBlockNotFound},
		{"plain error", errors.New("boom"), ErrCodeInternal, false, ""},
		{"nil", nil, ErrCodeInternal, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.is {
				t.Errorf("Is(%v) = %v, want %v", tt.code, got, tt.is)
			}
			if got := GetCode(tt.err); got != tt.get {
				t.Errorf("GetCode() = %q, want %q", got, tt.get)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"structured", New(ErrCodeInvalidInput, "block id is empty"), "block id is empty"},
		{"plain", errors.New("disk full"), "disk full"},
		{
			name: "chain drops codes",
			err:  Wrap(ErrCodeInvalidScript, New(ErrCodeInvalidDirection, "unknown handle"), "step 2"),
			want: "step 2: unknown handle",
		},
		{
			name: "foreign cause kept verbatim",
			err:  Wrap(ErrCodeInvalidConfig, errors.New("toml: line 3"), "blockcanvas.toml"),
			want: "blockcanvas.toml: toml: line 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
