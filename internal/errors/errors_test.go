package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructuredError_Error(t *testing.T) {
	err := New(ErrCodeNotFound, "no such file")
	assert.Equal(t, "[NOT_FOUND] no such file", err.Error())

	wrapped := Wrap(ErrCodeToolFailed, "lsblk exited 1", fmt.Errorf("boom"))
	assert.Equal(t, "[TOOL_FAILED] lsblk exited 1: boom", wrapped.Error())
}

func TestHasCode_WalksChain(t *testing.T) {
	inner := New(ErrCodeToolUnavailable, "git not found")
	outer := Wrap(ErrCodeCollectionFailed, "git probe", fmt.Errorf("wrapped: %w", inner))

	assert.True(t, HasCode(outer, ErrCodeCollectionFailed))
	assert.True(t, HasCode(outer, ErrCodeToolUnavailable))
	assert.False(t, HasCode(outer, ErrCodeParseFailed))
	assert.False(t, HasCode(fmt.Errorf("plain"), ErrCodeParseFailed))
	assert.False(t, HasCode(nil, ErrCodeParseFailed))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeFatalIO, CodeOf(fmt.Errorf("x: %w", New(ErrCodeFatalIO, "disk full"))))
	assert.Equal(t, ErrorCode(""), CodeOf(fmt.Errorf("plain")))
}

func TestIsRoutine(t *testing.T) {
	assert.True(t, IsRoutine(New(ErrCodeToolUnavailable, "x")))
	assert.True(t, IsRoutine(New(ErrCodeNotFound, "x")))
	assert.False(t, IsRoutine(New(ErrCodeToolFailed, "x")))
	assert.False(t, IsRoutine(nil))
}

func TestReason(t *testing.T) {
	assert.Equal(t, "", Reason(nil))
	assert.Equal(t, "nvidia-smi failed", Reason(New(ErrCodeToolFailed, "nvidia-smi failed")))
	assert.Equal(t, "read: eof", Reason(Wrap(ErrCodeParseFailed, "read", fmt.Errorf("eof"))))
	assert.Equal(t, "plain", Reason(fmt.Errorf("plain")))
}
