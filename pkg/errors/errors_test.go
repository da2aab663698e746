package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thumblens/thumblens/pkg/errors"
)

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal", errors.CodeInternal, "unexpected failure"},
		{"not found", errors.CodeNotFound, "thumbnail 42 not found"},
		{"invalid param", errors.CodeInvalidParam, "k must be between 2 and 10"},
		{"transport", errors.CodeTransport, "connection refused"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)
			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
		})
	}
}

func TestError_Format(t *testing.T) {
	ae := errors.New(errors.CodeInvalidParam, "feature is required")
	assert.Equal(t, "[COMMON_002] feature is required", ae.Error())

	withDetail := ae.WithDetail("view=compare")
	assert.Equal(t, "[COMMON_002] feature is required: view=compare", withDetail.Error())

	withCause := errors.Wrap(fmt.Errorf("dial tcp: refused"), errors.CodeTransport, "fetch overview")
	assert.Equal(t, "[API_001] fetch overview: dial tcp: refused", withCause.Error())
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "x"))
}

func TestWrap_PreservesCodeWhenUnknown(t *testing.T) {
	inner := errors.New(errors.CodeDecode, "bad json")
	outer := errors.Wrap(inner, errors.CodeUnknown, "load compare view")
	assert.Equal(t, errors.CodeDecode, outer.Code)
	assert.True(t, stderrors.Is(outer, inner))
}

func TestWrap_OverridesCodeWhenGiven(t *testing.T) {
	inner := errors.New(errors.CodeDecode, "bad json")
	outer := errors.Wrap(inner, errors.CodeTransport, "load")
	assert.Equal(t, errors.CodeTransport, outer.Code)
	assert.True(t, errors.IsCode(outer, errors.CodeDecode))
}

func TestWithDetail_DoesNotMutateReceiver(t *testing.T) {
	base := errors.NotFound("thumbnail not found")
	clone := base.WithDetail("id=7")
	assert.Empty(t, base.Detail)
	assert.Equal(t, "id=7", clone.Detail)
}

func TestWithDetail_NilSafe(t *testing.T) {
	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("x"))
}

func TestWrap_Unwraps(t *testing.T) {
	cause := fmt.Errorf("eof")
	ae := errors.Wrap(cause, errors.CodeDecode, "decode")
	assert.Same(t, cause, stderrors.Unwrap(ae))
}

func TestWrap_UnknownOnPlainErrorStaysUnknown(t *testing.T) {
	ae := errors.Wrap(fmt.Errorf("eof"), errors.CodeUnknown, "read")
	assert.Equal(t, errors.CodeUnknown, ae.Code)
}

func TestIsCode_ThroughStdWrapping(t *testing.T) {
	ae := errors.New(errors.CodeTransport, "refused")
	wrapped := fmt.Errorf("view compare: %w", ae)
	assert.True(t, errors.IsCode(wrapped, errors.CodeTransport))
	assert.False(t, errors.IsCode(wrapped, errors.CodeDecode))
	assert.False(t, errors.IsCode(nil, errors.CodeTransport))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(fmt.Errorf("plain")))
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(fmt.Errorf("x: %w", errors.NotFound("gone"))))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, errors.IsNotFound(errors.NotFound("gone")))
	assert.False(t, errors.IsNotFound(errors.Internal("boom")))
}

func TestStale(t *testing.T) {
	err := fmt.Errorf("evolution: %w", errors.ErrStale)
	assert.True(t, errors.IsStale(err))
	assert.True(t, stderrors.Is(err, errors.ErrStale))
	assert.False(t, errors.IsStale(errors.Internal("boom")))
}

func TestFactories_Codes(t *testing.T) {
	cause := fmt.Errorf("root")
	assert.Equal(t, errors.CodeInvalidParam, errors.InvalidParam("x").Code)
	assert.Equal(t, errors.CodeInvalidConfig, errors.InvalidConfig("x").Code)
	assert.Equal(t, errors.CodeTransport, errors.Transport("x", cause).Code)
	assert.Equal(t, errors.CodeDecode, errors.Decode("x", cause).Code)
	assert.Same(t, cause, errors.Decode("x", cause).Cause)
}
