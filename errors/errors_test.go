package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapFormatsContext(t *testing.T) {
	base := stderrors.New("boom")
	err := Wrap(base, "Analyzer", "AnalyzeRoutes", "load session")

	require.Error(t, err)
	assert.Equal(t, "Analyzer.AnalyzeRoutes: load session failed: boom", err.Error())
	assert.True(t, stderrors.Is(err, base))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "c", "m", "a"))
	assert.NoError(t, WrapInvalid(nil, "c", "m", "a"))
	assert.NoError(t, WrapTransient(nil, "c", "m", "a"))
	assert.NoError(t, WrapFatal(nil, "c", "m", "a"))
}

func TestClassifiedWrappersPreserveChain(t *testing.T) {
	err := WrapInvalid(ErrUnknownAxis, "Registry", "Resolve", "lookup axis")

	var ce *ClassifiedError
	require.True(t, stderrors.As(err, &ce))
	assert.Equal(t, ErrorInvalid, ce.Class)
	assert.Equal(t, "Registry", ce.Component)
	assert.True(t, stderrors.Is(err, ErrUnknownAxis))
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"unknown axis is invalid", ErrUnknownAxis, ErrorInvalid},
		{"unknown gradient is invalid", ErrUnknownGradient, ErrorInvalid},
		{"missing config is fatal", ErrMissingConfig, ErrorFatal},
		{"connection timeout is transient", ErrConnectionTimeout, ErrorTransient},
		{"wrapped sentinel keeps class", fmt.Errorf("ctx: %w", ErrInvalidConfig), ErrorFatal},
		{"unknown error defaults transient", stderrors.New("mystery"), ErrorTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("load: %w", ErrSessionNotFound)))
	assert.True(t, IsNotFound(ErrRouteNotFound))
	assert.False(t, IsNotFound(ErrInvalidData))
	assert.False(t, IsNotFound(nil))
}

func TestErrorClassString(t *testing.T) {
	assert.Equal(t, "transient", ErrorTransient.String())
	assert.Equal(t, "invalid", ErrorInvalid.String())
	assert.Equal(t, "fatal", ErrorFatal.String())
	assert.Equal(t, "unknown", ErrorClass(99).String())
}
