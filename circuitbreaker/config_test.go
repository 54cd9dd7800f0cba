package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name        string
		breakerName string
		opts        []Option
		wantField   string
	}{
		{
			name:        "empty name",
			breakerName: "",
			wantField:   "name",
		},
		{
			name:        "zero threshold",
			breakerName: "glp_api",
			opts:        []Option{WithFailureThreshold(0)},
			wantField:   "failureThreshold",
		},
		{
			name:        "negative threshold",
			breakerName: "glp_api",
			opts:        []Option{WithFailureThreshold(-1)},
			wantField:   "failureThreshold",
		},
		{
			name:        "zero recovery timeout",
			breakerName: "glp_api",
			opts:        []Option{WithRecoveryTimeout(0)},
			wantField:   "recoveryTimeout",
		},
		{
			name:        "negative recovery timeout",
			breakerName: "glp_api",
			opts:        []Option{WithRecoveryTimeout(-time.Second)},
			wantField:   "recoveryTimeout",
		},
		{
			name:        "nil clock",
			breakerName: "glp_api",
			opts:        []Option{WithClock(nil)},
			wantField:   "clock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.breakerName, tt.opts...)

			require.Error(t, err)
			assert.Nil(t, b)
			assert.True(t, IsValidationError(err))

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	b, err := New("glp_api")

	require.NoError(t, err)
	assert.Equal(t, "glp_api", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, 5, b.config.FailureThreshold)
	assert.Equal(t, 30*time.Second, b.config.RecoveryTimeout)
	assert.IsType(t, FixedRecovery{}, b.config.RecoverySchedule)
}

func TestMustNew_PanicsOnInvalidConfig(t *testing.T) {
	assert.Panics(t, func() {
		MustNew("glp_api", WithFailureThreshold(0))
	})
}

func TestMustNew_Success(t *testing.T) {
	assert.NotPanics(t, func() {
		b := MustNew("glp_api", WithFailureThreshold(3), WithRecoveryTimeout(time.Minute))
		assert.NotNil(t, b)
	})
}
