package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/rileyhilliard/socdash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONSuccess(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONSuccess(&buf, map[string]int{"alerts": 2}))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	assert.Equal(t, map[string]interface{}{"alerts": float64(2)}, env.Data)
}

func TestWriteJSONFromError(t *testing.T) {
	var buf bytes.Buffer
	err := errors.New(errors.ErrFetch, "Couldn't reach backend", "Start it")
	require.NoError(t, WriteJSONFromError(&buf, err))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeUnreachable, env.Error.Code)
	assert.Equal(t, "Couldn't reach backend", env.Error.Message)
	assert.Equal(t, "Start it", env.Error.Suggestion)
}

func TestErrorToJSON(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config not found", errors.WrapWithCode(os.ErrNotExist, errors.ErrConfig, "Config file not found", ""), ErrCodeConfigNotFound},
		{"config invalid", errors.New(errors.ErrConfig, "poll.stats too short", ""), ErrCodeConfigInvalid},
		{"fetch", errors.New(errors.ErrFetch, "x", ""), ErrCodeUnreachable},
		{"decode", errors.New(errors.ErrDecode, "x", ""), ErrCodeBadResponse},
		{"action", errors.New(errors.ErrAction, "x", ""), ErrCodeActionFailed},
		{"serve", errors.New(errors.ErrServe, "x", ""), ErrCodeUnknown},
		{"wrapped structured", fmt.Errorf("outer: %w", errors.New(errors.ErrDecode, "x", "")), ErrCodeBadResponse},
		{"plain", fmt.Errorf("plain"), ErrCodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorToJSON(tt.err).Code)
		})
	}
	assert.Nil(t, ErrorToJSON(nil))
}
