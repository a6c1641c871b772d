package types

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestFindMatchesRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request FindMatchesRequest
		wantErr bool
	}{
		{name: "no threshold", request: FindMatchesRequest{}},
		{name: "lower bound", request: FindMatchesRequest{MinScore: ptr(1)}},
		{name: "upper bound", request: FindMatchesRequest{MinScore: ptr(100)}},
		{name: "below range", request: FindMatchesRequest{MinScore: ptr(0.5)}, wantErr: true},
		{name: "above range", request: FindMatchesRequest{MinScore: ptr(101)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "min_score")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewMatchesResponse_EmptyList(t *testing.T) {
	resp := NewMatchesResponse(uuid.New(), nil)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"matches":[]`)
	assert.Contains(t, string(data), `"count":0`)
}
