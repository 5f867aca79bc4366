package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateScenarioResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "structured exercises",
			body: `{"session_id":"s1","scenario":"text","exercises":[
				{"id":1,"title":"Transitions","guidelines":["a","b"]}]}`,
		},
		{
			name: "bare string exercises",
			body: `{"session_id":"s1","scenario":"text","exercises":["Write 3 sentences"]}`,
		},
		{
			name: "mixed exercises with formKey",
			body: `{"session_id":"s1","scenario":"text","formKey":"k",
				"exercises":["a",{"title":"B"}]}`,
		},
		{
			name:    "missing scenario",
			body:    `{"session_id":"s1","exercises":["a"]}`,
			wantErr: true,
		},
		{
			name:    "empty session id",
			body:    `{"session_id":"","scenario":"text","exercises":["a"]}`,
			wantErr: true,
		},
		{
			name:    "empty exercise list",
			body:    `{"session_id":"s1","scenario":"text","exercises":[]}`,
			wantErr: true,
		},
		{
			name:    "exercise object without title",
			body:    `{"session_id":"s1","scenario":"text","exercises":[{"id":1}]}`,
			wantErr: true,
		},
		{
			name:    "numeric exercise",
			body:    `{"session_id":"s1","scenario":"text","exercises":[7]}`,
			wantErr: true,
		},
		{
			name:    "not json at all",
			body:    `<html></html>`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateScenarioResponse([]byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				var invalid *InvalidResponseError
				require.ErrorAs(t, err, &invalid)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCompiledScenarioSchemaCached(t *testing.T) {
	first, err := compiledScenarioSchema()
	require.NoError(t, err)
	second, err := compiledScenarioSchema()
	require.NoError(t, err)
	require.Same(t, first, second)
}
