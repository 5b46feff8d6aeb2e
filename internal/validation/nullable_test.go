package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullable_Merge(t *testing.T) {
	stored := "old"

	tests := []struct {
		name string
		n    Nullable[string]
		want *string
	}{
		{"absent keeps stored", Nullable[string]{}, &stored},
		{"null clears", Null[string](), nil},
		{"value replaces", Some("new"), Some("new").Ptr()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.n.Merge(&stored))
		})
	}
}

func TestNullable_JSON(t *testing.T) {
	var n Nullable[int]
	require.NoError(t, json.Unmarshal([]byte(`null`), &n))
	assert.True(t, n.Cleared())

	require.NoError(t, json.Unmarshal([]byte(`7`), &n))
	assert.False(t, n.Cleared())
	assert.Equal(t, 7, *n.Ptr())

	assert.Error(t, json.Unmarshal([]byte(`"x"`), &n))

	out, err := json.Marshal(struct {
		A Nullable[int] `json:"a"`
		B Nullable[int] `json:"b"`
	}{A: Some(3), B: Null[int]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":null}`, string(out))
}
