package upstream

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_PreservesFieldOrder(t *testing.T) {
	v, err := Decode([]byte(`{"zeta":1,"alpha":2,"mid":3}`))
	require.NoError(t, err)

	obj, ok := v.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, obj.Keys())
}

func TestDecode_Types(t *testing.T) {
	v, err := Decode([]byte(`{"s":"text","n":12.5,"b":true,"nul":null,"arr":[1,2],"obj":{"inner":"x"}}`))
	require.NoError(t, err)

	obj, ok := v.(*Object)
	require.True(t, ok)
	assert.Equal(t, 6, obj.Len())

	s, _ := obj.Get("s")
	assert.Equal(t, "text", s)

	n, _ := obj.Get("n")
	assert.Equal(t, json.Number("12.5"), n)

	b, _ := obj.Get("b")
	assert.Equal(t, true, b)

	nul, _ := obj.Get("nul")
	assert.Nil(t, nul)

	arr, _ := obj.Get("arr")
	assert.Len(t, arr, 2)

	inner, _ := obj.Get("obj")
	innerObj, ok := inner.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"inner"}, innerObj.Keys())
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte(`{"broken":`))
	assert.Error(t, err)
}

func TestExtractArray(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected int
	}{
		{
			name:     "Top-level array",
			payload:  `[{"a":1},{"a":2}]`,
			expected: 2,
		},
		{
			name:     "Data field",
			payload:  `{"data":[{"a":1}]}`,
			expected: 1,
		},
		{
			name:     "Items field",
			payload:  `{"items":[{"a":1},{"a":2},{"a":3}]}`,
			expected: 3,
		},
		{
			name:     "First array-valued field in declared order",
			payload:  `{"meta":{"page":1},"leaders":[{"a":1},{"a":2}],"other":[{"a":3}]}`,
			expected: 2,
		},
		{
			name:     "Data takes precedence over earlier arrays",
			payload:  `{"rows":[{"a":1}],"data":[{"a":1},{"a":2}]}`,
			expected: 2,
		},
		{
			name:     "Non-array data falls through to field scan",
			payload:  `{"data":5,"rows":[{"a":1}]}`,
			expected: 1,
		},
		{
			name:     "No array anywhere",
			payload:  `{"count":5,"ok":true}`,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Decode([]byte(tt.payload))
			require.NoError(t, err)
			assert.Len(t, ExtractArray(v), tt.expected)
		})
	}
}

func TestExtractArray_Scalar(t *testing.T) {
	v, err := Decode([]byte(`"just a string"`))
	require.NoError(t, err)
	assert.Empty(t, ExtractArray(v))
}
