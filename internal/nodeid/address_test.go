package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress_String(t *testing.T) {
	testCases := []struct {
		name        string
		addr        Address
		expectedStr string
	}{
		{name: "tool", addr: Tool(7), expectedStr: "tool[7]"},
		{name: "nested", addr: Tool(3).Nest(Tool(12)), expectedStr: "tool[12].tool[3]"},
		{name: "zero address", addr: Address{}, expectedStr: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStr, tc.addr.String())
		})
	}
}

func TestAddress_RoundTrip(t *testing.T) {
	for _, id := range []string{"tool[1]", "tool[12].tool[3]", "tool[4].tool[9].tool[100]"} {
		t.Run(id, func(t *testing.T) {
			addr, err := Parse(id)
			require.NoError(t, err)
			assert.Equal(t, id, addr.String())
		})
	}
}

func TestAddress_Nest(t *testing.T) {
	parent := Tool(12)
	child := Tool(3)

	nested := child.Nest(parent)
	assert.Equal(t, 1, nested.Depth())
	assert.Equal(t, 3, nested.Leaf())

	// Nesting must not alias either input.
	nested.Path[0].Index = 99
	assert.Equal(t, 12, parent.Path[0].Index)
	assert.Equal(t, 3, child.Path[0].Index)
}

func TestAddress_ZeroValue(t *testing.T) {
	var addr Address
	assert.True(t, addr.IsZero())
	assert.Equal(t, 0, addr.Depth())
	assert.Equal(t, -1, addr.Leaf())
	assert.True(t, addr.Equal(Address{}))
}
