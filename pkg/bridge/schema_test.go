package bridge

import (
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSchema(t *testing.T) {
	schema, err := BuildSchema([]FieldSpec{
		{Name: "flag", Token: TokenBoolean},
		{Name: "b", Token: TokenByte},
		{Name: "s", Token: TokenShort},
		{Name: "i", Token: TokenInteger},
		{Name: "l", Token: TokenLong},
		{Name: "f", Token: TokenFloat},
		{Name: "d", Token: TokenDouble},
		{Name: "text", Token: "String"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"flag", "b", "s", "i", "l", "f", "d", "text"}, schema.Names())
	assert.Equal(t, 8, schema.Len())
	want := []Kind{Boolean, Int8, Int16, Int32, Int64, Float32, Float64, Null}
	for i, k := range want {
		assert.Equal(t, k, schema.Kind(i), "field %d", i)
		assert.True(t, arrow.TypeEqual(k.DataType(), schema.Arrow().Field(i).Type))
	}
	assert.Equal(t, []string{"text"}, schema.Degraded())
	assert.True(t, schema.Arrow().Field(7).Nullable)
	assert.False(t, schema.Arrow().Field(0).Nullable)

	i, ok := schema.Lookup("l")
	assert.True(t, ok)
	assert.Equal(t, 4, i)
	_, ok = schema.Lookup("missing")
	assert.False(t, ok)
}

func TestBuildSchemaRejects(t *testing.T) {
	_, err := BuildSchema([]FieldSpec{{Name: "a", Token: TokenLong}, {Name: "a", Token: TokenByte}})
	assert.ErrorIs(t, err, ErrShape)

	_, err = BuildSchema([]FieldSpec{{Token: TokenLong}})
	assert.ErrorIs(t, err, ErrShape)
}

func TestTokenMapping(t *testing.T) {
	for k := Boolean; k <= Float64; k++ {
		got, ok := KindOfToken(k.Token())
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}
	k, ok := KindOfToken("Character")
	assert.False(t, ok)
	assert.Equal(t, Null, k)
	assert.Empty(t, Null.Token())
}

func TestKindOfType(t *testing.T) {
	tests := []struct {
		dt   arrow.DataType
		want Kind
		ok   bool
	}{
		{arrow.FixedWidthTypes.Boolean, Boolean, true},
		{arrow.PrimitiveTypes.Uint8, Int8, true},
		{arrow.PrimitiveTypes.Uint16, Int16, true},
		{arrow.PrimitiveTypes.Uint32, Int32, true},
		{arrow.PrimitiveTypes.Uint64, Int64, true},
		{arrow.PrimitiveTypes.Float32, Float32, true},
		{arrow.BinaryTypes.String, Null, false},
		{arrow.FixedWidthTypes.Date32, Null, false},
	}
	for _, test := range tests {
		got, ok := KindOfType(test.dt)
		assert.Equal(t, test.ok, ok, test.dt.String())
		assert.Equal(t, test.want, got, test.dt.String())
	}
}
