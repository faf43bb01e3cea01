package skt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_LoadContext(t *testing.T) {
	t.Run("valid object", func(t *testing.T) {
		ctx, err := LoadContext([]byte(`{"name": "Ada", "age": 30}`))
		require.NoError(t, err)

		v, ok := ctx.Resolve(Selector{KeyOf("name")})
		require.True(t, ok)
		require.Equal(t, "Ada", Stringify(v))
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := LoadContext([]byte(`{not json`))
		require.Error(t, err)
		var jsonErr *JSONError
		require.ErrorAs(t, err, &jsonErr)
	})

	t.Run("preserves canonical number form", func(t *testing.T) {
		ctx, err := LoadContext([]byte(`{"price": 19.50}`))
		require.NoError(t, err)

		v, ok := ctx.Resolve(Selector{KeyOf("price")})
		require.True(t, ok)
		require.Equal(t, "19.50", Stringify(v))
	})
}

func Test_Context_Resolve(t *testing.T) {
	ctx, err := LoadContext([]byte(`{"items": [{"name": "a"}, {"name": "b"}], "flag": true, "n": null}`))
	require.NoError(t, err)

	t.Run("array index", func(t *testing.T) {
		v, ok := ctx.Resolve(Selector{KeyOf("items"), IndexOf(1), KeyOf("name")})
		require.True(t, ok)
		require.Equal(t, "b", Stringify(v))
	})

	t.Run("missing key", func(t *testing.T) {
		_, ok := ctx.Resolve(Selector{KeyOf("missing")})
		require.False(t, ok)
	})

	t.Run("index out of range", func(t *testing.T) {
		_, ok := ctx.Resolve(Selector{KeyOf("items"), IndexOf(5)})
		require.False(t, ok)
	})

	t.Run("bool and null stringify", func(t *testing.T) {
		v, _ := ctx.Resolve(Selector{KeyOf("flag")})
		require.Equal(t, "true", Stringify(v))

		v, _ = ctx.Resolve(Selector{KeyOf("n")})
		require.Equal(t, "", Stringify(v))
	})
}

func Test_Stringify(t *testing.T) {
	require.Equal(t, "array", Stringify([]any{1, 2}))
	require.Equal(t, "object", Stringify(map[string]any{"a": 1}))
}

func Test_Context_Derive(t *testing.T) {
	ctx := WithValue(map[string]any{"title": "list"})

	derived := ctx.Derive("item", "widget", "idx", 2)
	v, ok := derived.Resolve(Selector{KeyOf("item")})
	require.True(t, ok)
	require.Equal(t, "widget", v)

	idx, ok := derived.Resolve(Selector{KeyOf("idx")})
	require.True(t, ok)
	require.Equal(t, "2", Stringify(idx))

	// original context is untouched
	_, ok = ctx.Resolve(Selector{KeyOf("item")})
	require.False(t, ok)

	t.Run("non-object root drops the binding", func(t *testing.T) {
		arr := WithValue([]any{1, 2, 3})
		derived := arr.Derive("item", "x", "", 0)
		require.Equal(t, arr.Value(), derived.Value())
	})
}
