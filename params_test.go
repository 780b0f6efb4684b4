package patrol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamsGet(t *testing.T) {
	params := make(Params, 0, 2)
	params = append(params,
		Param{
			Key:   "foo",
			Value: "bar",
		},
		Param{
			Key:   "john",
			Value: "doe",
		},
	)
	assert.Equal(t, "bar", params.Get("foo"))
	assert.Equal(t, "doe", params.Get("john"))
	assert.Empty(t, params.Get("jane"))
}

func TestParamsHas(t *testing.T) {
	t.Parallel()

	params := make(Params, 0, 2)
	params = append(params,
		Param{
			Key:   "foo",
			Value: "bar",
		},
		Param{
			Key:   "john",
			Value: "doe",
		},
	)

	assert.True(t, params.Has("foo"))
	assert.True(t, params.Has("john"))
	assert.False(t, params.Has("jane"))
}

func TestParamsMap(t *testing.T) {
	params := Params{
		{Key: "foo", Value: "bar"},
		{Key: "john", Value: "doe"},
	}
	assert.Equal(t, map[string]string{"foo": "bar", "john": "doe"}, params.Map())
	assert.Empty(t, Params(nil).Map())
}

func TestParamsClone(t *testing.T) {
	params := Params{
		{Key: "foo", Value: "bar"},
		{Key: "john", Value: "doe"},
	}
	cloned := params.Clone()
	assert.Equal(t, params, cloned)
	cloned[0].Value = "baz"
	assert.Equal(t, "bar", params.Get("foo"))
}
