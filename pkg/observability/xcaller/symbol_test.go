package xcaller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSymbol(t *testing.T) {
	const pkg = "github.com/omeyang/xdiag/pkg/a"
	tests := []struct {
		in   string
		want symbol
	}{
		{in: pkg + ".Func", want: symbol{pkg, "", "Func"}},
		{in: pkg + ".(*Reader).Read", want: symbol{pkg, "Reader", "Read"}},
		{in: pkg + ".Reader.Peek", want: symbol{pkg, "Reader", "Peek"}},
		{in: pkg + ".(*Reader).Read.func1", want: symbol{pkg, "Reader", "Read"}},
		{in: pkg + ".(*Reader).Read.func1.2", want: symbol{pkg, "Reader", "Read"}},
		{in: pkg + ".Func.func3", want: symbol{pkg, "", "Func"}},
		{in: pkg + ".Func.gowrap1", want: symbol{pkg, "", "Func"}},
		{in: pkg + ".init.0", want: symbol{pkg, "", "init"}},
		{in: pkg + ".glob..func1", want: symbol{pkg, "", ""}},
		{in: pkg + ".(*Buffer[...]).Len", want: symbol{pkg, "Buffer", "Len"}},
		{in: pkg + ".Buffer[...].Cap", want: symbol{pkg, "Buffer", "Cap"}},
		{in: pkg + ".Map[...]", want: symbol{pkg, "", "Map"}},
		{in: pkg + ".(*Reader).Read-fm", want: symbol{pkg, "Reader", "Read"}},
		{in: "main.main", want: symbol{"main", "", "main"}},
		{in: "gopkg.in/yaml%2ev3.Unmarshal", want: symbol{"gopkg.in/yaml.v3", "", "Unmarshal"}},
		{in: "net/http.(*conn).serve", want: symbol{"net/http", "conn", "serve"}},
		{in: "", want: symbol{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSymbol(tt.in))
		})
	}
}

func TestIsClosure(t *testing.T) {
	for _, s := range []string{"func1", "12", "gowrap2", "deferwrap1"} {
		assert.True(t, isClosure(s), s)
	}
	for _, s := range []string{"func", "Method", "", "funcA", "gowrap"} {
		assert.False(t, isClosure(s), s)
	}
}
