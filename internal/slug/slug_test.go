package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Ficção", "ficcao"},
		{"Autora X", "autora-x"},
		{"  Hello,  World! 2024  ", "hello-world-2024"},
		{"Crônicas de Nárnia", "cronicas-de-narnia"},
		{"already-a-slug", "already-a-slug"},
		{"---", ""},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Make(tc.in), "input %q", tc.in)
	}
}
