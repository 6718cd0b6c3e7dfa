package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"":                         "/",
		"/warehouses/7":            "/warehouses/7",
		"/inventory?warehouseId=3": "/inventory?warehouseId=3",
		"https://evil.test/":       "/",
		"//evil.test":              "/",
		"/\\evil.test":             "/",
		"warehouses":               "/",
		"/a\r\nSet-Cookie: x":      "/",
		"  /products  ":            "/products",
	}
	for in, want := range cases {
		assert.Equal(t, want, SafeNext(in), "input %q", in)
	}
}
