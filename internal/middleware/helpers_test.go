package middleware_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// jsonField returns the raw JSON at path (e.g. "error", "code") in body.
func jsonField(t *testing.T, body []byte, path ...string) string {
	t.Helper()
	p := ""
	for i, s := range path {
		if i > 0 {
			p += "."
		}
		p += s
	}
	res := gjson.GetBytes(body, p)
	require.True(t, res.Exists(), "missing %s in %s", p, body)
	return res.Raw
}
