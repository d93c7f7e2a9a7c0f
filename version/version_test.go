package version_test

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.jacobcolvin.com/haversine/version"
)

func TestString(t *testing.T) {
	t.Parallel()

	got := version.String()

	assert.True(t, strings.HasSuffix(got, ")"), got)
	assert.Contains(t, got, runtime.Version())
	assert.Contains(t, got, runtime.GOOS+"/"+runtime.GOARCH)
	assert.Contains(t, got, "revision "+version.Revision)

	if version.Version == "" {
		assert.True(t, strings.HasPrefix(got, "devel ("), got)
	}
}
