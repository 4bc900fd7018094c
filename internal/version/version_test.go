package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "v1.2.3"
	assert.Equal(t, "v1.2.3", Get())

	Version = ""
	assert.NotEmpty(t, Get())
}
