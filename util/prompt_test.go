package util

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrompterString(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("calc\n\n"), &out)

	assert.Equal(t, "calc", p.String("Project name", "demo"))
	assert.Equal(t, "demo", p.String("Project name", "demo"))
	assert.Equal(t, "demo", p.String("Project name", "demo"), "closed input falls back to the default")
	assert.Contains(t, out.String(), "Project name (demo): ")
}

func TestPrompterYN(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("y\nN\n  Y  \nmaybe\n\n"), &out)

	assert.True(t, p.YN("Continue?", false))
	assert.False(t, p.YN("Continue?", true))
	assert.True(t, p.YN("Continue?", false))
	assert.False(t, p.YN("Continue?", true))
	assert.True(t, p.YN("Continue?", true))
	assert.False(t, p.YN("Continue?", false))

	assert.Contains(t, out.String(), "Continue? (y/N): ")
	assert.Contains(t, out.String(), "Continue? (Y/n): ")
}

func TestPrompterUnterminatedLine(t *testing.T) {
	p := NewPrompter(strings.NewReader("last"), &bytes.Buffer{})
	assert.Equal(t, "last", p.String("q", "d"))
}
