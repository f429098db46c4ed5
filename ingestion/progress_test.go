package ingestion

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	var out bytes.Buffer
	p := NewProgress(&out, 10, 5)

	p.Stored(3)
	assert.Empty(t, out.String(), "updates before Begin are ignored")

	p.Begin()
	p.Stored(3)
	assert.Empty(t, out.String())
	p.Skipped(2)
	assert.Contains(t, out.String(), "Imported 3/10 plants (2 skipped)")

	p.Stored(20)
	stored, skipped := p.Counts()
	assert.Equal(t, 10, stored)
	assert.Equal(t, 2, skipped)

	p.End()
	assert.True(t, strings.HasSuffix(out.String(), "\n"))
}

func TestProgress_NilWriter(t *testing.T) {
	p := NewProgress(nil, 3, 0)
	p.Begin()
	p.Stored(3)
	p.End()
	stored, _ := p.Counts()
	assert.Equal(t, 3, stored)
}
