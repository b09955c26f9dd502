package rig

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOptionsParsesYAML(t *testing.T) {
	src := strings.NewReader(`
strict: true
maxParts: 50
allowSchemes: ["test", "mem"]
`)
	fo, err := ReadOptions(src)
	require.NoError(t, err)
	assert.True(t, fo.Strict)
	assert.Equal(t, 50, fo.MaxParts)
	assert.Equal(t, []string{"test", "mem"}, fo.AllowSchemes)
}

func TestReadOptionsEmptyDocumentYieldsZeroValue(t *testing.T) {
	fo, err := ReadOptions(strings.NewReader(""))
	require.NoError(t, err)
	assert.False(t, fo.Strict)
	assert.Equal(t, 0, fo.MaxParts)
}

func TestFileOptionsOptionsAppliesStrictAndMaxParts(t *testing.T) {
	fo := &FileOptions{Strict: true, MaxParts: 10}
	opts := defaultFacadeOptions()
	for _, o := range fo.Options() {
		o(opts)
	}
	assert.True(t, opts.strict)
	assert.Equal(t, 10, opts.maxParts)
}

func TestFileOptionsOptionsOmitsMaxPartsWhenZero(t *testing.T) {
	fo := &FileOptions{}
	opts := defaultFacadeOptions()
	opts.maxParts = 7
	for _, o := range fo.Options() {
		o(opts)
	}
	assert.Equal(t, 7, opts.maxParts) // untouched since fo.MaxParts == 0
}

func TestLoadOptionsFileReportsMissingFile(t *testing.T) {
	_, err := LoadOptionsFile("/nonexistent/path/to/options.yaml")
	assert.Error(t, err)
}
