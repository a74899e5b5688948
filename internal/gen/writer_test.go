package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndDiffFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	files := []GeneratedFile{
		{Filename: "a_display.go", Content: []byte("package a\n\nvar x = 1\n")},
		{Filename: "b_display.go", Content: []byte("package a\n")},
	}

	require.NoError(t, WriteFiles(files, dir))

	diffs, err := DiffFiles(files, dir)
	require.NoError(t, err)
	assert.Empty(t, diffs)

	files[0].Content = []byte("package a\n\nvar x = 2\n")
	require.NoError(t, os.Remove(filepath.Join(dir, "b_display.go")))

	diffs, err = DiffFiles(files, dir)
	require.NoError(t, err)
	require.Len(t, diffs, 2)

	assert.Equal(t, "a_display.go", diffs[0].Filename)
	assert.False(t, diffs[0].Missing)

	var inserted, deleted string
	for _, d := range diffs[0].Diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			inserted += d.Text
		case diffmatchpatch.DiffDelete:
			deleted += d.Text
		}
	}

	assert.Equal(t, "var x = 2\n", inserted)
	assert.Equal(t, "var x = 1\n", deleted)

	assert.True(t, diffs[1].Missing)
	assert.Equal(t, "b_display.go: missing\n", diffs[1].Pretty())
}
