package gen

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files to the output directory.
// It creates the directory if it doesn't exist.
func WriteFiles(files []GeneratedFile, outputDir string) error {
	err := os.MkdirAll(outputDir, dirPerm)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, file := range files {
		outputPath := filepath.Join(outputDir, file.Filename)

		err := os.WriteFile(outputPath, file.Content, filePerm)
		if err != nil {
			return fmt.Errorf("writing file %s: %w", file.Filename, err)
		}
	}

	return nil
}

// dumpUnformatted saves source that go/format rejected as
// name.unformatted.go in dir and returns its path. Nothing is written when
// dir is empty.
func dumpUnformatted(dir, filename string, src []byte) (string, error) {
	if dir == "" {
		return "", nil
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", err
	}

	path := filepath.Join(dir, strings.TrimSuffix(filename, ".go")+".unformatted.go")

	return path, os.WriteFile(path, src, filePerm)
}

// FileDiff is a generated file whose content differs from the file on disk.
type FileDiff struct {
	Filename string
	// Missing is set when no file exists on disk.
	Missing bool
	// Diffs holds the line diff from the file on disk to the generated
	// content.
	Diffs []diffmatchpatch.Diff
}

// Pretty renders the diff for a terminal.
func (d FileDiff) Pretty() string {
	if d.Missing {
		return d.Filename + ": missing\n"
	}

	return d.Filename + ":\n" + diffmatchpatch.New().DiffPrettyText(d.Diffs)
}

// DiffFiles compares generated files with the files in outputDir and
// returns the stale ones.
func DiffFiles(files []GeneratedFile, outputDir string) ([]FileDiff, error) {
	dmp := diffmatchpatch.New()

	var out []FileDiff

	for _, file := range files {
		current, err := os.ReadFile(filepath.Join(outputDir, file.Filename))

		switch {
		case errors.Is(err, fs.ErrNotExist):
			out = append(out, FileDiff{Filename: file.Filename, Missing: true})
			continue
		case err != nil:
			return nil, fmt.Errorf("reading file %s: %w", file.Filename, err)
		case bytes.Equal(current, file.Content):
			continue
		}

		a, b, lines := dmp.DiffLinesToChars(string(current), string(file.Content))
		diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

		out = append(out, FileDiff{Filename: file.Filename, Diffs: diffs})
	}

	return out, nil
}
