package main

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/weaming/psp-go/output"
)

const inputExt = ".pspimage"

// job is one file of a batch run and the directory its output goes to.
type job struct {
	Input     string
	OutputDir string
}

// walkDir returns the .pspimage files under root, sorted. Subdirectories
// are only visited when recursive is set.
func walkDir(root string, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && !recursive {
				return fs.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), inputExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// warpDirs maps every file under inRoot to the matching directory under
// outRoot, so the output tree mirrors the input tree.
func warpDirs(inRoot, outRoot string, files []string) ([]job, error) {
	jobs := make([]job, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(inRoot, filepath.Dir(f))
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(rel, "..") {
			return nil, fmt.Errorf("%s is outside %s", f, inRoot)
		}
		jobs = append(jobs, job{Input: f, OutputDir: filepath.Join(outRoot, rel)})
	}
	return jobs, nil
}

// runBatch converts every file under config.InputDir. A failing file is
// reported and skipped.
func runBatch(config *output.Config, format output.Format, w io.Writer) error {
	outRoot := config.OutputDir
	if outRoot == "" {
		outRoot = config.InputDir
	}

	files, err := walkDir(config.InputDir, !config.NonRecursive)
	if err != nil {
		return err
	}
	jobs, err := warpDirs(config.InputDir, outRoot, files)
	if err != nil {
		return err
	}

	failed := 0
	for _, j := range jobs {
		if err := convertFile(config, format, j.Input, j.OutputDir, w); err != nil {
			fmt.Fprintf(w, "skipping file [%s]: %v\n", j.Input, err)
			failed++
		}
	}

	fmt.Fprintf(w, "   : Files processed: %d\terrors: %d\n", len(jobs), failed)
	return nil
}
