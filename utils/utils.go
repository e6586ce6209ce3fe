package utils

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/takoeight0821/loxfront/ast"
	"github.com/takoeight0821/loxfront/driver"
	"github.com/takoeight0821/loxfront/source"
	"gopkg.in/yaml.v3"
)

// SourceExt is the file extension of loxfront source files.
const SourceExt = ".lox"

type TestData struct {
	Label    string
	Enable   bool
	Input    string
	Expected map[string]string
}

func ReadTestData(s []byte) []TestData {
	var data []TestData
	if err := yaml.Unmarshal(s, &data); err != nil {
		panic(err)
	}

	// Remove disabled test cases.
	i := 0
	for _, d := range data {
		if d.Enable {
			data[i] = d
			i++
		}
	}
	data = data[:i]

	return data
}

// FindSourceFiles returns the source files under dir in lexical order.
func FindSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
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

// RunTest runs input through runner and compares the S-expression dump with expected.
func RunTest(runner *driver.PassRunner, t testing.TB, label, input, expected string) {
	t.Helper()
	nodes, err := runner.RunSource(source.New(label, input))
	if err != nil {
		t.Errorf("%s returned error: %v", label, err)
		return
	}

	if diff := cmp.Diff(expected, ast.Dump(nodes)); diff != "" {
		t.Errorf("%s mismatch (-want +got):\n%s", label, diff)
	}
}
