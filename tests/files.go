// Package tests downloads the external CPU conformance suites that the
// optional conformance tests run against. Nothing here runs in a normal
// `go test` invocation: downloads only happen when a test asks for a file.
package tests

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"
)

// Suite binaries, fetched into the local cache on demand.
var files = map[string]string{
	"6502_functional_test.bin":        "https://raw.githubusercontent.com/Klaus2m5/6502_65C02_functional_tests/master/bin_files/6502_functional_test.bin",
	"65C02_extended_opcodes_test.bin": "https://raw.githubusercontent.com/Klaus2m5/6502_65C02_functional_tests/master/bin_files/65C02_extended_opcodes_test.bin",
}

var fetchOnce sync.Once
var fetchErr error

// CacheDir returns the directory holding downloaded suite files.
func CacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "caracal-tests")
}

// Path returns the local path of a suite file, downloading all suite files
// on first use. Tests should skip when an error is returned: no network is
// not a test failure.
func Path(tb testing.TB, name string) (string, error) {
	tb.Helper()

	if _, ok := files[name]; !ok {
		return "", fmt.Errorf("unknown test file %q", name)
	}

	fetchOnce.Do(func() { fetchErr = fetchAll() })
	if fetchErr != nil {
		return "", fetchErr
	}
	return filepath.Join(CacheDir(), name), nil
}

func fetchAll() error {
	dir := CacheDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for name, url := range files {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		g.Go(func() error {
			return download(url, path)
		})
	}
	return g.Wait()
}

func download(url, path string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	f, err := os.Create(path + ".part")
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(path+".part", path)
}
