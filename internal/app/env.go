package app

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

// LoadEnvFiles loads dotenv files into the process environment. Later files
// override earlier ones and missing files are skipped.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		f, err := os.Open(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
		vars, err := parseDotenv(f)
		f.Close()
		if err != nil {
			return err
		}
		for _, kv := range vars {
			_ = os.Setenv(kv[0], kv[1])
		}
	}
	return nil
}

// parseDotenv reads KEY=VALUE lines in order. Blank lines, comments and
// lines without '=' are skipped; an "export " prefix and matching quotes
// around the value are removed. Values are not expanded.
func parseDotenv(r io.Reader) ([][2]string, error) {
	var out [][2]string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, val, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		val = strings.TrimSpace(val)
		if len(val) >= 2 && (val[0] == '"' || val[0] == '\'') && val[len(val)-1] == val[0] {
			val = val[1 : len(val)-1]
		}
		out = append(out, [2]string{key, val})
	}
	return out, sc.Err()
}
