package config

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

// windowsVar matches %VAR% references.
var windowsVar = regexp.MustCompile(`%([^%]+)%`)

// expandPath expands the home directory and environment variables in p.
// It supports ~/ (and ~\ on Windows) prefixes and %VAR% on Windows.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		expanded = windowsVar.ReplaceAllStringFunc(expanded, func(m string) string {
			if v, ok := os.LookupEnv(m[1 : len(m)-1]); ok {
				return v
			}
			return m
		})
	}

	home := func() (string, bool) {
		h, err := os.UserHomeDir()
		return h, err == nil
	}
	switch {
	case expanded == "~":
		if h, ok := home(); ok {
			return h
		}
	case strings.HasPrefix(expanded, "~/"), runtime.GOOS == "windows" && strings.HasPrefix(expanded, `~\`):
		if h, ok := home(); ok {
			return filepath.Join(h, expanded[2:])
		}
	}
	return expanded
}

// resolvePath expands p and anchors it at root when relative.
func resolvePath(root, p string) string {
	p = expandPath(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
