package common

import (
	"path"
	"strings"
)

// PkgAlias returns the name a package is referred to by when imported
// without an alias: the last path element, skipping a major version
// suffix ("/v2") and trimming a gopkg.in style ".vN" suffix.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	base := path.Base(pkgPath)
	if isMajorVersion(base) {
		base = path.Base(path.Dir(pkgPath))
	}

	if i := strings.LastIndex(base, ".v"); i > 0 && isMajorVersion(base[i+1:]) {
		base = base[:i]
	}

	return base
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}

	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
