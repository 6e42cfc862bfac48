package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ProjectExtensions lists the file extensions accepted for project files.
var ProjectExtensions = []string{".json", ".yaml", ".yml"}

// ValidateProjectPath checks that path names a project file the loader can
// decode. It does not touch the filesystem.
func ValidateProjectPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "project path cannot be empty")
	}
	if err := checkControl(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range ProjectExtensions {
		if ext == allowed {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported project file extension %q (want .json, .yaml or .yml)", ext)
}

// ValidateImagePath checks the icon asset base path pushed by a host.
//
// The base is concatenated with an icon file name, so it must either be empty
// (icons resolved relative to the document) or end with a slash. Only http(s)
// URLs and plain paths are accepted.
func ValidateImagePath(base string) error {
	if base == "" {
		return nil
	}
	if err := checkControl(base); err != nil {
		return err
	}
	if strings.Contains(base, "://") &&
		!strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return New(ErrCodeInvalidPath, "image path must use http or https scheme")
	}
	if !strings.HasSuffix(base, "/") {
		return New(ErrCodeInvalidPath, "image path must end with '/' (got %q)", base)
	}
	return nil
}

// ValidateFactorName rejects factor names that cannot come from a project file.
func ValidateFactorName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "factor name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "factor name too long (max 256 characters)")
	}
	return checkControl(name)
}

func checkControl(s string) error {
	for _, r := range s {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "value contains invalid control characters")
		}
	}
	return nil
}
