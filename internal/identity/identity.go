// Package identity validates caller-supplied user identifiers before they are
// used to build storage paths. Everything written to the encodings directory
// goes through this package first.
package identity

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// MaxLength is the maximum accepted length of a user id.
const MaxLength = 128

// pattern matches user ids: alphanumeric characters, underscores, and hyphens.
var pattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

var (
	// ErrInvalidIdentity indicates a malformed user id.
	ErrInvalidIdentity = errors.New("invalid user id")
	// ErrPathTraversal indicates a storage path that resolves outside the
	// encodings directory.
	ErrPathTraversal = errors.New("path traversal detected")
)

// Validate sanitizes a raw user id. The value is trimmed and reduced to its
// final path segment so traversal payloads like "../../etc" collapse before
// pattern checking; any id that needed reduction is rejected outright.
func Validate(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: user id is required", ErrInvalidIdentity)
	}

	sanitized := filepath.Base(trimmed)
	if sanitized != trimmed {
		return "", fmt.Errorf("%w: user id must not contain path separators", ErrInvalidIdentity)
	}
	if len(sanitized) > MaxLength {
		return "", fmt.Errorf("%w: user id exceeds maximum length of %d", ErrInvalidIdentity, MaxLength)
	}
	if !pattern.MatchString(sanitized) {
		return "", fmt.Errorf("%w: user id must contain only alphanumeric characters, underscores, and hyphens", ErrInvalidIdentity)
	}
	return sanitized, nil
}

// SafePath joins name under root and verifies that the resolved path still
// lies within the resolved root. This is a second line of defense behind
// Validate; name should already be a validated id plus a file extension.
func SafePath(root, name string) (string, error) {
	path := filepath.Join(root, name)

	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", fmt.Errorf("resolving encodings directory: %w", err)
	}
	realRoot, err = filepath.Abs(realRoot)
	if err != nil {
		return "", fmt.Errorf("resolving encodings directory: %w", err)
	}

	// The file itself may not exist yet, so resolve its parent directory.
	realDir, err := filepath.EvalSymlinks(filepath.Dir(path))
	if err != nil {
		return "", fmt.Errorf("resolving storage path: %w", err)
	}
	realDir, err = filepath.Abs(realDir)
	if err != nil {
		return "", fmt.Errorf("resolving storage path: %w", err)
	}

	if realDir != realRoot {
		return "", fmt.Errorf("%w: %q resolves outside the encodings directory", ErrPathTraversal, name)
	}
	return path, nil
}
