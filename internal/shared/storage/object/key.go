package object

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const maxFileNameLen = 120

var (
	ErrInvalidName = errors.New("invalid file name")
	ErrNotFound    = errors.New("object not found")
)

// OwnerPrefix returns the path segment for an owner.
func OwnerPrefix(ownerID string) string {
	sum := sha256.Sum256([]byte(ownerID))
	return hex.EncodeToString(sum[:16])
}

// SanitizeFileName drops directory parts and control characters and rejects
// traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidName
	}
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		if r == ' ' {
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" {
		return "", ErrInvalidName
	}
	if len(name) > maxFileNameLen {
		name = name[len(name)-maxFileNameLen:]
	}
	return name, nil
}

// NewKey builds a unique key "<owner prefix>/<uuid>_<file name>".
func NewKey(ownerID, fileName string) (string, error) {
	clean, err := SanitizeFileName(fileName)
	if err != nil {
		return "", err
	}
	return path.Join(OwnerPrefix(ownerID), uuid.NewString()+"_"+clean), nil
}

// ValidKey reports whether key is relative and stays inside the store root.
func ValidKey(key string) bool {
	clean := path.Clean(strings.ReplaceAll(key, "\\", "/"))
	return clean != "." && !strings.HasPrefix(clean, "/") && !strings.HasPrefix(clean, "..")
}

// OwnedBy reports whether key sits in ownerID's namespace.
func OwnedBy(key, ownerID string) bool {
	if !ValidKey(key) {
		return false
	}
	dir, _ := path.Split(path.Clean(key))
	return dir == OwnerPrefix(ownerID)+"/"
}
