package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UploadScheme prefixes locators of files stored by an UploadManager.
const UploadScheme = "upload://"

// UploadManager stores uploaded CSV files per owner and resolves upload://
// locators back to paths inside its base directory.
type UploadManager struct {
	BaseDir  string
	MaxBytes int64
}

// NewUploadManager creates a new upload manager
func NewUploadManager(baseDir string, maxBytes int64) *UploadManager {
	if maxBytes <= 0 {
		maxBytes = 32 << 20
	}
	return &UploadManager{
		BaseDir:  baseDir,
		MaxBytes: maxBytes,
	}
}

// Save copies r into <BaseDir>/<ownerID>/<uuid>.csv and returns its locator.
func (um *UploadManager) Save(ownerID string, r io.Reader) (string, int64, error) {
	owner := filepath.Base(filepath.Clean(ownerID))
	if owner == "" || owner == "." || owner == string(filepath.Separator) {
		return "", 0, fmt.Errorf("upload: invalid owner %q", ownerID)
	}

	ownerDir := filepath.Join(um.BaseDir, owner)
	if err := os.MkdirAll(ownerDir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.New().String() + ".csv"
	path := filepath.Join(ownerDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(r, um.MaxBytes+1))
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("failed to write upload: %w", err)
	}
	if n > um.MaxBytes {
		os.Remove(path)
		return "", 0, fmt.Errorf("upload exceeds %d bytes", um.MaxBytes)
	}

	return UploadScheme + owner + "/" + name, n, nil
}

// Resolve maps an upload:// locator to a file path, refusing anything that
// would escape BaseDir.
func (um *UploadManager) Resolve(locator string) (string, error) {
	if !strings.HasPrefix(locator, UploadScheme) {
		return "", fmt.Errorf("not an upload locator: %s", locator)
	}
	rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(locator, UploadScheme)))
	if rel == "." || filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("upload locator escapes upload directory: %s", locator)
	}
	return filepath.Join(um.BaseDir, rel), nil
}

// Open resolves locator and opens the file for reading.
func (um *UploadManager) Open(locator string) (io.ReadCloser, error) {
	path, err := um.Resolve(locator)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// EnsureBaseDirExists ensures the base upload directory exists
func (um *UploadManager) EnsureBaseDirExists() error {
	return os.MkdirAll(um.BaseDir, 0755)
}
