package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SafeFilename reduces an uploaded file name to a base name safe for the local filesystem.
func SafeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.TrimLeft(name, "._")
	if name == "" {
		return "resume"
	}
	return name
}

// Storage keeps uploaded resumes on disk under one directory per job.
type Storage struct {
	Dir string
}

// Save writes data to <dir>/<job id>/<unique prefix>_<safe name> and returns the path.
func (s *Storage) Save(jobID uuid.UUID, filename string, data []byte) (string, error) {
	dir := filepath.Join(s.Dir, jobID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	name := uuid.NewString()[:8] + "_" + SafeFilename(filename)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload %s: %w", name, err)
	}
	return path, nil
}
