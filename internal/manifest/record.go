package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the record's name inside a virtualenv.
const FileName = "package_info.json"

// ErrCorruptRecord is returned when a record exists but cannot be trusted.
var ErrCorruptRecord = errors.New("corrupt package record")

// PackageRecord is what venvbin remembers about one installed package.
type PackageRecord struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Scripts []string `json:"scripts"` // bin-dir paths published for the package
}

// NewPackageRecord returns a record that owns a copy of scripts.
func NewPackageRecord(name, version string, scripts []string) *PackageRecord {
	owned := make([]string, len(scripts))
	copy(owned, scripts)
	return &PackageRecord{Name: name, Version: version, Scripts: owned}
}

// Path returns the record location for the virtualenv at venvPath.
func Path(venvPath string) string {
	return filepath.Join(venvPath, FileName)
}

// Marshal renders r as two-space indented JSON with a trailing newline.
func Marshal(r *PackageRecord) ([]byte, error) {
	out := *r
	if out.Scripts == nil {
		out.Scripts = []string{}
	}
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Unmarshal validates data against the record schema and decodes it.
// Anything that is not a valid record wraps ErrCorruptRecord.
func Unmarshal(data []byte) (*PackageRecord, error) {
	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}

	var r PackageRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if r.Scripts == nil {
		r.Scripts = []string{}
	}
	return &r, nil
}

// ReadFile loads the record of the virtualenv at venvPath. A missing record
// is reported with an error satisfying errors.Is(err, fs.ErrNotExist).
func ReadFile(venvPath string) (*PackageRecord, error) {
	path := Path(venvPath)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// WriteFile stores r in the virtualenv at venvPath.
func WriteFile(venvPath string, r *PackageRecord) error {
	data, err := Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding package record: %w", err)
	}
	if err := os.WriteFile(Path(venvPath), data, 0644); err != nil {
		return fmt.Errorf("writing package record: %w", err)
	}
	return nil
}
