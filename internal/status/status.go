// Package status reads the small line-oriented files other processes use to
// hand colors to the controller: the ambient color, the AI color and the
// mech override.
package status

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/scheerer/ambient-lights/internal/color"
)

const (
	AmbientFile   = "ambient"
	AIFile        = "ambient_ai"
	MechFile      = "mech"
	PrefsFile     = "prefs"
	CanonicalFile = "canonical"
)

var ErrExternalRead = errors.New("external source unreadable")

// Reader returns the current lines of a status source.
type Reader interface {
	ReadLines() ([]string, error)
}

// File reads a status file from disk on every call.
type File struct {
	Path string
}

func NewFile(dir, name string) *File {
	return &File{Path: filepath.Join(dir, name)}
}

func (f *File) ReadLines() ([]string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalRead, err)
	}
	return splitLines(data), nil
}

func (f *File) String() string {
	return f.Path
}

func splitLines(data []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	return lines
}

// FirstLine returns the first line of r, or "" when the source is empty.
func FirstLine(r Reader) (string, error) {
	if r == nil {
		return "", fmt.Errorf("%w: no source configured", ErrExternalRead)
	}
	lines, err := r.ReadLines()
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", nil
	}
	return lines[0], nil
}

// Ambient is the baseline color and, when the writer supplied one, the time it was set.
type Ambient struct {
	Color     color.Color
	UpdatedAt time.Time
}

// HasTimestamp reports whether the source carried an update time.
func (a Ambient) HasTimestamp() bool {
	return !a.UpdatedAt.IsZero()
}

// AmbientSource yields the ambient color once per tick.
type AmbientSource interface {
	ReadAmbient() (Ambient, error)
}

// AmbientReader parses a color line followed by an optional Unix timestamp line.
type AmbientReader struct {
	Reader Reader
}

func NewAmbientReader(r Reader) *AmbientReader {
	return &AmbientReader{Reader: r}
}

func (a *AmbientReader) ReadAmbient() (Ambient, error) {
	lines, err := a.Reader.ReadLines()
	if err != nil {
		return Ambient{}, err
	}
	return ParseAmbient(lines)
}

func ParseAmbient(lines []string) (Ambient, error) {
	if len(lines) == 0 || lines[0] == "" {
		return Ambient{}, fmt.Errorf("%w: empty ambient source", ErrExternalRead)
	}

	c, err := color.Parse(lines[0])
	if err != nil {
		return Ambient{}, err
	}

	a := Ambient{Color: c}
	if len(lines) > 1 && lines[1] != "" {
		ts, err := ParseTimestamp(lines[1])
		if err != nil {
			return Ambient{}, err
		}
		a.UpdatedAt = ts
	}
	return a, nil
}

func ParseTimestamp(s string) (time.Time, error) {
	secs, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad timestamp %q", ErrExternalRead, s)
	}
	return time.Unix(secs, 0), nil
}

// Static is a Reader over fixed lines.
type Static []string

func (s Static) ReadLines() ([]string, error) {
	return append([]string(nil), s...), nil
}
