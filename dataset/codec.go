package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/viant/geobench/geo"
)

// Path returns the artifact location for a (role, size) key under dir.
func Path(dir string, role Role, size int) string {
	return filepath.Join(dir, fmt.Sprintf("benchmark-%s-points-%d.csv", role, size))
}

// EnsureDir creates dir on first use. It fails when dir exists but is not a
// directory.
func EnsureDir(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return fmt.Errorf("%w: output path is not a directory: %s", ErrStorage, dir)
		}
		return nil
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: failed to create output directory %s: %v", ErrStorage, dir, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
}

// FormatFloat renders v in the shortest form that parses back to v.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ReadFile loads one "lat,lon" point per line.
func ReadFile(path string) ([]geo.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer f.Close()
	var points []geo.Point
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		p, err := parseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("%w: %s:%d: %v", ErrDatasetCorrupt, path, lineNo, err)
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStorage, path, err)
	}
	return points, nil
}

func parseLine(line string) (geo.Point, error) {
	latText, lonText, ok := strings.Cut(strings.TrimSpace(line), ",")
	if !ok {
		return geo.Point{}, fmt.Errorf("expected latitude,longitude, got %q", line)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("invalid latitude %q", latText)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonText), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("invalid longitude %q", lonText)
	}
	return geo.Point{Lat: lat, Lon: lon}, nil
}

// WriteFile stores points one per line. The file appears under path only
// once fully written and synced.
func WriteFile(path string, points []geo.Point) error {
	return WriteAtomic(path, func(w *bufio.Writer) error {
		for _, p := range points {
			if _, err := w.WriteString(FormatFloat(p.Lat) + "," + FormatFloat(p.Lon) + "\n"); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteAtomic writes a file through a temp file in the same directory and
// renames it into place. Failures are reported as ErrStorage.
func WriteAtomic(path string, write func(w *bufio.Writer) error) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()
	w := bufio.NewWriter(tmp)
	if err := write(w); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStorage, path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStorage, path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStorage, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStorage, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStorage, path, err)
	}
	committed = true
	return nil
}
