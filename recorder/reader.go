package recorder

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/viant/geobench/dataset"
	"gopkg.in/yaml.v3"
)

// ReadResults loads a per-query table written by WriteResults.
func ReadResults(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dataset.ErrStorage, err)
	}
	defer f.Close()
	var entries []Entry
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		idText, distText, ok := strings.Cut(scanner.Text(), "\t")
		if !ok {
			return nil, fmt.Errorf("recorder: %s:%d: expected id<TAB>distance", path, lineNo)
		}
		id, err := strconv.Atoi(idText)
		if err != nil {
			return nil, fmt.Errorf("recorder: %s:%d: invalid id %q", path, lineNo, idText)
		}
		distance, err := strconv.ParseFloat(distText, 64)
		if err != nil {
			return nil, fmt.Errorf("recorder: %s:%d: invalid distance %q", path, lineNo, distText)
		}
		entries = append(entries, Entry{ID: id, Distance: distance})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dataset.ErrStorage, path, err)
	}
	return entries, nil
}

// ReadSummary loads a summary written by WriteSummary.
func ReadSummary(path string) (*RunStatistics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dataset.ErrStorage, err)
	}
	stats := &RunStatistics{}
	if err := yaml.Unmarshal(data, stats); err != nil {
		return nil, fmt.Errorf("recorder: %s: %w", path, err)
	}
	return stats, nil
}
