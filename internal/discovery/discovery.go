// Package discovery expands CLI input paths into the list of JPEG files
// eligible for conversion.
package discovery

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var jpegExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
}

// IsJPEG reports whether the file name has a JPEG extension
func IsJPEG(name string) bool {
	return jpegExtensions[strings.ToLower(filepath.Ext(name))]
}

// Discover resolves each input to JPEG files. File inputs must have a JPEG
// extension; directory inputs are scanned one level deep, or fully when
// recursive is set. Unreadable and non-matching paths are skipped with a
// warning. The result is sorted and duplicate-free so repeated runs process
// files in the same order.
func Discover(inputs []string, recursive bool, log *slog.Logger) []string {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = filepath.Clean(path)
		}
		if !seen[abs] {
			seen[abs] = true
			files = append(files, abs)
		}
	}

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			log.Warn("Input not found, skipping", slog.String("path", input))
			continue
		}

		if !info.IsDir() {
			if !IsJPEG(input) {
				log.Warn("Input is not a JPEG file, skipping", slog.String("path", input))
				continue
			}
			add(input)
			continue
		}

		if recursive {
			walkErr := filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					log.Warn("Cannot read path, skipping", slog.String("path", path))
					return nil
				}
				if !d.IsDir() && IsJPEG(path) {
					add(path)
				}
				return nil
			})
			if walkErr != nil {
				log.Warn("Directory scan failed", slog.String("path", input), slog.Any("error", walkErr))
			}
			continue
		}

		entries, err := os.ReadDir(input)
		if err != nil {
			log.Warn("Cannot read directory, skipping", slog.String("path", input))
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() && IsJPEG(entry.Name()) {
				add(filepath.Join(input, entry.Name()))
			}
		}
	}

	sort.Strings(files)
	return files
}
