// Package batch fans a set of conversion jobs out across a bounded worker
// pool and aggregates per-file results.
package batch

import (
	"path/filepath"
	"strings"

	"github.com/quangtb/nextimg/internal/codec"
)

// Outcome classifies how a single job finished
type Outcome string

const (
	OutcomeConverted Outcome = "converted"
	OutcomeSkipped   Outcome = "skipped-exists"
	OutcomeFailed    Outcome = "failed"
)

// Job is one file's conversion request. It is immutable once dispatched
// and consumed by exactly one worker.
type Job struct {
	Source    string       // input path, or display name for in-memory payloads
	Data      []byte       // in-memory payload; read from Source when nil
	Format    codec.Format // target format
	Quality   int          // 1-100
	Speed     int          // AVIF encoder speed
	Output    string       // sink name for the converted bytes
	Overwrite bool         // replace an existing output
}

// Result records the outcome of one job
type Result struct {
	Job     Job
	Outcome Outcome
	Output  string // name the sink stored the output under
	Size    int64  // encoded byte length
	Err     error  // set when Outcome is OutcomeFailed
}

// Summary aggregates a batch's results
type Summary struct {
	Total     int
	Converted int
	Skipped   int
	Failed    int
}

// Summarize counts results per outcome
func Summarize(results []Result) Summary {
	summary := Summary{Total: len(results)}
	for _, res := range results {
		switch res.Outcome {
		case OutcomeConverted:
			summary.Converted++
		case OutcomeSkipped:
			summary.Skipped++
		case OutcomeFailed:
			summary.Failed++
		}
	}
	return summary
}

// OutputPath derives the output location for a source file: the source
// basename with its extension swapped, placed in outputDir or alongside
// the source when outputDir is empty.
func OutputPath(source, outputDir, ext string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)) + ext
	if outputDir == "" {
		return filepath.Join(filepath.Dir(source), base)
	}
	return filepath.Join(outputDir, base)
}

// BuildJobs expands discovered files into one job per file and format
func BuildJobs(files []string, formats []codec.Format, quality, speed int, outputDir string, overwrite bool) []Job {
	jobs := make([]Job, 0, len(files)*len(formats))
	for _, file := range files {
		for _, format := range formats {
			jobs = append(jobs, Job{
				Source:    file,
				Format:    format,
				Quality:   quality,
				Speed:     speed,
				Output:    OutputPath(file, outputDir, format.Ext()),
				Overwrite: overwrite,
			})
		}
	}
	return jobs
}
