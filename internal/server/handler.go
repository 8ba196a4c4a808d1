package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/quangtb/nextimg/internal/batch"
	"github.com/quangtb/nextimg/internal/codec"
	"github.com/quangtb/nextimg/internal/config"
	"github.com/quangtb/nextimg/internal/discovery"
	"github.com/quangtb/nextimg/internal/history"
)

// Dependencies holds everything the handlers need
type Dependencies struct {
	Logger    *slog.Logger
	Config    *config.Config
	Converter *codec.Converter
	History   *history.Store // nil when history is disabled
}

// ConvertHandler serves the browser conversion flow: an upload starts a
// tracked batch, the page polls its status, and the finished archive is
// downloaded as one ZIP.
type ConvertHandler struct {
	logger    *slog.Logger
	cfg       *config.Config
	converter *codec.Converter
	hist      *history.Store
	registry  *Registry
}

// NewConvertHandler creates a new ConvertHandler instance
func NewConvertHandler(deps *Dependencies) *ConvertHandler {
	return &ConvertHandler{
		logger:    deps.Logger,
		cfg:       deps.Config,
		converter: deps.Converter,
		hist:      deps.History,
		registry:  NewRegistry(),
	}
}

type startForm struct {
	Format  string `form:"format" binding:"required,oneof=webp avif"`
	Quality int    `form:"quality" binding:"required,min=1,max=100"`
	Workers int    `form:"workers" binding:"required,min=1,max=32"`
}

type upload struct {
	name string
	data []byte
}

// Index serves the upload page
func (h *ConvertHandler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

// Start handles POST /start: validates the form, collects JPEG uploads and
// kicks off the batch in the background.
func (h *ConvertHandler) Start(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.Server.MaxUploadMB<<20)

	var form startForm
	if err := c.ShouldBind(&form); err != nil {
		h.logger.Warn("Invalid conversion request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form: format must be webp or avif, quality 1-100, workers 1-32."})
		return
	}

	format, err := codec.ParseFormat(form.Format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.converter.Supports(format) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s encoding is not available on this server.", format)})
		return
	}

	mf, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart upload: " + err.Error()})
		return
	}

	files := mf.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please upload at least one image."})
		return
	}

	uploads, err := h.collectUploads(files)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(uploads) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid .jpg/.jpeg files were uploaded."})
		return
	}

	jobID := h.registry.Create(len(uploads), string(format))

	h.logger.Info("Batch accepted",
		slog.String("job_id", jobID),
		slog.Int("files", len(uploads)),
		slog.String("format", string(format)),
		slog.Int("quality", form.Quality),
		slog.Int("workers", form.Workers),
	)

	go h.runBatch(jobID, uploads, format, form.Quality, form.Workers)

	c.JSON(http.StatusOK, gin.H{"job_id": jobID})
}

// Status handles GET /status/:job_id
func (h *ConvertHandler) Status(c *gin.Context) {
	job, ok := h.registry.Get(c.Param("job_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":     job.State,
		"completed": job.Completed,
		"total":     job.Total,
		"converted": job.Converted,
		"skipped":   job.Skipped,
		"failed":    job.Failed,
		"error":     job.Error,
	})
}

// Download handles GET /download/:job_id
func (h *ConvertHandler) Download(c *gin.Context) {
	job, ok := h.registry.Get(c.Param("job_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found."})
		return
	}

	if job.State != StateDone || len(job.Archive) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Job is not ready yet."})
		return
	}

	c.Header("Content-Disposition", `attachment; filename=converted_images.zip`)
	c.Data(http.StatusOK, "application/zip", job.Archive)
}

// collectUploads reads multipart files into memory, keeping only JPEG
// payloads. Files pass on either a JPEG extension or sniffed JPEG content,
// so a corrupted .jpg still enters the batch and fails there.
func (h *ConvertHandler) collectUploads(files []*multipart.FileHeader) ([]upload, error) {
	uploads := make([]upload, 0, len(files))

	for _, fh := range files {
		name := fh.Filename
		if name == "" {
			name = "image.jpg"
		}

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to read upload %q: %w", name, err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read upload %q: %w", name, err)
		}

		if !discovery.IsJPEG(name) && !mimetype.Detect(data).Is("image/jpeg") {
			h.logger.Warn("Ignoring non-JPEG upload", slog.String("name", name))
			continue
		}

		uploads = append(uploads, upload{name: name, data: data})
	}

	return uploads, nil
}

func (h *ConvertHandler) runBatch(jobID string, uploads []upload, format codec.Format, quality, workers int) {
	started := time.Now()
	h.registry.Update(jobID, func(job *TrackedJob) {
		job.State = StateRunning
	})

	jobs := make([]batch.Job, 0, len(uploads))
	for _, up := range uploads {
		jobs = append(jobs, batch.Job{
			Source:    up.name,
			Data:      up.data,
			Format:    format,
			Quality:   quality,
			Speed:     h.cfg.Convert.AVIFSpeed,
			Output:    batch.OutputPath(up.name, "", format.Ext()),
			Overwrite: true,
		})
	}

	sink := batch.NewArchiveSink()
	runner := &batch.Runner{
		Workers: workers,
		Convert: h.converter.Convert,
		Logger:  h.logger,
		OnResult: func(res batch.Result) {
			h.registry.Update(jobID, func(job *TrackedJob) {
				job.Completed++
				switch res.Outcome {
				case batch.OutcomeConverted:
					job.Converted++
				case batch.OutcomeSkipped:
					job.Skipped++
				case batch.OutcomeFailed:
					job.Failed++
				}
			})
		},
	}

	results := runner.Run(context.Background(), jobs, sink)
	summary := batch.Summarize(results)

	archive, err := sink.Close()

	h.registry.Update(jobID, func(job *TrackedJob) {
		switch {
		case err != nil:
			job.State = StateError
			job.Error = err.Error()
		case summary.Converted == 0:
			job.State = StateError
			job.Error = firstFailure(results)
		default:
			job.State = StateDone
			job.Archive = archive
		}
	})

	h.logger.Info("Batch finished",
		slog.String("job_id", jobID),
		slog.Int("converted", summary.Converted),
		slog.Int("failed", summary.Failed),
		slog.Duration("elapsed", time.Since(started)),
	)

	h.recordHistory(jobID, format, quality, workers, summary, started)
}

func (h *ConvertHandler) recordHistory(jobID string, format codec.Format, quality, workers int, summary batch.Summary, started time.Time) {
	if h.hist == nil {
		return
	}

	entry := history.Entry{
		ID:         jobID,
		Origin:     "web",
		Format:     string(format),
		Quality:    quality,
		Workers:    workers,
		Total:      summary.Total,
		Converted:  summary.Converted,
		Skipped:    summary.Skipped,
		Failed:     summary.Failed,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.hist.Record(ctx, entry); err != nil {
		h.logger.Warn("Failed to record batch history", slog.String("error", err.Error()))
	}
}

func firstFailure(results []batch.Result) string {
	for _, res := range results {
		if res.Outcome == batch.OutcomeFailed && res.Err != nil {
			return res.Err.Error()
		}
	}
	return "all conversions failed"
}
