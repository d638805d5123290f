package pipeline

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/dgallion1/html2vimdoc/internal/parser"
	"github.com/dgallion1/html2vimdoc/internal/vimdoc"
)

// Worker processes a single conversion job: parse the input into HTML, then
// run the vimdoc conversion.
type Worker struct {
	log *slog.Logger
}

func NewWorker(log *slog.Logger) *Worker {
	return &Worker{log: log}
}

// Process runs the full conversion pipeline for a job.
func (w *Worker) Process(job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	data, opts := job.Input()

	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	htmlSrc, err := p.Parse(bytes.NewReader(data), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	job.ContentHash = ContentHashHex(htmlSrc)

	job.SetStatus(StatusConverting, "converting")
	opts.Logger = log
	text, err := vimdoc.Convert(htmlSrc, opts)
	if err != nil {
		log.Error("conversion failed", "error", err)
		job.AddError(fmt.Sprintf("convert: %s", err))
		job.SetStatus(StatusFailed, "converting")
		return
	}

	job.SetOutput(text)
	job.SetStatus(StatusCompleted, "done")
	log.Info("conversion complete", "bytes", len(text))
}
