package storage

import (
	"context"
	"time"

	"resumeqa/internal/document"
	"resumeqa/internal/errors"
	"resumeqa/internal/types"
	"resumeqa/internal/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Catalog is the resume-facing view of a BlobStore: it filters listings to
// PDFs and returns document text instead of bytes. Failures are logged and
// reported as empty results.
type Catalog struct {
	store     BlobStore
	extractor *document.Extractor
	timeout   time.Duration
	observer  FetchObserver
	logger    *errors.Logger
}

// FetchObserver is told about every download attempt.
type FetchObserver interface {
	RecordStorageFetch(ctx context.Context, backend string, size int, err error)
}

// NewCatalog wraps store. timeout bounds each storage call (0 disables it).
func NewCatalog(store BlobStore, extractor *document.Extractor, timeout time.Duration, logger *errors.Logger) *Catalog {
	return &Catalog{
		store:     store,
		extractor: extractor,
		timeout:   timeout,
		logger:    logger.With("component", "catalog", "backend", store.Backend()),
	}
}

// Observe registers o to receive download outcomes.
func (c *Catalog) Observe(o FetchObserver) {
	c.observer = o
}

// Store returns the underlying BlobStore.
func (c *Catalog) Store() BlobStore {
	return c.store
}

func (c *Catalog) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// ListResumes returns the PDF objects of container in listing order.
func (c *Catalog) ListResumes(ctx context.Context, container string) []types.ResumeRef {
	ctx, span := otel.Tracer("resumeqa.storage").Start(ctx, "storage.list")
	defer span.End()
	span.SetAttributes(
		attribute.String("storage.backend", c.store.Backend()),
		attribute.String("storage.container", container),
	)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	refs, err := c.store.List(ctx, container)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		c.logger.LogError(err, "Failed to list resumes", "container", container)
		return nil
	}

	pdfs := make([]types.ResumeRef, 0, len(refs))
	for _, ref := range refs {
		if utils.IsPDF(ref.Name) {
			pdfs = append(pdfs, ref)
		}
	}
	span.SetAttributes(attribute.Int("storage.pdf_count", len(pdfs)))
	return pdfs
}

// ListPDFNames returns the names of the PDF objects in container.
func (c *Catalog) ListPDFNames(ctx context.Context, container string) []string {
	refs := c.ListResumes(ctx, container)
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
	}
	return names
}

// FetchDocumentText downloads name and returns its text, or "" when the
// object is missing, unreadable or not a supported document.
func (c *Catalog) FetchDocumentText(ctx context.Context, name, container string) string {
	text, err := c.FetchText(ctx, name, container)
	if err != nil {
		c.logger.LogError(err, "Failed to fetch resume text", "container", container, "resume", name)
		return ""
	}
	return text
}

// FetchText is FetchDocumentText with the error kept.
func (c *Catalog) FetchText(ctx context.Context, name, container string) (string, error) {
	ctx, span := otel.Tracer("resumeqa.storage").Start(ctx, "storage.fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("storage.backend", c.store.Backend()),
		attribute.String("storage.container", container),
		attribute.String("resume.name", name),
	)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	data, err := c.store.Get(ctx, container, name)
	if c.observer != nil {
		c.observer.RecordStorageFetch(ctx, c.store.Backend(), len(data), err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "download failed")
		return "", err
	}
	span.SetAttributes(attribute.Int("resume.bytes", len(data)))

	text, err := c.extractor.ExtractText(name, data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extract failed")
		return "", err
	}
	return text, nil
}
