package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-blockgraph/internal/documents"
	"github.com/goliatone/go-blockgraph/internal/graph"
	"github.com/goliatone/go-blockgraph/internal/logging"
	"github.com/goliatone/go-blockgraph/internal/output"
	"github.com/goliatone/go-blockgraph/pkg/interfaces"
)

const (
	renderDocumentMessageType = "blockgraph.documents.render"
	renderOperation           = "documents.render"
)

// RenderDocumentCommand converts the page at RootID and writes it to Output
// in Format (json, ndjson, markdown, html or toc; empty means json).
type RenderDocumentCommand struct {
	RootID string    `json:"root_id"`
	Format string    `json:"format,omitempty"`
	Output io.Writer `json:"-"`
}

// Type implements command.Message.
func (RenderDocumentCommand) Type() string { return renderDocumentMessageType }

// Validate checks the root id, the format name and the output sink.
func (cmd RenderDocumentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.RootID, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("blockgraph.documents.render.root_id_required", "root id is required")
			}
			return nil
		})),
		validation.Field(&cmd.Format, validation.By(func(value any) error {
			if _, err := output.ParseFormat(value.(string)); err != nil {
				return validation.NewError("blockgraph.documents.render.format_unknown", "format must be json, ndjson, markdown, html or toc")
			}
			return nil
		})),
		validation.Field(&cmd.Output, validation.NotNil),
	)
}

// DocumentSource yields the converted document for a root id.
type DocumentSource interface {
	Document(ctx context.Context, rootID string) (*documents.Document, error)
}

// SourceFunc adapts a function to DocumentSource.
type SourceFunc func(ctx context.Context, rootID string) (*documents.Document, error)

// Document implements DocumentSource.
func (f SourceFunc) Document(ctx context.Context, rootID string) (*documents.Document, error) {
	return f(ctx, rootID)
}

// GraphSource builds documents from an already loaded graph.
func GraphSource(svc *documents.Service, g graph.Graph) DocumentSource {
	return SourceFunc(func(ctx context.Context, rootID string) (*documents.Document, error) {
		return svc.Build(ctx, g, rootID)
	})
}

// FetchSource builds documents from graphs loaded by the service Fetcher.
func FetchSource(svc *documents.Service) DocumentSource {
	return SourceFunc(svc.Fetch)
}

// RenderDocumentHandler executes RenderDocumentCommand.
type RenderDocumentHandler struct {
	inner *Handler[RenderDocumentCommand]
}

var _ command.Commander[RenderDocumentCommand] = (*RenderDocumentHandler)(nil)

// NewRenderDocumentHandler binds the handler to a document source and a
// printer. A nil printer uses output defaults.
func NewRenderDocumentHandler(source DocumentSource, printer *output.Printer, logger interfaces.Logger, opts ...HandlerOption[RenderDocumentCommand]) *RenderDocumentHandler {
	if logger == nil {
		logger = logging.NoOp()
	}
	if printer == nil {
		printer, _ = output.NewPrinter()
	}

	exec := func(ctx context.Context, msg RenderDocumentCommand) error {
		doc, err := source.Document(ctx, msg.RootID)
		if err != nil {
			return err
		}
		if doc == nil {
			return fmt.Errorf("commands: no document for %s", msg.RootID)
		}
		format, err := output.ParseFormat(msg.Format)
		if err != nil {
			return err
		}
		logging.WithDocumentContext(logger, doc.RootID, string(format)).
			Debug("documents.render.ready", "blocks", len(doc.Blocks), "anomalies", len(doc.Anomalies))
		return printer.Print(msg.Output, doc, format)
	}

	handlerOpts := []HandlerOption[RenderDocumentCommand]{
		WithLogger[RenderDocumentCommand](logger),
		WithOperation[RenderDocumentCommand](renderOperation),
		WithMessageFields(func(msg RenderDocumentCommand) map[string]any {
			return map[string]any{
				"root_id": msg.RootID,
				"format":  msg.Format,
			}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RenderDocumentHandler{inner: NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[RenderDocumentCommand].
func (h *RenderDocumentHandler) Execute(ctx context.Context, msg RenderDocumentCommand) error {
	return h.inner.Execute(ctx, msg)
}
