package statement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/payout"
	"github.com/marketplace/backend/internal/infrastructure/config"
)

const (
	defaultTimeout = 30 * time.Second
	// A4 in inches
	a4Width  = 8.27
	a4Height = 11.69
	margin   = 0.4
)

// ErrEmptyPDF is returned when chrome produced no output
var ErrEmptyPDF = errors.New("generated PDF is empty")

// PDFRenderer prints an HTML document to PDF
type PDFRenderer interface {
	PrintPDF(ctx context.Context, html string) ([]byte, error)
}

// ChromedpRenderer drives headless Chrome over the DevTools protocol
type ChromedpRenderer struct {
	timeout     time.Duration
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer connects to a remote Chrome when a URL is configured
// and launches a local headless browser otherwise
func NewChromedpRenderer(cfg config.StatementConfig, logger *zap.Logger) *ChromedpRenderer {
	r := &ChromedpRenderer{
		timeout: cfg.Timeout,
		logger:  logger.Named("statement"),
	}
	if r.timeout <= 0 {
		r.timeout = defaultTimeout
	}

	if cfg.ChromeRemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.ChromeRemoteURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-extensions", true),
			chromedp.Flag("font-render-hinting", "none"),
		)
		r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}
	return r
}

// PrintPDF loads html into a blank page and prints it on A4
func (r *ChromedpRenderer) PrintPDF(ctx context.Context, html string) ([]byte, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	// chromedp contexts do not inherit deadlines from ctx
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithMarginTop(margin).
				WithMarginBottom(margin).
				WithMarginLeft(margin).
				WithMarginRight(margin).
				Do(ctx)
			pdf = data
			return err
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("statement rendering timed out after %v: %w", r.timeout, err)
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, fmt.Errorf("chromedp execution failed: %w", err)
	}
	if len(pdf) == 0 {
		return nil, ErrEmptyPDF
	}

	r.logger.Info("Statement PDF rendered",
		zap.Int("bytes", len(pdf)),
		zap.Duration("duration", time.Since(start)))
	return pdf, nil
}

// Close shuts down the browser allocator
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

// Renderer builds the statement HTML and prints it
type Renderer struct {
	builder *HTMLBuilder
	printer PDFRenderer
}

var _ payout.StatementRenderer = (*Renderer)(nil)

// NewRenderer combines an HTML builder and a PDF printer
func NewRenderer(builder *HTMLBuilder, printer PDFRenderer) *Renderer {
	return &Renderer{builder: builder, printer: printer}
}

// Render implements payout.StatementRenderer
func (r *Renderer) Render(ctx context.Context, s *payout.Statement) ([]byte, error) {
	html, err := r.builder.Build(s)
	if err != nil {
		return nil, fmt.Errorf("build statement html: %w", err)
	}
	return r.printer.PrintPDF(ctx, html)
}
