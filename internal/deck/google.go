package deck

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/slides/v1"
)

// ClientOptions configures Google API clients.
type ClientOptions struct {
	// Limiter throttles every API call. It is shared across clients so all
	// users of the process stay inside one quota. Nil means unlimited.
	Limiter *rate.Limiter

	// SlidesEndpoint and DriveEndpoint override the API base URLs.
	SlidesEndpoint string
	DriveEndpoint  string

	// Base is the transport under auth and tracing. Nil uses http.DefaultTransport.
	Base http.RoundTripper
}

// NewLimiter returns a limiter allowing perSecond calls with burst.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// GoogleClient implements SlidesAPI and DriveAPI for one user's token.
type GoogleClient struct {
	slides  *slides.Service
	drive   *drive.Service
	limiter *rate.Limiter
}

// NewGoogleClient builds Slides and Drive services authorized by ts.
func NewGoogleClient(ctx context.Context, ts oauth2.TokenSource, opts ClientOptions) (*GoogleClient, error) {
	base := opts.Base
	if base == nil {
		base = http.DefaultTransport
	}
	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(&oauth2.Transport{Source: ts, Base: base}),
	}

	slidesOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if opts.SlidesEndpoint != "" {
		slidesOpts = append(slidesOpts, option.WithEndpoint(opts.SlidesEndpoint))
	}
	slidesSvc, err := slides.NewService(ctx, slidesOpts...)
	if err != nil {
		return nil, fmt.Errorf("create slides service: %w", err)
	}

	driveOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if opts.DriveEndpoint != "" {
		driveOpts = append(driveOpts, option.WithEndpoint(opts.DriveEndpoint))
	}
	driveSvc, err := drive.NewService(ctx, driveOpts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &GoogleClient{slides: slidesSvc, drive: driveSvc, limiter: opts.Limiter}, nil
}

func (c *GoogleClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// CreatePresentation creates an empty deck.
func (c *GoogleClient) CreatePresentation(ctx context.Context, title string) (*slides.Presentation, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return c.slides.Presentations.Create(&slides.Presentation{Title: title}).Context(ctx).Do()
}

// GetPresentation fetches a deck with its pages.
func (c *GoogleClient) GetPresentation(ctx context.Context, id string) (*slides.Presentation, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return c.slides.Presentations.Get(id).Context(ctx).Do()
}

// BatchUpdate applies reqs atomically.
func (c *GoogleClient) BatchUpdate(ctx context.Context, id string, reqs []*slides.Request) (*slides.BatchUpdatePresentationResponse, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return c.slides.Presentations.BatchUpdate(id, &slides.BatchUpdatePresentationRequest{
		Requests: reqs,
	}).Context(ctx).Do()
}

// CopyFile copies a Drive file and returns the new id.
func (c *GoogleClient) CopyFile(ctx context.Context, fileID, name string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	f, err := c.drive.Files.Copy(fileID, &drive.File{Name: name}).
		SupportsAllDrives(true).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	return f.Id, nil
}

// DeleteFile permanently deletes a Drive file.
func (c *GoogleClient) DeleteFile(ctx context.Context, fileID string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	return c.drive.Files.Delete(fileID).SupportsAllDrives(true).Context(ctx).Do()
}

// ExportFile downloads a Google document converted to mimeType.
func (c *GoogleClient) ExportFile(ctx context.Context, fileID, mimeType string) (io.ReadCloser, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	resp, err := c.drive.Files.Export(fileID, mimeType).Context(ctx).Download()
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
