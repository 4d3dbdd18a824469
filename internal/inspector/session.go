package inspector

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/standardbeagle/slidegen/internal/inspector/scripts"
)

// SessionOptions configures the headless browser.
type SessionOptions struct {
	// ExecPath overrides the Chrome binary lookup.
	ExecPath string
	// Headless runs Chrome without a window.
	Headless bool
	// NavigationTimeout bounds page load including network idle.
	NavigationTimeout time.Duration
	// ExtractTimeout bounds the scripts and the screenshot after load.
	ExtractTimeout time.Duration
	ViewportWidth     int
	ViewportHeight    int
}

// DefaultSessionOptions returns a 1920x1080 headless session with a 30s load
// budget and a 20s extraction budget.
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		Headless:          true,
		NavigationTimeout: 30 * time.Second,
		ExtractTimeout:    20 * time.Second,
		ViewportWidth:     1920,
		ViewportHeight:    1080,
	}
}

// Session owns one long-lived Chrome process. Each Render call gets its own
// tab, so concurrent renders never share DOM state.
type Session struct {
	opts SessionOptions

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewSession creates a session. The browser is started on first use.
func NewSession(opts SessionOptions) *Session {
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = 30 * time.Second
	}
	if opts.ExtractTimeout <= 0 {
		opts.ExtractTimeout = 20 * time.Second
	}
	if opts.ViewportWidth <= 0 || opts.ViewportHeight <= 0 {
		opts.ViewportWidth, opts.ViewportHeight = 1920, 1080
	}
	return &Session{opts: opts}
}

// Start launches Chrome if it is not already running.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked()
}

func (s *Session) startLocked() error {
	if s.browserCtx != nil {
		return nil
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.opts.Headless),
		chromedp.NoSandbox,
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(s.opts.ViewportWidth, s.opts.ViewportHeight),
	)
	if s.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(s.opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// An empty Run forces the browser process to start.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("%w: %v", ErrBrowser, err)
	}

	s.allocCancel = allocCancel
	s.browserCtx = browserCtx
	s.browserCancel = browserCancel
	slog.Info("browser_started", "headless", s.opts.Headless)
	return nil
}

// Close shuts down the browser process. It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browserCtx == nil {
		return nil
	}

	err := chromedp.Cancel(s.browserCtx)
	s.browserCancel()
	s.allocCancel()
	s.browserCtx = nil
	s.browserCancel = nil
	s.allocCancel = nil
	slog.Info("browser_stopped")
	return err
}

// Render loads url in a fresh tab and collects raw page data.
func (s *Session) Render(ctx context.Context, url string) (*PageData, error) {
	s.mu.Lock()
	if err := s.startLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	browserCtx := s.browserCtx
	s.mu.Unlock()

	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	defer tabCancel()

	// Cancel the tab when the caller gives up.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	// The first Run attaches the tab and ties its event loop to the context
	// it is given, so it must not carry a deadline.
	if err := chromedp.Run(tabCtx); err != nil {
		return nil, fmt.Errorf("%w: open tab: %v", ErrBrowser, err)
	}

	if err := runWithin(tabCtx, s.opts.NavigationTimeout,
		chromedp.EmulateViewport(int64(s.opts.ViewportWidth), int64(s.opts.ViewportHeight)),
		navigateIdle(url),
	); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNavigation, url, err)
	}

	data := &PageData{}
	if err := runWithin(tabCtx, s.opts.ExtractTimeout,
		chromedp.Evaluate(scripts.MetadataJS, &data.Meta),
		chromedp.Evaluate(scripts.ColorsJS, &data.Colors),
		chromedp.Evaluate(scripts.FontsJS, &data.Fonts),
		chromedp.Evaluate(scripts.LogosJS(LogoSelectors), &data.Logos),
		chromedp.CaptureScreenshot(&data.Screenshot),
	); err != nil {
		return nil, fmt.Errorf("extract %s: %w", url, err)
	}

	return data, nil
}

// runWithin runs actions on an attached tab under a deadline.
func runWithin(tabCtx context.Context, d time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(tabCtx, d)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// navigateIdle navigates and then waits until Chrome reports networkIdle for
// the new document.
func navigateIdle(url string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		idle := make(chan struct{})
		var once sync.Once
		var mu sync.Mutex
		started := false

		listenCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		chromedp.ListenTarget(listenCtx, func(ev interface{}) {
			e, ok := ev.(*page.EventLifecycleEvent)
			if !ok {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			switch e.Name {
			case "init":
				started = true
			case "networkIdle":
				if started {
					once.Do(func() { close(idle) })
				}
			}
		})

		if err := page.SetLifecycleEventsEnabled(true).Do(ctx); err != nil {
			return err
		}
		if err := chromedp.Navigate(url).Do(ctx); err != nil {
			return err
		}

		select {
		case <-idle:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}
