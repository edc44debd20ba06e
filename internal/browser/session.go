// =============================================================================
// Requisition Filler - Browser Session
// =============================================================================
//
// A Session owns one Chrome instance driven over the DevTools protocol. It is
// opened explicitly, handed to whatever needs the page, and closed with
// defer; nothing in the application holds a global driver.
//
// LIFECYCLE:
//   1. Open launches Chrome (visible by default, the operator has to log in)
//      and navigates to the requisition system
//   2. Surface() exposes the current page as a form.Surface
//   3. Close shuts the browser down
//
// =============================================================================

package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/ginjaninja78/requisition-filler/internal/config"
	"github.com/ginjaninja78/requisition-filler/internal/logging"
)

// DefaultActionTimeout bounds a single browser action.
const DefaultActionTimeout = 15 * time.Second

// Session is an open browser.
type Session struct {
	ctx           context.Context
	cancelAlloc   context.CancelFunc
	cancelBrowser context.CancelFunc

	// ActionTimeout bounds every action issued through the session.
	ActionTimeout time.Duration

	logger logging.Logger
}

// Open launches a browser and navigates to url.
//
// PARAMETERS:
//   - ctx: Bounds the launch and navigation only; the browser outlives it
//   - settings: Browser executable, profile and window settings
//   - url: Page to open; empty leaves the browser on about:blank
//   - logger: Receives chromedp debug output
//
// RETURNS:
//   - An open Session; the caller must Close it
func Open(ctx context.Context, settings config.BrowserSettings, url string, logger logging.Logger) (*Session, error) {
	logger = logging.OrNop(logger)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", settings.Headless),
		chromedp.WindowSize(settings.WindowWidth, settings.WindowHeight),
	)
	if settings.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(settings.ExecPath))
	}
	if settings.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(settings.UserDataDir))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Debug))

	s := &Session{
		ctx:           browserCtx,
		cancelAlloc:   cancelAlloc,
		cancelBrowser: cancelBrowser,
		ActionTimeout: DefaultActionTimeout,
		logger:        logger,
	}

	// The first Run starts the browser and ties its lifetime to the context it
	// is given, so it must run on the session context itself.
	if err := chromedp.Run(browserCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	if url != "" {
		logger.Info("Opening %s", url)
		if err := s.run(ctx, chromedp.Navigate(url)); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
		}
	}

	return s, nil
}

// Surface returns the current page as a form surface.
func (s *Session) Surface() *Surface {
	return &Surface{session: s}
}

// Close shuts the browser down. It is safe to call more than once.
func (s *Session) Close() error {
	if s.cancelBrowser == nil {
		return nil
	}

	err := chromedp.Cancel(s.ctx)
	s.cancelBrowser()
	s.cancelAlloc()
	s.cancelBrowser, s.cancelAlloc = nil, nil

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}

// run executes actions on the browser, cancelled by either ctx or the
// session's action timeout.
func (s *Session) run(ctx context.Context, actions chromedp.Action) error {
	if s.cancelBrowser == nil {
		return fmt.Errorf("browser session is closed")
	}

	timeout := s.ActionTimeout
	if timeout <= 0 {
		timeout = DefaultActionTimeout
	}

	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions)
}
