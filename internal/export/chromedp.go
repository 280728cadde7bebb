package export

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/lebenslauf/internal/logging"
)

// RendererOptions configures the headless browser.
type RendererOptions struct {
	// ExecPath overrides the Chrome binary, e.g. from CHROME_PATH.
	ExecPath string
	// Timeout bounds the lifetime of one page.
	Timeout time.Duration
	// ViewportWidth is the window width in CSS pixels.
	ViewportWidth int
}

// Renderer owns one headless Chrome process and opens a tab per export.
type Renderer struct {
	opts          RendererOptions
	log           logging.Logger
	browserCtx    context.Context
	cancelAlloc   context.CancelFunc
	cancelBrowser context.CancelFunc
}

// NewRenderer starts Chrome. The browser lives until Close.
func NewRenderer(ctx context.Context, log logging.Logger, opts RendererOptions) (*Renderer, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = 1280
	}
	if log == nil {
		log = logging.Discard()
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("font-render-hinting", "none"),
		chromedp.WindowSize(opts.ViewportWidth, 1024),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// An empty Run launches the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	log.Debug(ctx, "headless browser started", "exec_path", opts.ExecPath)

	return &Renderer{
		opts:          opts,
		log:           log,
		browserCtx:    browserCtx,
		cancelAlloc:   cancelAlloc,
		cancelBrowser: cancelBrowser,
	}, nil
}

// Close stops the browser.
func (r *Renderer) Close() {
	r.cancelBrowser()
	r.cancelAlloc()
}

// Open loads html into a new tab and returns the element surfaceID as a
// Surface. The returned close func must be called when done.
func (r *Renderer) Open(ctx context.Context, html, surfaceID string) (*PageSurface, func(), error) {
	tabCtx, cancelTab := chromedp.NewContext(r.browserCtx)
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, r.opts.Timeout)
	stop := context.AfterFunc(ctx, cancelTab)
	closeTab := func() {
		stop()
		cancelTimeout()
		cancelTab()
	}

	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		closeTab()
		return nil, nil, fmt.Errorf("failed to load preview page: %w", err)
	}
	return &PageSurface{tab: tabCtx, id: surfaceID}, closeTab, nil
}

// PageSurface is a preview element inside a browser tab.
type PageSurface struct {
	tab context.Context
	id  string
}

var _ Surface = (*PageSurface)(nil)

const restoreStateKey = "__lebenslaufRestore"

const normalizeScript = `(function(id, key) {
  const el = document.getElementById(id);
  if (!el) return -1;
  const saved = [];
  const keep = (n, prop) => ({prop, value: n.style.getPropertyValue(prop), priority: n.style.getPropertyPriority(prop)});
  for (let n = el; n && n.nodeType === 1; n = n.parentElement) {
    const cs = getComputedStyle(n);
    if (cs.transform && cs.transform !== 'none') {
      saved.push({node: n, ...keep(n, 'transform')});
      n.style.setProperty('transform', 'none', 'important');
    }
    if (cs.display === 'none') {
      saved.push({node: n, ...keep(n, 'display')});
      n.style.setProperty('display', 'block', 'important');
    }
  }
  window[key] = saved;
  return saved.length;
})(%s, %s)`

const restoreScript = `(function(key) {
  const saved = window[key] || [];
  for (let i = saved.length - 1; i >= 0; i--) {
    const s = saved[i];
    if (s.value) s.node.style.setProperty(s.prop, s.value, s.priority);
    else s.node.style.removeProperty(s.prop);
  }
  delete window[key];
  return saved.length;
})(%s)`

const measureScript = `(function(id) {
  const el = document.getElementById(id);
  if (!el) return null;
  const r = el.getBoundingClientRect();
  return {
    x: r.left + window.scrollX,
    y: r.top + window.scrollY,
    width: Math.max(r.width, el.scrollWidth),
    height: Math.max(r.height, el.scrollHeight)
  };
})(%s)`

const waitImagesScript = `(function(id, timeout) {
  const el = document.getElementById(id);
  if (!el) return Promise.resolve(0);
  const imgs = Array.from(el.querySelectorAll('img')).filter(i => !i.complete);
  if (imgs.length === 0) return Promise.resolve(0);
  const settled = imgs.map(i => new Promise(done => {
    i.addEventListener('load', done, {once: true});
    i.addEventListener('error', done, {once: true});
  }));
  const timer = new Promise(done => setTimeout(done, timeout));
  return Promise.race([Promise.all(settled), timer]).then(() => imgs.filter(i => !i.complete).length);
})(%s, %d)`

func (s *PageSurface) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(s.tab, actions...)
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// Locate implements Surface.
func (s *PageSurface) Locate(ctx context.Context) error {
	var found bool
	script := fmt.Sprintf("document.getElementById(%s) !== null", strconv.Quote(s.id))
	if err := s.run(ctx, chromedp.Evaluate(script, &found)); err != nil {
		return fmt.Errorf("failed to look up preview surface: %w", err)
	}
	if !found {
		return ErrSurfaceNotFound
	}
	return nil
}

// Normalize implements Surface.
func (s *PageSurface) Normalize(ctx context.Context) (RestoreFunc, error) {
	var changed int
	script := fmt.Sprintf(normalizeScript, strconv.Quote(s.id), strconv.Quote(restoreStateKey))
	if err := s.run(ctx, chromedp.Evaluate(script, &changed)); err != nil {
		return nil, fmt.Errorf("failed to prepare preview surface: %w", err)
	}
	if changed < 0 {
		return nil, ErrSurfaceNotFound
	}
	return func(ctx context.Context) error {
		var restored int
		script := fmt.Sprintf(restoreScript, strconv.Quote(restoreStateKey))
		return s.run(ctx, chromedp.Evaluate(script, &restored))
	}, nil
}

// Measure implements Surface.
func (s *PageSurface) Measure(ctx context.Context) (Box, error) {
	var box *Box
	script := fmt.Sprintf(measureScript, strconv.Quote(s.id))
	if err := s.run(ctx, chromedp.Evaluate(script, &box)); err != nil {
		return Box{}, fmt.Errorf("failed to measure preview surface: %w", err)
	}
	if box == nil {
		return Box{}, ErrSurfaceNotFound
	}
	return *box, nil
}

// WaitForImages implements Surface.
func (s *PageSurface) WaitForImages(ctx context.Context, timeout time.Duration) (int, error) {
	var pending int
	script := fmt.Sprintf(waitImagesScript, strconv.Quote(s.id), timeout.Milliseconds())
	if err := s.run(ctx, chromedp.Evaluate(script, &pending, awaitPromise)); err != nil {
		return 0, err
	}
	return pending, nil
}

// Capture implements Surface.
func (s *PageSurface) Capture(ctx context.Context, box Box, scale float64) ([]byte, error) {
	var buf []byte
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		white := &cdp.RGBA{R: 255, G: 255, B: 255, A: 1}
		if err := emulation.SetDefaultBackgroundColorOverride().WithColor(white).Do(ctx); err != nil {
			return err
		}
		var err error
		buf, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithClip(&page.Viewport{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height, Scale: scale}).
			WithCaptureBeyondViewport(true).
			WithFromSurface(true).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, &CaptureError{Cause: err}
	}
	return buf, nil
}

// OpenSurface is Open returning the Surface interface.
func (r *Renderer) OpenSurface(ctx context.Context, html, surfaceID string) (Surface, func(), error) {
	s, closeTab, err := r.Open(ctx, html, surfaceID)
	if err != nil {
		return nil, nil, err
	}
	return s, closeTab, nil
}
