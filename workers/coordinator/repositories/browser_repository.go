package repositories

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	shared "github.com/Torvusil/Furadder/workers/shared/domain"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

//go:embed fill_receiver.js
var fillReceiverScript string

type browserTab struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// receiverResult is what window.__furadder.receive evaluates to.
type receiverResult struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	NoReceiver bool   `json:"noReceiver"`
}

// BrowserRepository opens submission pages as browser tabs and talks to the
// receiver script injected into each of them. A tab's target id is its
// context id.
type BrowserRepository struct {
	browserCtx context.Context

	mu   sync.Mutex
	tabs map[string]browserTab
}

// NewBrowserRepository needs a chromedp context whose browser is already running.
func NewBrowserRepository(browserCtx context.Context) *BrowserRepository {
	return &BrowserRepository{
		browserCtx: browserCtx,
		tabs:       make(map[string]browserTab),
	}
}

// Open creates a tab and starts loading url in it. It returns as soon as the
// tab exists; the page may still be loading when the first message arrives.
func (r *BrowserRepository) Open(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tabCtx, cancel := chromedp.NewContext(r.browserCtx)
	err := chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(fillReceiverScript).Do(ctx)
		return err
	}))
	if err != nil {
		cancel()
		return "", fmt.Errorf("failed to open tab for %s: %w", url, err)
	}

	targetID := string(chromedp.FromContext(tabCtx).Target.TargetID)
	r.mu.Lock()
	r.tabs[targetID] = browserTab{ctx: tabCtx, cancel: cancel}
	r.mu.Unlock()

	go func() {
		if err := chromedp.Run(tabCtx, chromedp.Navigate(url)); err != nil {
			log.Printf("Navigation of %s to %s failed: %v", targetID, url, err)
		}
	}()

	return targetID, nil
}

// Send evaluates the command in the target tab and waits up to timeout for
// the receiver's answer.
func (r *BrowserRepository) Send(ctx context.Context, target, command string, data interface{}, timeout time.Duration) (shared.Reply, error) {
	r.mu.Lock()
	tab, ok := r.tabs[target]
	r.mu.Unlock()
	if !ok {
		return shared.Reply{}, shared.NewBusError(shared.KindNoReceiver, target, shared.ErrNoReceiver)
	}

	expr, err := receiverExpression(command, data)
	if err != nil {
		return shared.Reply{}, shared.NewBusError(shared.KindFatal, target, err)
	}

	sendCtx, cancel := context.WithTimeout(tab.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var res receiverResult
	err = chromedp.Run(sendCtx, chromedp.Evaluate(expr, &res, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithAwaitPromise(true)
	}))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return shared.Reply{}, ctxErr
	}

	switch {
	case err == nil && res.NoReceiver:
		return shared.Reply{}, shared.NewBusError(shared.KindNoReceiver, target, shared.ErrNoReceiver)
	case err == nil && res.Error != "":
		return shared.Reply{}, shared.NewBusError(shared.KindFatal, target, &shared.Rejection{Reason: res.Error})
	case err == nil:
		return shared.Reply{Success: res.Success}, nil
	case errors.Is(err, context.DeadlineExceeded):
		return shared.Reply{}, shared.NewBusError(shared.KindTimeout, target, shared.ErrReplyTimeout)
	case isMissingContext(err):
		return shared.Reply{}, shared.NewBusError(shared.KindNoReceiver, target, err)
	default:
		return shared.Reply{}, shared.NewBusError(shared.KindFatal, target, err)
	}
}

// Release stops tracking target once nothing will be sent to it again. The
// tab itself stays open for the user and goes away with the browser.
func (r *BrowserRepository) Release(target string) {
	r.mu.Lock()
	delete(r.tabs, target)
	r.mu.Unlock()
}

// CloseAll shuts every tab still being delivered to.
func (r *BrowserRepository) CloseAll() {
	r.mu.Lock()
	tabs := r.tabs
	r.tabs = make(map[string]browserTab)
	r.mu.Unlock()
	for _, tab := range tabs {
		tab.cancel()
	}
}

func receiverExpression(command string, data interface{}) (string, error) {
	msg, err := json.Marshal(struct {
		Command string      `json:"command"`
		Data    interface{} `json:"data"`
	}{command, data})
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", command, err)
	}
	return fmt.Sprintf("(window.__furadder ? window.__furadder.receive(%s) : {noReceiver: true})", msg), nil
}

// isMissingContext reports errors raised while the page is between documents.
func isMissingContext(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Execution context was destroyed") ||
		strings.Contains(msg, "Cannot find context") ||
		strings.Contains(msg, "Cannot find default execution context")
}
