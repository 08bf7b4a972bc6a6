package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/chromedp/chromedp"
)

// startBrowser launches Chrome on the configured profile and returns the
// browser-level chromedp context. Tabs for individual tables derive from it.
func startBrowser(cfg Config) (context.Context, context.CancelFunc, error) {
	if err := os.MkdirAll(filepath.Join(cfg.ProfileDir, "Default"), 0755); err != nil {
		return nil, nil, fmt.Errorf("profile dir: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(cfg.ProfileDir),
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// Force the browser process up before anyone derives a tab.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, nil, fmt.Errorf("launch chrome: %w", err)
	}

	slog.Info("browser started", "profile", cfg.ProfileDir, "headless", cfg.Headless)
	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}
	return browserCtx, cancel, nil
}

// newTab opens a fresh tab on the running browser and navigates it.
func newTab(browserCtx context.Context, url string) (context.Context, context.CancelFunc, error) {
	ctx, cancel := chromedp.NewContext(browserCtx)
	if err := chromedp.Run(ctx, chromedp.Navigate(url)); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("open %s: %w", url, err)
	}
	return ctx, cancel, nil
}
