// Package browser renders category pages in headless Chrome.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/chromedp"
)

const (
	DefaultNavTimeout = 60 * time.Second
	DefaultSettle     = 5 * time.Second
	// contentGrace bounds reading the document once the page has settled.
	contentGrace = 10 * time.Second
)

type Config struct {
	ProxyHost  string
	ProxyPort  string
	ProxyUser  string
	ProxyPass  string
	NavTimeout time.Duration
	Settle     time.Duration
}

// ProxyServer returns the --proxy-server value, or an empty string when no
// proxy is configured.
func (c Config) ProxyServer() string {
	if c.ProxyHost == "" {
		return ""
	}
	if c.ProxyPort == "" {
		return "http://" + c.ProxyHost
	}
	return "http://" + net.JoinHostPort(c.ProxyHost, c.ProxyPort)
}

func (c Config) withDefaults() Config {
	if c.NavTimeout <= 0 {
		c.NavTimeout = DefaultNavTimeout
	}
	if c.Settle <= 0 {
		c.Settle = DefaultSettle
	}
	return c
}

type Chrome struct {
	conf   Config
	logger *slog.Logger
}

func New(conf Config, logger *slog.Logger) *Chrome {
	return &Chrome{
		conf:   conf.withDefaults(),
		logger: logger,
	}
}

func (c *Chrome) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if proxy := c.conf.ProxyServer(); proxy != "" {
		opts = append(opts, chromedp.ProxyServer(proxy))
	}
	return opts
}

// Fetch starts a fresh browser, navigates to url, waits for the page to settle
// and returns the rendered HTML.
func (c *Chrome) Fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.conf.NavTimeout+c.conf.Settle+contentGrace)
	defer cancel()
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, c.allocatorOptions()...)
	defer allocCancel()
	cdpctx, cdpcancel := chromedp.NewContext(allocCtx)
	defer cdpcancel()

	actions := make([]chromedp.Action, 0, 4)
	if c.conf.ProxyUser != "" {
		c.answerProxyAuth(cdpctx)
		actions = append(actions, fetch.Enable().WithHandleAuthRequests(true))
	}

	var res string
	actions = append(actions,
		navigate(url, c.conf.NavTimeout),
		chromedp.Sleep(c.conf.Settle),
		chromedp.OuterHTML("html", &res, chromedp.ByQuery),
	)
	if err := chromedp.Run(cdpctx, actions...); err != nil {
		return "", fmt.Errorf("could not render %s: %w", url, err)
	}
	c.logger.Debug("rendered page", "url", url, "bytes", len(res))

	return res, nil
}

func navigate(url string, timeout time.Duration) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		navCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return chromedp.Navigate(url).Do(navCtx)
	}
}

// answerProxyAuth resumes paused requests and answers proxy auth challenges
// with the configured credentials.
func (c *Chrome) answerProxyAuth(ctx context.Context) {
	chromedp.ListenTarget(ctx, func(ev any) {
		switch ev := ev.(type) {
		case *fetch.EventRequestPaused:
			go func() {
				exec := cdp.WithExecutor(ctx, chromedp.FromContext(ctx).Target)
				if err := fetch.ContinueRequest(ev.RequestID).Do(exec); err != nil {
					c.logger.Debug("could not continue request", "error", err)
				}
			}()
		case *fetch.EventAuthRequired:
			go func() {
				exec := cdp.WithExecutor(ctx, chromedp.FromContext(ctx).Target)
				resp := &fetch.AuthChallengeResponse{
					Response: fetch.AuthChallengeResponseResponseProvideCredentials,
					Username: c.conf.ProxyUser,
					Password: c.conf.ProxyPass,
				}
				if err := fetch.ContinueWithAuth(ev.RequestID, resp).Do(exec); err != nil {
					c.logger.Warn("could not answer proxy auth", "error", err)
				}
			}()
		}
	})
}
