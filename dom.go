package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// queryTimeout bounds every single DOM lookup. Missing elements resolve to
// empty values, they never block a state read for long.
const queryTimeout = 3 * time.Second

// domNode is a handle to one matched element, scoped queries run against
// its subtree.
type domNode interface {
	Text(ctx context.Context, sel string) string
	ClassAttr(ctx context.Context) string
	Nodes(ctx context.Context, sel string) ([]domNode, error)
}

// pageDOM is the capability surface the parser and dispatcher run against.
// All getters treat "element not found" as an empty result; only Nodes and
// the mutating calls surface errors. The ctx argument is the tab's chromedp
// context for the live implementation.
type pageDOM interface {
	Text(ctx context.Context, sel string) string
	Texts(ctx context.Context, sel string) []string
	ClassAttr(ctx context.Context, sel string) (string, bool)
	Nodes(ctx context.Context, sel string) ([]domNode, error)
	Visible(ctx context.Context, sel string) bool
	Disabled(ctx context.Context, sel string) bool
	Click(ctx context.Context, sel string) error
	SetValue(ctx context.Context, sel, value string) error
	WaitVisible(ctx context.Context, sel string, timeout time.Duration) error
	WaitClickable(ctx context.Context, sel string, timeout time.Duration) error
	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	Location(ctx context.Context) string
}

// cdpDOM implements pageDOM over a live chromedp tab. When human is set,
// clicks and typing are routed through the humanized input layer.
type cdpDOM struct {
	human bool
}

func (d cdpDOM) short(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

func (d cdpDOM) Text(ctx context.Context, sel string) string {
	qctx, cancel := d.short(ctx)
	defer cancel()
	var s string
	if err := chromedp.Run(qctx,
		chromedp.Text(sel, &s, chromedp.ByQuery, chromedp.AtLeast(0)),
	); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func (d cdpDOM) Texts(ctx context.Context, sel string) []string {
	qctx, cancel := d.short(ctx)
	defer cancel()
	expr := fmt.Sprintf(
		`Array.from(document.querySelectorAll(%q)).map(el => el.innerText.trim())`, sel)
	var out []string
	if err := chromedp.Run(qctx, chromedp.Evaluate(expr, &out)); err != nil {
		return nil
	}
	return out
}

func (d cdpDOM) ClassAttr(ctx context.Context, sel string) (string, bool) {
	qctx, cancel := d.short(ctx)
	defer cancel()
	var val string
	var ok bool
	if err := chromedp.Run(qctx,
		chromedp.AttributeValue(sel, "class", &val, &ok, chromedp.ByQuery, chromedp.AtLeast(0)),
	); err != nil {
		return "", false
	}
	return val, ok
}

func (d cdpDOM) Nodes(ctx context.Context, sel string) ([]domNode, error) {
	qctx, cancel := d.short(ctx)
	defer cancel()
	var nodes []*cdp.Node
	if err := chromedp.Run(qctx,
		chromedp.Nodes(sel, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)),
	); err != nil {
		return nil, fmt.Errorf("query %q: %w", sel, err)
	}
	out := make([]domNode, len(nodes))
	for i, n := range nodes {
		out[i] = cdpNode{n: n, dom: d}
	}
	return out, nil
}

func (d cdpDOM) Visible(ctx context.Context, sel string) bool {
	qctx, cancel := d.short(ctx)
	defer cancel()
	expr := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return false;
		const r = el.getBoundingClientRect();
		const st = window.getComputedStyle(el);
		return r.width > 0 && r.height > 0 && st.display !== "none" && st.visibility !== "hidden";
	})()`, sel)
	var vis bool
	if err := chromedp.Run(qctx, chromedp.Evaluate(expr, &vis)); err != nil {
		return false
	}
	return vis
}

func (d cdpDOM) Disabled(ctx context.Context, sel string) bool {
	qctx, cancel := d.short(ctx)
	defer cancel()
	expr := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return true;
		return el.disabled === true || el.getAttribute("disabled") !== null;
	})()`, sel)
	disabled := true
	if err := chromedp.Run(qctx, chromedp.Evaluate(expr, &disabled)); err != nil {
		return true
	}
	return disabled
}

func (d cdpDOM) Click(ctx context.Context, sel string) error {
	qctx, cancel := d.short(ctx)
	defer cancel()
	if d.human {
		var nodes []*cdp.Node
		if err := chromedp.Run(qctx,
			chromedp.Nodes(sel, &nodes, chromedp.ByQuery, chromedp.AtLeast(0)),
		); err != nil {
			return fmt.Errorf("click %q: %w", sel, err)
		}
		if len(nodes) == 0 {
			return fmt.Errorf("click %q: no match", sel)
		}
		return humanClickNode(qctx, nodes[0].NodeID)
	}
	if err := chromedp.Run(qctx, chromedp.Click(sel, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("click %q: %w", sel, err)
	}
	return nil
}

func (d cdpDOM) SetValue(ctx context.Context, sel, value string) error {
	qctx, cancel := d.short(ctx)
	defer cancel()
	if d.human {
		if err := chromedp.Run(qctx,
			chromedp.Focus(sel, chromedp.ByQuery),
			chromedp.SetValue(sel, "", chromedp.ByQuery),
		); err != nil {
			return fmt.Errorf("set value %q: %w", sel, err)
		}
		return chromedp.Run(qctx, humanTypeActions(value)...)
	}
	if err := chromedp.Run(qctx, chromedp.SetValue(sel, value, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("set value %q: %w", sel, err)
	}
	return nil
}

func (d cdpDOM) WaitVisible(ctx context.Context, sel string, timeout time.Duration) error {
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := chromedp.Run(wctx, chromedp.WaitVisible(sel, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("wait visible %q: %w", sel, err)
	}
	return nil
}

func (d cdpDOM) WaitClickable(ctx context.Context, sel string, timeout time.Duration) error {
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := chromedp.Run(wctx,
		chromedp.WaitVisible(sel, chromedp.ByQuery),
		chromedp.WaitEnabled(sel, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("wait clickable %q: %w", sel, err)
	}
	return nil
}

func (d cdpDOM) Navigate(ctx context.Context, url string) error {
	return chromedp.Run(ctx, chromedp.Navigate(url))
}

func (d cdpDOM) Reload(ctx context.Context) error {
	return chromedp.Run(ctx, chromedp.Reload())
}

func (d cdpDOM) Location(ctx context.Context) string {
	qctx, cancel := d.short(ctx)
	defer cancel()
	var loc string
	if err := chromedp.Run(qctx, chromedp.Location(&loc)); err != nil {
		return ""
	}
	return loc
}

// cdpNode wraps a resolved cdp node; descendant queries use FromNode so the
// selector only matches within this element's subtree.
type cdpNode struct {
	n   *cdp.Node
	dom cdpDOM
}

func (e cdpNode) Text(ctx context.Context, sel string) string {
	qctx, cancel := e.dom.short(ctx)
	defer cancel()
	var s string
	if err := chromedp.Run(qctx,
		chromedp.Text(sel, &s, chromedp.ByQuery, chromedp.FromNode(e.n), chromedp.AtLeast(0)),
	); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func (e cdpNode) ClassAttr(ctx context.Context) string {
	return e.n.AttributeValue("class")
}

func (e cdpNode) Nodes(ctx context.Context, sel string) ([]domNode, error) {
	qctx, cancel := e.dom.short(ctx)
	defer cancel()
	var nodes []*cdp.Node
	if err := chromedp.Run(qctx,
		chromedp.Nodes(sel, &nodes, chromedp.ByQueryAll, chromedp.FromNode(e.n), chromedp.AtLeast(0)),
	); err != nil {
		return nil, fmt.Errorf("scoped query %q: %w", sel, err)
	}
	out := make([]domNode, len(nodes))
	for i, n := range nodes {
		out[i] = cdpNode{n: n, dom: e.dom}
	}
	return out, nil
}
