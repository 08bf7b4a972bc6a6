package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
)

// Humanized input for the live table. Poker sites watch for automation;
// instantly teleporting the cursor onto the fold button every hand is a
// tell. Movement follows a jittered cubic bezier, presses and releases get
// natural gaps.

func humanClickNode(ctx context.Context, nodeID cdp.NodeID) error {
	var box *dom.BoxModel
	if err := chromedp.Run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			box, err = dom.GetBoxModel().WithNodeID(nodeID).Do(ctx)
			return err
		}),
	); err != nil {
		return err
	}
	if len(box.Content) < 8 {
		return fmt.Errorf("node %d: degenerate box model", nodeID)
	}

	// Land somewhere inside the control, not dead center every time.
	targetX := (box.Content[0]+box.Content[2])/2 + (rand.Float64()-0.5)*8
	targetY := (box.Content[1]+box.Content[5])/2 + (rand.Float64()-0.5)*8

	startX := targetX + (rand.Float64()-0.5)*180 + 40
	startY := targetY + (rand.Float64()-0.5)*180 + 40
	if err := glideTo(ctx, startX, startY, targetX, targetY); err != nil {
		return err
	}

	time.Sleep(time.Duration(40+rand.Intn(120)) * time.Millisecond)

	if err := mouseEvent(ctx, input.MousePressed, targetX, targetY); err != nil {
		return err
	}
	time.Sleep(time.Duration(30+rand.Intn(80)) * time.Millisecond)
	return mouseEvent(ctx, input.MouseReleased, targetX+(rand.Float64()-0.5)*2, targetY+(rand.Float64()-0.5)*2)
}

// glideTo moves the cursor along a cubic bezier with per-step wobble.
func glideTo(ctx context.Context, fromX, fromY, toX, toY float64) error {
	dist := math.Hypot(toX-fromX, toY-fromY)
	steps := int(8 + dist/40)
	if steps > 28 {
		steps = 28
	}

	c1x := fromX + (toX-fromX)*0.3 + (rand.Float64()-0.5)*40
	c1y := fromY + (toY-fromY)*0.3 + (rand.Float64()-0.5)*40
	c2x := fromX + (toX-fromX)*0.7 + (rand.Float64()-0.5)*40
	c2y := fromY + (toY-fromY)*0.7 + (rand.Float64()-0.5)*40

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		u := 1 - t
		x := u*u*u*fromX + 3*u*u*t*c1x + 3*u*t*t*c2x + t*t*t*toX
		y := u*u*u*fromY + 3*u*u*t*c1y + 3*u*t*t*c2y + t*t*t*toY
		if err := mouseEvent(ctx, input.MouseMoved, x+(rand.Float64()-0.5)*2, y+(rand.Float64()-0.5)*2); err != nil {
			return err
		}
		time.Sleep(time.Duration(14+rand.Intn(10)) * time.Millisecond)
	}
	return nil
}

func mouseEvent(ctx context.Context, typ input.MouseType, x, y float64) error {
	return chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		ev := input.DispatchMouseEvent(typ, x, y)
		if typ == input.MousePressed || typ == input.MouseReleased {
			ev = ev.WithButton(input.Left).WithClickCount(1)
		}
		return ev.Do(ctx)
	}))
}

// humanTypeActions types a bet amount with uneven key timing. No typo
// simulation here: a stray digit in the raise box is real money.
func humanTypeActions(text string) []chromedp.Action {
	actions := make([]chromedp.Action, 0, len(text)*2)
	for i, ch := range text {
		actions = append(actions, chromedp.KeyEvent(string(ch)))
		delay := 60 + rand.Intn(50)
		if i > 0 && rune(text[i-1]) == ch {
			delay /= 2
		}
		actions = append(actions, chromedp.Sleep(time.Duration(delay)*time.Millisecond))
	}
	return actions
}
