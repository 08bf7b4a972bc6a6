package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Action is one of the table's decision controls.
type Action int

const (
	ActionUnknown Action = iota
	ActionCall
	ActionRaise
	ActionCheck
	ActionFold
)

func (a Action) String() string {
	switch a {
	case ActionCall:
		return "call"
	case ActionRaise:
		return "raise"
	case ActionCheck:
		return "check"
	case ActionFold:
		return "fold"
	default:
		return "unknown"
	}
}

func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func actionFromString(s string) Action {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call":
		return ActionCall
	case "raise":
		return ActionRaise
	case "check":
		return ActionCheck
	case "fold":
		return ActionFold
	default:
		return ActionUnknown
	}
}

// orderedActions fixes the probe order so Available output is deterministic.
var orderedActions = [...]Action{ActionCall, ActionRaise, ActionCheck, ActionFold}

var actionSelectors = map[Action]string{
	ActionCall:  ".game-decisions-ctn .button-1.call",
	ActionRaise: ".game-decisions-ctn .button-1.raise",
	ActionCheck: ".game-decisions-ctn .button-1.check",
	ActionFold:  ".game-decisions-ctn .button-1.fold",
}

const (
	selRaiseInput   = ".raise-controller-form .value-input-ctn .value"
	selRaiseConfirm = ".raise-controller-form .bet"
	selFoldConfirm  = ".alert-1-buttons button.middle-gray"

	// raiseFormTimeout bounds the wait for the raise input to render after
	// the raise control opens its form.
	raiseFormTimeout = 5 * time.Second
	// foldConfirmTimeout bounds the wait for an optional confirmation
	// dialog; many folds never show one.
	foldConfirmTimeout = 10 * time.Second
)

// Dispatcher probes and drives the decision controls. Like the reader it
// never surfaces errors: an unavailable action is a logged no-op, a control
// vanishing mid-sequence aborts the sequence quietly. Clicking never
// partially commits a bet, so there is nothing to roll back.
type Dispatcher struct {
	dom pageDOM
}

func newDispatcher(dom pageDOM) *Dispatcher {
	return &Dispatcher{dom: dom}
}

// Available reports the actions whose control exists, is visible, and is
// not disabled, in fixed call/raise/check/fold order.
func (d *Dispatcher) Available(ctx context.Context) []Action {
	out := []Action{}
	for _, a := range orderedActions {
		if d.available(ctx, a) {
			out = append(out, a)
		}
	}
	return out
}

func (d *Dispatcher) available(ctx context.Context, a Action) bool {
	sel, ok := actionSelectors[a]
	if !ok {
		return false
	}
	// An absent control probes as not visible, so presence needs no
	// separate check.
	return d.dom.Visible(ctx, sel) && !d.dom.Disabled(ctx, sel)
}

// Perform executes the chosen action. amount only applies to raises.
func (d *Dispatcher) Perform(ctx context.Context, a Action, amount int) {
	if !d.available(ctx, a) {
		slog.Info("action not available", "action", a.String())
		return
	}
	switch a {
	case ActionRaise:
		d.raise(ctx, amount)
	case ActionFold:
		d.fold(ctx)
	default:
		if err := d.dom.Click(ctx, actionSelectors[a]); err != nil {
			slog.Warn("action click failed", "action", a.String(), "err", err)
		}
	}
}

// raise opens the amount form, waits for the input to render, fills it and
// confirms. Each missing step aborts the sequence quietly.
func (d *Dispatcher) raise(ctx context.Context, amount int) {
	if err := d.dom.Click(ctx, actionSelectors[ActionRaise]); err != nil {
		slog.Warn("raise open failed", "err", err)
		return
	}
	if err := d.dom.WaitClickable(ctx, selRaiseInput, raiseFormTimeout); err != nil {
		slog.Warn("raise form did not render", "err", err)
		return
	}
	if err := d.dom.SetValue(ctx, selRaiseInput, strconv.Itoa(amount)); err != nil {
		slog.Warn("raise amount input failed", "err", err)
		return
	}
	if err := d.dom.Click(ctx, selRaiseConfirm); err != nil {
		slog.Warn("raise confirm failed", "err", err)
	}
}

// fold clicks the control and then best-effort accepts the confirmation
// dialog. No dialog within the timeout just means none was required.
func (d *Dispatcher) fold(ctx context.Context) {
	if err := d.dom.Click(ctx, actionSelectors[ActionFold]); err != nil {
		slog.Warn("fold click failed", "err", err)
		return
	}
	if err := d.dom.WaitClickable(ctx, selFoldConfirm, foldConfirmTimeout); err != nil {
		slog.Debug("no fold confirmation dialog", "err", err)
		return
	}
	if err := d.dom.Click(ctx, selFoldConfirm); err != nil {
		slog.Warn("fold confirm failed", "err", err)
	}
}
