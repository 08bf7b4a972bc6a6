package main

import (
	"context"
	"time"
)

// fakeNode and fakeDOM implement the DOM capability over fixture data so
// parser and dispatcher behavior can be pinned without a browser.

type fakeNode struct {
	class    string
	texts    map[string]string
	children map[string][]*fakeNode
	childErr map[string]error
}

func (n *fakeNode) Text(ctx context.Context, sel string) string {
	return n.texts[sel]
}

func (n *fakeNode) ClassAttr(ctx context.Context) string {
	return n.class
}

func (n *fakeNode) Nodes(ctx context.Context, sel string) ([]domNode, error) {
	if err := n.childErr[sel]; err != nil {
		return nil, err
	}
	kids := n.children[sel]
	out := make([]domNode, len(kids))
	for i, k := range kids {
		out[i] = k
	}
	return out, nil
}

type fakeDOM struct {
	texts    map[string]string
	textsAll map[string][]string
	classes  map[string]string
	nodes    map[string][]*fakeNode
	nodesErr map[string]error
	visible  map[string]bool
	disabled map[string]bool
	waitFail map[string]bool
	location string

	// log records mutating calls in order: "click <sel>", "set <sel>=<v>".
	log []string
}

func newFakeDOM() *fakeDOM {
	return &fakeDOM{
		texts:    map[string]string{},
		textsAll: map[string][]string{},
		classes:  map[string]string{},
		nodes:    map[string][]*fakeNode{},
		nodesErr: map[string]error{},
		visible:  map[string]bool{},
		disabled: map[string]bool{},
		waitFail: map[string]bool{},
	}
}

func (d *fakeDOM) Text(ctx context.Context, sel string) string {
	return d.texts[sel]
}

func (d *fakeDOM) Texts(ctx context.Context, sel string) []string {
	return d.textsAll[sel]
}

func (d *fakeDOM) ClassAttr(ctx context.Context, sel string) (string, bool) {
	v, ok := d.classes[sel]
	return v, ok
}

func (d *fakeDOM) Nodes(ctx context.Context, sel string) ([]domNode, error) {
	if err := d.nodesErr[sel]; err != nil {
		return nil, err
	}
	ns := d.nodes[sel]
	out := make([]domNode, len(ns))
	for i, n := range ns {
		out[i] = n
	}
	return out, nil
}

func (d *fakeDOM) Visible(ctx context.Context, sel string) bool {
	return d.visible[sel]
}

func (d *fakeDOM) Disabled(ctx context.Context, sel string) bool {
	return d.disabled[sel]
}

func (d *fakeDOM) Click(ctx context.Context, sel string) error {
	d.log = append(d.log, "click "+sel)
	return nil
}

func (d *fakeDOM) SetValue(ctx context.Context, sel, value string) error {
	d.log = append(d.log, "set "+sel+"="+value)
	return nil
}

func (d *fakeDOM) WaitVisible(ctx context.Context, sel string, timeout time.Duration) error {
	if d.waitFail[sel] {
		return context.DeadlineExceeded
	}
	return nil
}

func (d *fakeDOM) WaitClickable(ctx context.Context, sel string, timeout time.Duration) error {
	if d.waitFail[sel] {
		return context.DeadlineExceeded
	}
	return nil
}

func (d *fakeDOM) Navigate(ctx context.Context, url string) error {
	d.log = append(d.log, "navigate "+url)
	return nil
}

func (d *fakeDOM) Reload(ctx context.Context) error {
	d.log = append(d.log, "reload")
	return nil
}

func (d *fakeDOM) Location(ctx context.Context) string {
	return d.location
}
