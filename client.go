package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// tableRenderTimeout bounds the wait for the felt after joining a table
// URL. A slow render is logged and tolerated, the state reader degrades.
const tableRenderTimeout = 15 * time.Second

// Table is one joined game, backed by its own browser tab.
type Table struct {
	ID       string    `json:"id"`
	URL      string    `json:"url"`
	JoinedAt time.Time `json:"joinedAt"`

	ctx     context.Context
	cancel  context.CancelFunc
	reader  *Reader
	actions *Dispatcher
	ring    *stateRing
}

// State reads a fresh snapshot from the live tab.
func (t *Table) State() GameState {
	return t.reader.State(t.ctx)
}

// AvailableActions probes the decision controls.
func (t *Table) AvailableActions() []Action {
	return t.actions.Available(t.ctx)
}

// Perform executes an action on the live tab; unavailable actions are
// logged no-ops.
func (t *Table) Perform(a Action, amount int) {
	t.actions.Perform(t.ctx, a, amount)
}

// Client owns the browser session: cookie bootstrap, the registry of joined
// tables, the action locks, and the optional hand-history ledger.
type Client struct {
	cfg        Config
	browserCtx context.Context
	dom        cdpDOM
	jar        *cookieJar
	history    *historyStore
	locks      *lockManager
	startedAt  time.Time

	mu     sync.RWMutex
	tables map[string]*Table
	nextID int
}

// NewClient bootstraps the session: visit the site home, restore the cookie
// jar (or capture it on first run), then reload so the cookies take.
func NewClient(browserCtx context.Context, cfg Config, history *historyStore) (*Client, error) {
	c := &Client{
		cfg:        cfg,
		browserCtx: browserCtx,
		dom:        cdpDOM{human: cfg.HumanInput},
		jar:        newCookieJar(cfg.CookiePath),
		history:    history,
		locks:      newLockManager(),
		startedAt:  time.Now(),
		tables:     make(map[string]*Table),
	}

	if err := c.dom.Navigate(browserCtx, cfg.HomeURL); err != nil {
		return nil, fmt.Errorf("open home: %w", err)
	}
	location := c.dom.Location(browserCtx)
	if location == "" {
		location = cfg.HomeURL
	}
	if err := c.jar.Restore(browserCtx, location); err != nil {
		slog.Warn("cookie bootstrap failed", "err", err)
	}
	if err := c.dom.Reload(browserCtx); err != nil {
		return nil, fmt.Errorf("reload home: %w", err)
	}
	return c, nil
}

// Join opens a tab on the table URL and registers it.
func (c *Client) Join(url string) (*Table, error) {
	tabCtx, cancel, err := newTab(c.browserCtx, url)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.nextID++
	t := &Table{
		ID:       fmt.Sprintf("t%d", c.nextID),
		URL:      url,
		JoinedAt: time.Now(),
		ctx:      tabCtx,
		cancel:   cancel,
		reader:   newReader(c.dom),
		actions:  newDispatcher(c.dom),
		ring:     newStateRing(32),
	}
	c.tables[t.ID] = t
	c.mu.Unlock()

	if err := c.dom.WaitVisible(tabCtx, selGameType, tableRenderTimeout); err != nil {
		slog.Warn("table did not render in time", "id", t.ID, "err", err)
	}

	if c.history != nil {
		go c.recordLoop(t)
	}

	slog.Info("joined table", "id", t.ID, "url", url)
	return t, nil
}

// Leave closes a table's tab and forgets it.
func (c *Client) Leave(id string) error {
	c.mu.Lock()
	t, ok := c.tables[id]
	if ok {
		delete(c.tables, id)
	}
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("table %q not found", id)
	}
	t.cancel()
	slog.Info("left table", "id", id)
	return nil
}

func (c *Client) Get(id string) (*Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[id]
	return t, ok
}

// List returns joined tables in stable ID order.
func (c *Client) List() []*Table {
	c.mu.RLock()
	out := make([]*Table, 0, len(c.tables))
	for _, t := range c.tables {
		out = append(out, t)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Close leaves every table.
func (c *Client) Close() {
	for _, t := range c.List() {
		_ = c.Leave(t.ID)
	}
}

// recordLoop polls the table and writes resolved hands to the ledger.
// Winner rows show up transiently at hand end; the same resolution is
// written once.
func (c *Client) recordLoop(t *Table) {
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	var lastKey string
	for {
		select {
		case <-t.ctx.Done():
			return
		case <-ticker.C:
		}

		gs := t.State()
		t.ring.push(gs)
		if len(gs.Winners) == 0 {
			lastKey = ""
			continue
		}
		key := winnersKey(gs.Winners)
		if key == lastKey {
			continue
		}
		lastKey = key
		if err := c.history.Record(t.ctx, t.ID, gs); err != nil {
			slog.Warn("hand history record failed", "table", t.ID, "err", err)
		}
	}
}

func winnersKey(winners []Winner) string {
	key := ""
	for _, w := range winners {
		key += w.Name + "\x00" + w.StackInfo + "\x00"
	}
	return key
}
