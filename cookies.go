package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
)

// cookieFileVersion tags the on-disk format. Files with a different version
// are ignored and recaptured rather than guessed at.
const cookieFileVersion = 1

type cookieRecord struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires,omitempty"`
	HTTPOnly bool    `json:"httpOnly,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
	SameSite string  `json:"sameSite,omitempty"`
}

type cookieFile struct {
	Version int            `json:"version"`
	SavedAt time.Time      `json:"savedAt"`
	Cookies []cookieRecord `json:"cookies"`
}

// cookieJar persists the session credential cookies to a single file.
type cookieJar struct {
	path string
}

func newCookieJar(path string) *cookieJar {
	return &cookieJar{path: path}
}

// Restore loads the cookie file and applies every record whose domain is a
// substring of the current location. When the file is absent (or carries an
// unknown version) the live session's cookies are captured instead, so the
// next run starts authenticated.
func (j *cookieJar) Restore(ctx context.Context, location string) error {
	data, err := os.ReadFile(j.path)
	if os.IsNotExist(err) {
		slog.Info("no cookie file, capturing session", "path", j.path)
		return j.Capture(ctx)
	}
	if err != nil {
		return fmt.Errorf("read cookies: %w", err)
	}

	records, err := decodeCookieFile(data)
	if err != nil {
		slog.Warn("cookie file unusable, recapturing", "path", j.path, "err", err)
		return j.Capture(ctx)
	}

	matched := filterByLocation(records, location)
	if err := applyCookies(ctx, matched); err != nil {
		return fmt.Errorf("apply cookies: %w", err)
	}
	slog.Info("cookies restored", "total", len(records), "applied", len(matched))
	return nil
}

// Capture writes the live session's cookies to the jar path.
func (j *cookieJar) Capture(ctx context.Context) error {
	var cookies []*network.Cookie
	if err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = storage.GetCookies().Do(ctx)
		return err
	})); err != nil {
		return fmt.Errorf("get cookies: %w", err)
	}

	records := make([]cookieRecord, 0, len(cookies))
	for _, c := range cookies {
		records = append(records, cookieRecord{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		})
	}

	if dir := filepath.Dir(j.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cookie dir: %w", err)
		}
	}
	data, err := encodeCookieFile(records)
	if err != nil {
		return err
	}
	if err := os.WriteFile(j.path, data, 0600); err != nil {
		return fmt.Errorf("write cookies: %w", err)
	}
	slog.Info("cookies captured", "path", j.path, "count", len(records))
	return nil
}

func encodeCookieFile(records []cookieRecord) ([]byte, error) {
	return json.MarshalIndent(cookieFile{
		Version: cookieFileVersion,
		SavedAt: time.Now().UTC(),
		Cookies: records,
	}, "", "  ")
}

func decodeCookieFile(data []byte) ([]cookieRecord, error) {
	var f cookieFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode cookie file: %w", err)
	}
	if f.Version != cookieFileVersion {
		return nil, fmt.Errorf("cookie file version %d, want %d", f.Version, cookieFileVersion)
	}
	return f.Cookies, nil
}

// filterByLocation keeps cookies whose domain matches the current page
// location by substring. Host-only and dot-prefixed domains both count.
func filterByLocation(records []cookieRecord, location string) []cookieRecord {
	var out []cookieRecord
	for _, c := range records {
		domain := strings.TrimPrefix(c.Domain, ".")
		if domain != "" && strings.Contains(location, domain) {
			out = append(out, c)
		}
	}
	return out
}

func applyCookies(ctx context.Context, records []cookieRecord) error {
	if len(records) == 0 {
		return nil
	}
	params := make([]*network.CookieParam, 0, len(records))
	for _, c := range records {
		p := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: network.CookieSameSite(c.SameSite),
		}
		if c.Expires > 0 {
			exp := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
			p.Expires = &exp
		}
		params = append(params, p)
	}
	return chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return storage.SetCookies(params).Do(ctx)
	}))
}
