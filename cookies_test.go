package main

import (
	"encoding/json"
	"testing"
)

func TestCookieFileRoundTrip(t *testing.T) {
	in := []cookieRecord{
		{Name: "npt", Value: "abc123", Domain: ".pokernow.club", Path: "/", Secure: true},
		{Name: "sid", Value: "xyz", Domain: "pokernow.club", Path: "/", HTTPOnly: true},
	}
	data, err := encodeCookieFile(in)
	if err != nil {
		t.Fatal(err)
	}

	out, err := decodeCookieFile(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestCookieFileVersionTag(t *testing.T) {
	data, err := encodeCookieFile(nil)
	if err != nil {
		t.Fatal(err)
	}
	var f cookieFile
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatal(err)
	}
	if f.Version != cookieFileVersion {
		t.Errorf("version %d, want %d", f.Version, cookieFileVersion)
	}
	if f.SavedAt.IsZero() {
		t.Error("savedAt not set")
	}
}

func TestDecodeCookieFileRejectsUnknownVersion(t *testing.T) {
	if _, err := decodeCookieFile([]byte(`{"version":99,"cookies":[]}`)); err == nil {
		t.Error("expected error for unknown version")
	}
	if _, err := decodeCookieFile([]byte(`not json`)); err == nil {
		t.Error("expected error for garbage")
	}
}

func TestFilterByLocation(t *testing.T) {
	records := []cookieRecord{
		{Name: "a", Domain: ".pokernow.club"},
		{Name: "b", Domain: "pokernow.club"},
		{Name: "c", Domain: "other.example.com"},
		{Name: "d", Domain: ""},
	}
	got := filterByLocation(records, "https://pokernow.club/games/xyz")
	if len(got) != 2 {
		t.Fatalf("filtered %d cookies, want 2: %+v", len(got), got)
	}
	if got[0].Name != "a" || got[1].Name != "b" {
		t.Errorf("wrong cookies kept: %+v", got)
	}
}
