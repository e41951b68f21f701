package objectstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestSanitizeComponent(t *testing.T) {
	cases := map[string]string{
		"scan.png":          "scan.png",
		"my passport (1)":   "my_passport_1",
		"../../etc/passwd":  "etc_passwd",
		"  spaced  ":        "spaced",
		"...":               "unnamed",
		"":                  "unnamed",
		"UPPER-case_ok.jpg": "UPPER-case_ok.jpg",
	}
	for in, want := range cases {
		if got := SanitizeComponent(in); got != want {
			t.Errorf("SanitizeComponent(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildDocumentPath(t *testing.T) {
	at := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	got := BuildDocumentPath("owner-1", "sub-1", "drivers license", "front side.png", at)
	want := "owner-1/sub-1/drivers_license/1756720800000_front_side.png"
	if got != want {
		t.Fatalf("path = %q, want %q", got, want)
	}
}

func TestDisk_SaveOpenRoundtrip(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}
	ctx := context.Background()

	body := "fake image bytes"
	n, err := d.Save(ctx, "kyc-documents", "owner-1/sub-1/passport/1_scan.png", strings.NewReader(body))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n != int64(len(body)) {
		t.Fatalf("wrote %d bytes, want %d", n, len(body))
	}

	// duplicate writes never overwrite
	if _, err := d.Save(ctx, "kyc-documents", "owner-1/sub-1/passport/1_scan.png", strings.NewReader("x")); err == nil {
		t.Fatal("overwrite of an existing object succeeded")
	}

	rc, err := d.Open(ctx, "kyc-documents", "owner-1/sub-1/passport/1_scan.png")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != body {
		t.Fatalf("roundtrip = %q, want %q", got, body)
	}
}

func TestDisk_RejectsEscapingPaths(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}
	ctx := context.Background()

	for _, p := range []string{"../outside.txt", "a/../../outside.txt", ".."} {
		if _, err := d.Save(ctx, "kyc-documents", p, strings.NewReader("x")); !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("Save(%q) err = %v, want ErrInvalidPath", p, err)
		}
		if _, err := d.Open(ctx, "kyc-documents", p); !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("Open(%q) err = %v, want ErrInvalidPath", p, err)
		}
	}
}
