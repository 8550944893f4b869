package gcp

import "testing"

func TestPublicURLGCSDefault(t *testing.T) {
	b := &Bucket{cfg: StorageConfig{Mode: StorageModeGCS, Bucket: "charms"}}
	got := b.PublicURL("/uploads/a@b.com/1700000000000.jpg")
	want := "https://storage.googleapis.com/charms/uploads/a@b.com/1700000000000.jpg"
	if got != want {
		t.Fatalf("PublicURL: want=%q got=%q", want, got)
	}
}

func TestPublicURLCDNWins(t *testing.T) {
	b := &Bucket{cfg: StorageConfig{Mode: StorageModeGCS, Bucket: "charms", CDNDomain: "cdn.taiyaki.example", PublicBaseURL: "http://ignored"}}
	got := b.PublicURL("renders/x.png")
	if got != "https://cdn.taiyaki.example/renders/x.png" {
		t.Fatalf("PublicURL: got=%q", got)
	}
}

func TestPublicURLEmulator(t *testing.T) {
	b := &Bucket{cfg: StorageConfig{Mode: StorageModeGCSEmulator, Bucket: "charms", EmulatorHost: "http://fake-gcs:4443"}}
	got := b.PublicURL("renders/a b.png")
	want := "http://fake-gcs:4443/storage/v1/b/charms/o/renders%2Fa%20b.png?alt=media"
	if got != want {
		t.Fatalf("PublicURL: want=%q got=%q", want, got)
	}

	b.cfg.PublicBaseURL = "http://localhost:4443"
	got = b.PublicURL("renders/x.png")
	want = "http://localhost:4443/storage/v1/b/charms/o/renders%2Fx.png?alt=media"
	if got != want {
		t.Fatalf("PublicURL with public base: want=%q got=%q", want, got)
	}
}

func TestContentTypeForKey(t *testing.T) {
	cases := map[string]string{
		"a.PNG":      "image/png",
		"b.jpeg":     "image/jpeg",
		"c.webp?x=1": "image/webp",
		"d.gif":      "image/gif",
		"e.unknown":  "application/octet-stream",
	}
	for key, want := range cases {
		if got := ContentTypeForKey(key); got != want {
			t.Errorf("ContentTypeForKey(%q)=%q want %q", key, got, want)
		}
	}
}
