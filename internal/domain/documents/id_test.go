package documents

import (
	"regexp"
	"testing"
	"time"
)

var idPattern = regexp.MustCompile(`^doc-\d+-[a-z0-9]{9}$`)

func TestNewDocumentIDFormat(t *testing.T) {
	now := time.UnixMilli(1717171717171)
	id := string(NewDocumentID(now))
	if !idPattern.MatchString(id) {
		t.Fatalf("id %q does not match doc-<epochMillis>-<alnum9>", id)
	}
	want := "doc-1717171717171-"
	if id[:len(want)] != want {
		t.Errorf("id %q does not embed timestamp %q", id, want)
	}
}

func TestNewDocumentIDUniqueness(t *testing.T) {
	now := time.Now()
	seen := make(map[DocumentID]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id := NewDocumentID(now)
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id after %d calls: %s", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestNewViewURL(t *testing.T) {
	got := NewViewURL(time.UnixMilli(42))
	if got != "#document-42" {
		t.Errorf("NewViewURL = %q, want %q", got, "#document-42")
	}
}
