package contained

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/inlay/internal/engine/buffer"
)

func TestCoordinatorScansRegions(t *testing.T) {
	coord := NewCoordinator("docs/host.md", hostDoc)

	regions := coord.Regions()
	if len(regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(regions))
	}
	if regions[0].Key != "host.md#0-go" || regions[1].Key != "host.md#1-lua" {
		t.Errorf("unexpected keys: %s, %s", regions[0].Key, regions[1].Key)
	}
	if regions[0].Language != "go" || regions[1].Language != "lua" {
		t.Errorf("unexpected languages: %s, %s", regions[0].Language, regions[1].Language)
	}
}

func TestCoordinatorBuffers(t *testing.T) {
	coord := NewCoordinator("docs/host.md", hostDoc)

	subject, data, err := coord.Buffers(goKey)
	if err != nil {
		t.Fatalf("Buffers failed: %v", err)
	}
	if subject == nil || data == nil {
		t.Fatal("Buffers must never return nil buffers without an error")
	}
	if subject.Text() != "func main() {\n}" {
		t.Errorf("unexpected subject text: %q", subject.Text())
	}
	if data != coord.DataBuffer() {
		t.Error("expected the shared data buffer")
	}

	// Subject buffers are cached per key.
	again, _, err := coord.Buffers(goKey)
	if err != nil {
		t.Fatalf("second Buffers failed: %v", err)
	}
	if again != subject {
		t.Error("expected the cached subject buffer")
	}
}

func TestCoordinatorBuffersUnknownKey(t *testing.T) {
	coord := NewCoordinator("docs/host.md", hostDoc)

	if _, _, err := coord.Buffers("host.md#7-rust"); !errors.Is(err, ErrUnknownRegion) {
		t.Errorf("expected ErrUnknownRegion, got %v", err)
	}
}

func TestSetHostTextSyncsSubjects(t *testing.T) {
	coord := NewCoordinator("docs/host.md", hostDoc)

	subject, _, err := coord.Buffers(goKey)
	if err != nil {
		t.Fatalf("Buffers failed: %v", err)
	}

	edited := strings.Replace(hostDoc, "func main() {\n}", "func run() {\n}", 1)
	coord.SetHostText(edited)

	if subject.Text() != "func run() {\n}" {
		t.Errorf("subject not synced, got %q", subject.Text())
	}
	if coord.DataBuffer().Text() != edited {
		t.Error("data buffer not updated")
	}
}

func TestSetHostTextDropsVanishedRegions(t *testing.T) {
	coord := NewCoordinator("docs/host.md", hostDoc)

	if _, _, err := coord.Buffers("host.md#1-lua"); err != nil {
		t.Fatalf("Buffers failed: %v", err)
	}

	withoutLua := hostDoc[:strings.Index(hostDoc, "```lua")]
	coord.SetHostText(withoutLua)

	if _, _, err := coord.Buffers("host.md#1-lua"); !errors.Is(err, ErrUnknownRegion) {
		t.Errorf("expected ErrUnknownRegion after region removed, got %v", err)
	}
	if _, _, err := coord.Buffers(goKey); err != nil {
		t.Errorf("surviving region must stay resolvable: %v", err)
	}
}

func TestSetHostTextNotifiesDataListeners(t *testing.T) {
	coord := NewCoordinator("docs/host.md", hostDoc)

	notified := 0
	coord.DataBuffer().AddListener(func(buffer.ChangeEvent) {
		notified++
	})

	coord.SetHostText(hostDoc + "\nmore\n")

	if notified != 1 {
		t.Errorf("expected one notification, got %d", notified)
	}
}

func TestSubjectText(t *testing.T) {
	coord := NewCoordinator("docs/host.md", hostDoc)

	text, err := coord.SubjectText("host.md#1-lua")
	if err != nil {
		t.Fatalf("SubjectText failed: %v", err)
	}
	if text != `print("x")` {
		t.Errorf("unexpected text: %q", text)
	}

	if _, err := coord.SubjectText("nope"); !errors.Is(err, ErrUnknownRegion) {
		t.Errorf("expected ErrUnknownRegion, got %v", err)
	}
}
