package docs

import (
	"fmt"
	"sync"
	"testing"
)

func TestErrorMapAppendOrder(t *testing.T) {
	m := NewErrorMap()
	id := Identity{Kind: "module", Name: "ns.coll.foo"}
	m.Append(id, "first")
	m.Append(id, "second")

	messages := m.For(id)
	if len(messages) != 2 || messages[0] != "first" || messages[1] != "second" {
		t.Fatalf("unexpected messages: %v", messages)
	}
	if m.Len() != 2 || m.Items() != 1 {
		t.Fatalf("unexpected counts: len=%d items=%d", m.Len(), m.Items())
	}
}

func TestErrorMapAbsentIdentity(t *testing.T) {
	m := NewErrorMap()
	if messages := m.For(Identity{Kind: "module", Name: "ns.coll.none"}); messages != nil {
		t.Fatalf("expected nil for absent identity, got %v", messages)
	}
}

func TestErrorMapConcurrentAppend(t *testing.T) {
	m := NewErrorMap()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := Identity{Kind: "module", Name: fmt.Sprintf("ns.coll.p%d", i%5)}
			m.Append(id, fmt.Sprintf("message %d", i))
		}()
	}
	wg.Wait()
	if m.Len() != 50 {
		t.Fatalf("expected 50 messages, got %d", m.Len())
	}
	if m.Items() != 5 {
		t.Fatalf("expected 5 identities, got %d", m.Items())
	}
}

func TestErrorMapWalkOrdered(t *testing.T) {
	m := NewErrorMap()
	m.Append(Identity{Kind: "module", Name: "ns.coll.b"}, "b")
	m.Append(Identity{Kind: "lookup", Name: "ns.coll.z"}, "z")
	m.Append(Identity{Kind: "module", Name: "ns.coll.a"}, "a")

	var visited []Identity
	m.Walk(func(id Identity, messages []string) {
		if len(messages) != 1 {
			t.Fatalf("expected one message for %s, got %v", id, messages)
		}
		visited = append(visited, id)
	})
	if len(visited) != 3 {
		t.Fatalf("expected 3 identities, got %d", len(visited))
	}
	if visited[0].Kind != "lookup" || visited[1].Name != "ns.coll.a" || visited[2].Name != "ns.coll.b" {
		t.Fatalf("unexpected walk order: %v", visited)
	}
}
