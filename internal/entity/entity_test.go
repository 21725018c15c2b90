package entity

import (
	"testing"

	"github.com/chronograph-db/chronograph/internal/ids"
)

func TestNodeHasComponent(t *testing.T) {
	c1 := ids.NewLocator()
	c2 := ids.NewLocator()
	n := Node{Components: []ids.Locator{c1}}

	if !n.HasComponent(c1) {
		t.Fatal("expected node to report membership in c1")
	}
	if n.HasComponent(c2) {
		t.Fatal("did not expect node to report membership in c2")
	}
}

func TestEdgeHasComponent(t *testing.T) {
	c1 := ids.NewLocator()
	e := Edge{Components: []ids.Locator{c1}}
	if !e.HasComponent(c1) {
		t.Fatal("expected edge to report membership in c1")
	}
	if e.HasComponent(ids.NewLocator()) {
		t.Fatal("did not expect membership in an unrelated locator")
	}
}
