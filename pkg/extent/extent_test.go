package extent

import (
	"reflect"
	"testing"

	"github.com/matzehuels/blockcanvas/pkg/geom"
)

var cfg = geom.CanvasConfig{Width: 800, GridColumns: 12, MinHeight: 400}

func nodes(ids ...string) []geom.Node {
	out := make([]geom.Node, len(ids))
	for i, id := range ids {
		out[i] = geom.Node{ID: id, Type: "text"}
	}
	return out
}

func TestHeight(t *testing.T) {
	tests := []struct {
		name      string
		positions geom.PositionSet
		nodes     []geom.Node
		want      float64
	}{
		{
			name:      "empty set yields min height",
			positions: geom.PositionSet{},
			want:      400,
		},
		{
			name:      "lowest block plus margin",
			positions: geom.PositionSet{"a": {ID: "a", Y: 500, Width: 100, Height: 100}},
			nodes:     nodes("a"),
			want:      660,
		},
		{
			name:      "short content keeps min height",
			positions: geom.PositionSet{"a": {ID: "a", Y: 50, Width: 100, Height: 100}},
			nodes:     nodes("a"),
			want:      400,
		},
		{
			name: "phantom excluded",
			positions: geom.PositionSet{
				"a":     {ID: "a", Y: 400, Width: 100, Height: 100},
				"ghost": {ID: "ghost", Y: 5000, Width: 100, Height: 100},
			},
			nodes: nodes("a"),
			want:  560,
		},
		{
			name:      "only phantoms yields min height",
			positions: geom.PositionSet{"ghost": {ID: "ghost", Y: 5000, Width: 100, Height: 100}},
			want:      400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Height(tt.positions, tt.nodes, cfg); got != tt.want {
				t.Errorf("Height() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPhantoms(t *testing.T) {
	positions := geom.PositionSet{
		"a": {ID: "a"},
		"z": {ID: "z"},
		"b": {ID: "b"},
	}
	got := Phantoms(positions, nodes("a"))
	if want := []string{"b", "z"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Phantoms() = %v, want %v", got, want)
	}
	if len(positions) != 3 {
		t.Error("Phantoms must not mutate the position set")
	}
	if got := Phantoms(positions, nodes("a", "b", "z")); len(got) != 0 {
		t.Errorf("Phantoms() = %v, want none", got)
	}
}

func TestLive(t *testing.T) {
	positions := geom.PositionSet{"a": {ID: "a"}, "b": {ID: "b"}}
	live := Live(positions, nodes("b", "c"))
	if len(live) != 1 {
		t.Fatalf("Live() len = %d, want 1", len(live))
	}
	if _, ok := live["b"]; !ok {
		t.Error("Live() should keep b")
	}
}
