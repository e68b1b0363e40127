package ggraph

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/gogpu/ggraph/clock"
	"github.com/gogpu/ggraph/program"
)

// bufferRecorder keeps the last upload of every program.
type bufferRecorder struct {
	*program.Discard
	data map[program.Handle][]byte
}

func (b *bufferRecorder) BufferData(h program.Handle, data []byte) error {
	b.data[h] = bytes.Clone(data)
	return b.Discard.BufferData(h, data)
}

func gridGraph(nodes, edges int) *testGraph {
	colors := []string{"#f00", "#0f0", "#00f", "rgba(10,20,30,0.5)"}
	g := newTestGraph()
	for i := range nodes {
		g.node(fmt.Sprintf("n%d", i), NodeAttributes{
			X:     float64(i % 97),
			Y:     float64(i / 97),
			Size:  float64(1 + i%5),
			Color: colors[i%len(colors)],
		})
	}
	for i := range edges {
		s := i % nodes
		t := (s + 1 + i%13) % nodes
		g.edge(fmt.Sprintf("e%d", i), fmt.Sprintf("n%d", s), fmt.Sprintf("n%d", t), EdgeAttributes{
			Size:  float64(1 + i%3),
			Color: colors[(i+1)%len(colors)],
		})
	}
	return g
}

func TestRenderWithWorkersMatchesSerial(t *testing.T) {
	g := gridGraph(5000, 6000)
	render := func(opts ...Option) map[program.Handle][]byte {
		ctx := &bufferRecorder{Discard: program.NewDiscard(), data: map[program.Handle][]byte{}}
		opts = append(opts, WithClock(clock.NewScheduler(time.Unix(0, 0))))
		r, err := New(g, ctx, opts...)
		if err != nil {
			t.Fatal(err)
		}
		defer r.Kill()
		if err := r.Render(); err != nil {
			t.Fatal(err)
		}
		if n := len(r.Visible().Nodes); n != 5000 {
			t.Fatalf("visible nodes = %d, want 5000", n)
		}
		return ctx.data
	}

	serial := render()
	parallel := render(WithWorkers(4))
	if len(serial) == 0 || len(serial) != len(parallel) {
		t.Fatalf("uploads: serial %d, parallel %d", len(serial), len(parallel))
	}
	for h, want := range serial {
		if !bytes.Equal(parallel[h], want) {
			t.Errorf("program %d: parallel buffer differs from serial", h)
		}
	}
}

func TestWorkersReleasedOnKill(t *testing.T) {
	ctx := program.NewDiscard()
	r, err := New(square(), ctx, WithWorkers(2))
	if err != nil {
		t.Fatal(err)
	}
	if r.pool == nil || r.pool.Workers() != 2 {
		t.Fatalf("pool = %v", r.pool)
	}
	p := r.pool
	r.Kill()
	if r.pool != nil || p.Running() {
		t.Error("Kill left the worker pool running")
	}

	r, err = New(square(), ctx, WithWorkers(1))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Kill()
	if r.pool != nil {
		t.Error("WithWorkers(1) started a pool")
	}
}
