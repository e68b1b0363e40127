// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package program

import (
	"errors"
	"reflect"
	"testing"
)

type recorder struct {
	name string
	log  *[]string
	fail bool
	cap  int
}

func (r *recorder) add(op string) { *r.log = append(*r.log, r.name+"."+op) }

func (r *recorder) Allocate(n int) { r.add("allocate"); r.cap = n }
func (r *recorder) Capacity() int  { return r.cap }
func (r *recorder) BufferData() error {
	r.add("bufferData")
	if r.fail {
		return errors.New("boom")
	}
	return nil
}
func (r *recorder) Render(RenderParams) error { r.add("render"); return nil }
func (r *recorder) Destroy()                  { r.add("destroy") }
func (r *recorder) Process(_, _ NodeData, _ EdgeData, _ int) {
	r.add("process")
}

func TestCompoundFansOutInOrder(t *testing.T) {
	var log []string
	a := &recorder{name: "a", log: &log}
	b := &recorder{name: "b", log: &log}
	c := NewEdgeCompound(a, b)

	c.Allocate(4)
	c.Process(NodeData{}, NodeData{}, EdgeData{}, 0)
	if err := c.BufferData(); err != nil {
		t.Fatal(err)
	}
	if err := c.Render(RenderParams{}); err != nil {
		t.Fatal(err)
	}
	c.Destroy()

	want := []string{
		"a.allocate", "b.allocate",
		"a.process", "b.process",
		"a.bufferData", "b.bufferData",
		"a.render", "b.render",
		"a.destroy", "b.destroy",
	}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("call order = %v\nwant %v", log, want)
	}
}

func TestCompoundCapacityIsMinimum(t *testing.T) {
	var log []string
	a := &recorder{name: "a", log: &log, cap: 8}
	b := &recorder{name: "b", log: &log, cap: 3}
	if got := NewCompound[Lifecycle](a, b).Capacity(); got != 3 {
		t.Errorf("Capacity() = %d, want 3", got)
	}
	if got := NewCompound[Lifecycle]().Capacity(); got != 0 {
		t.Errorf("empty Capacity() = %d, want 0", got)
	}
}

func TestCompoundStopsAtFirstError(t *testing.T) {
	var log []string
	a := &recorder{name: "a", log: &log, fail: true}
	b := &recorder{name: "b", log: &log}
	if err := NewEdgeCompound(a, b).BufferData(); err == nil {
		t.Fatal("BufferData succeeded, want error")
	}
	if !reflect.DeepEqual(log, []string{"a.bufferData"}) {
		t.Errorf("calls = %v, want only a.bufferData", log)
	}
}

func TestNodeCompoundProcess(t *testing.T) {
	ctx := NewDiscard()
	n1, _ := NewNodeProgram(ctx)
	n2, _ := NewNodeProgram(ctx)
	c := NewNodeCompound(n1, n2)
	c.Allocate(1)
	c.Process(NodeData{X: 3, Y: 4, Size: 1}, 0)
	for i, p := range []*NodeProgram{n1, n2} {
		if p.Array()[0] != 3 || p.Array()[1] != 4 {
			t.Errorf("child %d not processed: %v", i, p.Array()[:2])
		}
	}
}
