package main

import (
	"context"
	"encoding/gob"
	"testing"
)

func TestConfigWindowSendsInOrder(t *testing.T) {
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	client, listener := NewPipeListener(ctx)
	w := &ConfigWindow{
		ctx:         ctx,
		quit:        cancel,
		sendMessage: make(chan interface{}, 16),
	}
	go w.serve(listener)

	// More changes than the queue holds, as from a held spin button.
	const changes = 40
	go func() {
		for i := 1; i <= changes; i++ {
			w.send(Settings{Iterations: i * 10})
		}
	}()

	dec := gob.NewDecoder(client)
	for i := 1; i <= changes; i++ {
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			t.Fatal(err)
		}
		got, ok := v.(*Settings)
		if !ok {
			t.Fatalf("decoded %#v", v)
		}
		if got.Iterations != i*10 {
			t.Fatalf("message %d has iterations %d, want %d", i, got.Iterations, i*10)
		}
	}
}

func TestConfigWindowIgnoresOwnUpdates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := &ConfigWindow{
		ctx:         ctx,
		sendMessage: make(chan interface{}, 1),
		updating:    true,
	}
	w.send(Settings{Iterations: 10})

	select {
	case msg := <-w.sendMessage:
		t.Errorf("sent %#v while filling widgets from a received state", msg)
	default:
	}
}
