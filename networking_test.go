package main

import (
	"context"
	"encoding/gob"
	"errors"
	"net"
	"testing"
	"time"
)

func TestPipeListenerAcceptsOnce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, listener := NewPipeListener(ctx)

	server, err := listener.Accept()
	if err != nil {
		t.Fatal(err)
	}

	go func() {
		enc := gob.NewEncoder(client)
		var msg interface{} = &Settings{Program: "tricorn", Iterations: 64}
		if err := enc.Encode(&msg); err != nil {
			t.Error(err)
		}
	}()

	var v interface{}
	if err := gob.NewDecoder(server).Decode(&v); err != nil {
		t.Fatal(err)
	}
	got, ok := v.(*Settings)
	if !ok || got.Program != "tricorn" || got.Iterations != 64 {
		t.Fatalf("decoded %#v", v)
	}

	accepted := make(chan error, 1)
	go func() {
		_, err := listener.Accept()
		accepted <- err
	}()

	select {
	case err := <-accepted:
		t.Fatalf("second Accept returned early: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-accepted:
		if !errors.Is(err, net.ErrClosed) {
			t.Errorf("second Accept err = %v, want net.ErrClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Accept did not return after the context was cancelled")
	}
}
