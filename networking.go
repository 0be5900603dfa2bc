package main

import (
	"context"
	"net"
	"sync"
)

// NewPipeListener returns the two ends of an in-memory connection. The
// listener hands out its end once; later calls to Accept block until ctx is
// done or the listener is closed.
func NewPipeListener(ctx context.Context) (client net.Conn, listener net.Listener) {
	clientPipe, listenerPipe := net.Pipe()
	l := &pipeListener{
		pipe: listenerPipe,
		done: make(chan struct{}),
	}

	context.AfterFunc(ctx, func() {
		l.Close()
		clientPipe.Close()
	})

	return clientPipe, l
}

type pipeListener struct {
	mu       sync.Mutex
	pipe     net.Conn
	accepted bool

	closeOnce sync.Once
	done      chan struct{}
}

func (p *pipeListener) Accept() (net.Conn, error) {
	p.mu.Lock()
	if !p.accepted {
		p.accepted = true
		p.mu.Unlock()
		return p.pipe, nil
	}
	p.mu.Unlock()

	<-p.done
	return nil, net.ErrClosed
}

func (p *pipeListener) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.done)
		err = p.pipe.Close()
	})
	return err
}

func (p *pipeListener) Addr() net.Addr {
	return p.pipe.LocalAddr()
}
