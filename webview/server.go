// Package webview serves an exploration session to a browser over a
// websocket.
//
// Every websocket connection gets its own session. The browser sends JSON
// text messages:
//
//	{"op":"click","x":400,"y":300}
//	{"op":"reset"}
//	{"op":"program","name":"burningship"}
//	{"op":"iterations","iterations":500}
//
// and after every finished pass the server replies with the frame as a
// binary PNG message followed by a JSON State message. Requests are handled
// in order, and closing the connection cancels the pass in progress.
package webview

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stewi1014/fractalexplorer/config"
	"github.com/stewi1014/fractalexplorer/explorer"
	"github.com/stewi1014/fractalexplorer/programs"
)

//go:embed index.html
var indexPage []byte

var (
	ErrUnknownOp         = errors.New("unknown op")
	ErrTooManyIterations = errors.New("iteration cap above server limit")
)

// DefaultMaxIterations bounds the iteration cap a browser may ask for unless
// the configured cap is already higher.
const DefaultMaxIterations = 10000

// Request is a message from the browser.
type Request struct {
	Op         string  `json:"op"`
	X          float64 `json:"x,omitempty"`
	Y          float64 `json:"y,omitempty"`
	Name       string  `json:"name,omitempty"`
	Iterations int     `json:"iterations,omitempty"`
}

// State is sent after each frame, or with only Error set when a request
// failed.
type State struct {
	Program            string   `json:"program"`
	Programs           []string `json:"programs"`
	Iterations         int      `json:"iterations"`
	MaxIterations      int      `json:"maxIterations"`
	Width              int      `json:"width"`
	ZoomFactor         float64  `json:"zoomFactor"`
	ZoomSteps          int      `json:"zoomSteps"`
	CenterX            float64  `json:"centerX"`
	CenterY            float64  `json:"centerY"`
	PassMillis         float64  `json:"passMillis"`
	Workers            int      `json:"workers"`
	PrecisionExhausted bool     `json:"precisionExhausted"`
	Error              string   `json:"error,omitempty"`
}

type Server struct {
	cfg config.Config
	mux *http.ServeMux

	// OriginPatterns is passed to websocket.AcceptOptions.
	OriginPatterns []string

	// MaxIterations is the largest iteration cap a browser may set.
	MaxIterations int
}

func New(cfg config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:           cfg,
		mux:           http.NewServeMux(),
		MaxIterations: max(DefaultMaxIterations, cfg.Iterations),
	}
	s.mux.HandleFunc("/ws", s.websocketHandler)
	s.mux.HandleFunc("/", s.indexHandler)
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexPage)
}

func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.OriginPatterns,
	})
	if err != nil {
		log.Println(err)
		return
	}
	defer c.CloseNow()

	// Requests are small JSON messages.
	c.SetReadLimit(1 << 16)

	err = s.serve(r.Context(), c)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		c.Close(websocket.StatusNormalClosure, "")
		return
	}
	if err != nil {
		log.Printf("websocket %v: %v", r.RemoteAddr, err)
		c.Close(websocket.StatusInternalError, "internal error")
	}
}

func (s *Server) serve(ctx context.Context, c *websocket.Conn) error {
	session, err := explorer.New(s.cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	requests := make(chan Request, 16)
	go readRequests(ctx, cancel, c, requests)

	log.Printf("websocket session started")
	if err := session.Render(ctx); err != nil {
		return cause(ctx, err)
	}
	if err := s.sendFrame(ctx, c, session); err != nil {
		return cause(ctx, err)
	}

	for {
		var req Request
		select {
		case req = <-requests:
		case <-ctx.Done():
			return context.Cause(ctx)
		}

		err := s.handle(ctx, session, req)
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}
		if err != nil {
			if err := wsjson.Write(ctx, c, State{Error: err.Error()}); err != nil {
				return cause(ctx, err)
			}
			continue
		}

		if err := s.sendFrame(ctx, c, session); err != nil {
			return cause(ctx, err)
		}
	}
}

// readRequests keeps reading while a pass runs, so a closed connection
// cancels ctx and with it the pass.
func readRequests(ctx context.Context, cancel context.CancelCauseFunc, c *websocket.Conn, requests chan<- Request) {
	for {
		var req Request
		if err := wsjson.Read(ctx, c, &req); err != nil {
			cancel(err)
			return
		}
		select {
		case requests <- req:
		case <-ctx.Done():
			return
		}
	}
}

// cause prefers the reason ctx was cancelled over err.
func cause(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	return err
}

func (s *Server) handle(ctx context.Context, session *explorer.Session, req Request) error {
	switch req.Op {
	case "click":
		return session.Click(ctx, req.X, req.Y)
	case "reset":
		return session.Reset(ctx)
	case "program":
		return session.SetProgram(ctx, req.Name)
	case "iterations":
		if req.Iterations > s.MaxIterations {
			return fmt.Errorf("%w: %d > %d", ErrTooManyIterations, req.Iterations, s.MaxIterations)
		}
		return session.SetIterations(ctx, req.Iterations)
	default:
		return fmt.Errorf("%w %q", ErrUnknownOp, req.Op)
	}
}

func (s *Server) sendFrame(ctx context.Context, c *websocket.Conn, session *explorer.Session) error {
	w, err := c.Writer(ctx, websocket.MessageBinary)
	if err != nil {
		return err
	}
	if err := session.EncodePNG(w); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	st := session.State()
	return wsjson.Write(ctx, c, State{
		Program:            st.Program,
		Programs:           programs.Names(),
		Iterations:         st.Iterations,
		MaxIterations:      s.MaxIterations,
		Width:              session.ScreenWidth(),
		ZoomFactor:         st.Viewport.ZoomFactor,
		ZoomSteps:          st.Viewport.ZoomSteps,
		CenterX:            st.Viewport.Center[0],
		CenterY:            st.Viewport.Center[1],
		PassMillis:         float64(st.LastPass.Duration.Microseconds()) / 1000,
		Workers:            st.LastPass.Workers,
		PrecisionExhausted: st.PrecisionExhausted,
	})
}
