// Package websocket serves the color channel over websocket connections.
package websocket

import (
	"context"
	"io"
	"net"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/eyebot/pkg/framework"
	"github.com/robotalks/eyebot/pkg/link"
)

// DefaultPath is the HTTP path of the color channel.
const DefaultPath = "/eyes"

// Conn exchanges color channel packets over a websocket.
type Conn websocket.Conn

// New wraps websocket.Conn.
func New(conn *websocket.Conn) *Conn {
	return (*Conn)(conn)
}

// ReadPacket reads one message.
func (c *Conn) ReadPacket() (pkt []byte, err error) {
	err = websocket.Message.Receive((*websocket.Conn)(c), &pkt)
	return
}

// WritePacket sends one binary message.
func (c *Conn) WritePacket(pkt []byte) error {
	return websocket.Message.Send((*websocket.Conn)(c), pkt)
}

// Handler serves one connection: every non-empty message is a receive
// event, an empty message is a query answered with a one-byte message.
type Handler struct {
	Target link.ReceiveResponder
}

// ServeConn serves a connection until it's closed.
func (h *Handler) ServeConn(ws *websocket.Conn) {
	conn := New(ws)
	defer ws.Close()
	glog.V(2).Infof("websocket %s connected", ws.Request().RemoteAddr)
	for {
		pkt, err := conn.ReadPacket()
		if err != nil {
			if err != io.EOF {
				glog.V(2).Infof("websocket %s: %v", ws.Request().RemoteAddr, err)
			}
			return
		}
		if len(pkt) == 0 {
			if err := conn.WritePacket([]byte{h.Target.Query()}); err != nil {
				glog.Errorf("websocket reply: %v", err)
				return
			}
			continue
		}
		if err := h.Target.Receive(pkt); err != nil {
			glog.Errorf("websocket receive: %v", err)
			return
		}
	}
}

// Server listens for websocket connections.
type Server struct {
	Addr    string
	Path    string
	Handler *Handler
}

// NewServer creates a Server.
func NewServer(addr string, target link.ReceiveResponder) *Server {
	return &Server{Addr: addr, Path: DefaultPath, Handler: &Handler{Target: target}}
}

// Name implements Named.
func (s *Server) Name() string {
	return "websocket:" + s.Addr
}

// Mux builds the HTTP handler.
func (s *Server) Mux() http.Handler {
	mux := http.NewServeMux()
	path := s.Path
	if path == "" {
		path = DefaultPath
	}
	mux.Handle(path, websocket.Handler(s.Handler.ServeConn))
	return mux
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	glog.Infof("websocket listening on %s", ln.Addr())
	server := &http.Server{Handler: s.Mux()}
	return fx.RunWithContextCancel(ctx, func() { server.Close() }, func() error {
		return server.Serve(ln)
	})
}

// Client sends the color stream to a websocket server.
type Client struct {
	conn *Conn
}

// Dial connects to a server, e.g. ws://host:port/eyes.
func Dial(url string) (*Client, error) {
	ws, err := websocket.Dial(url, "", "http://localhost/")
	if err != nil {
		return nil, err
	}
	return &Client{conn: New(ws)}, nil
}

func (c *Client) applyDeadline(ctx context.Context) error {
	deadline, _ := ctx.Deadline()
	return (*websocket.Conn)(c.conn).SetDeadline(deadline)
}

// Send sends one receive event.
func (c *Client) Send(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := c.applyDeadline(ctx); err != nil {
		return err
	}
	return c.conn.WritePacket(data)
}

// Query requests the receiver progress.
func (c *Client) Query(ctx context.Context) (byte, error) {
	if err := c.applyDeadline(ctx); err != nil {
		return 0, err
	}
	if err := c.conn.WritePacket([]byte{}); err != nil {
		return 0, err
	}
	pkt, err := c.conn.ReadPacket()
	if err != nil {
		return 0, err
	}
	if len(pkt) == 0 {
		return 0, io.ErrUnexpectedEOF
	}
	return pkt[0], nil
}

// Close implements io.Closer.
func (c *Client) Close() error {
	return (*websocket.Conn)(c.conn).Close()
}
