// Package wire implements the narrow slice of the ADB server ("smart socket")
// protocol this module needs: version query, device enumeration and one-shot
// shell streams. Requests are hex-length-prefixed ASCII strings; the server
// answers with a 4-byte OKAY or FAIL status, the latter followed by a
// length-prefixed message.
//
// Protocol reference:
// https://android.googlesource.com/platform/packages/modules/adb/+/refs/heads/master/docs/dev/services.md
package wire

import (
	"fmt"
	"io"
	"net"
	"strconv"
)

// DefaultAddr is the ADB server's default local endpoint.
const DefaultAddr = "localhost:5037"

// FailError is a FAIL reply from the server, carrying the server's message.
// It is a command-level failure: the connection itself worked.
type FailError struct {
	Req string
	Msg string
}

func (e *FailError) Error() string {
	return fmt.Sprintf("%s: %s", e.Req, e.Msg)
}

// Conn is a single-use connection to the ADB server. The server tears the
// stream down after most host services, so every request dials afresh.
type Conn struct {
	c net.Conn
}

// Dial connects to the ADB server. An empty addr means DefaultAddr.
func Dial(addr string) (*Conn, error) {
	if addr == "" {
		addr = DefaultAddr
	}
	c, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Conn{c: c}, nil
}

func (c *Conn) Close() error { return c.c.Close() }

// Send writes one length-prefixed request and consumes the status reply.
func (c *Conn) Send(req string) error {
	if _, err := fmt.Fprintf(c.c, "%04x%s", len(req), req); err != nil {
		return err
	}
	return c.readStatus(req)
}

func (c *Conn) readStatus(req string) error {
	status := make([]byte, 4)
	if _, err := io.ReadFull(c.c, status); err != nil {
		return fmt.Errorf("reading status for %q: %w", req, err)
	}
	switch string(status) {
	case "OKAY":
		return nil
	case "FAIL":
		msg, err := c.ReadMessage()
		if err != nil {
			msg = "(no failure message)"
		}
		return &FailError{Req: req, Msg: msg}
	default:
		return fmt.Errorf("unexpected status %q for %q", status, req)
	}
}

// ReadMessage reads one hex-length-prefixed payload.
func (c *Conn) ReadMessage() (string, error) {
	head := make([]byte, 4)
	if _, err := io.ReadFull(c.c, head); err != nil {
		return "", err
	}
	n, err := strconv.ParseUint(string(head), 16, 32)
	if err != nil {
		return "", fmt.Errorf("bad length header %q: %w", head, err)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(c.c, body); err != nil {
		return "", err
	}
	return string(body), nil
}

// readToEOF drains the stream. Shell responses carry no length header; the
// server signals completion by closing the connection.
func (c *Conn) readToEOF() ([]byte, error) {
	return io.ReadAll(c.c)
}

// HostVersion returns the server's internal protocol version number
// (the hex payload of the host:version service).
func HostVersion(addr string) (int, error) {
	conn, err := Dial(addr)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	if err := conn.Send("host:version"); err != nil {
		return 0, err
	}
	msg, err := conn.ReadMessage()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(msg, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("bad version payload %q: %w", msg, err)
	}
	return int(v), nil
}

// HostDevices returns the raw payload of the host:devices service:
// header-less "serial\tstate" lines.
func HostDevices(addr string) (string, error) {
	conn, err := Dial(addr)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if err := conn.Send("host:devices"); err != nil {
		return "", err
	}
	return conn.ReadMessage()
}

// ShellCommand runs one action on the device's default shell and returns the
// raw combined output. An empty serial lets the server pick the default
// transport.
func ShellCommand(addr, serial, action string) ([]byte, error) {
	conn, err := Dial(addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	transport := "host:transport-any"
	if serial != "" {
		transport = "host:transport:" + serial
	}
	if err := conn.Send(transport); err != nil {
		return nil, err
	}
	if err := conn.Send("shell:" + action); err != nil {
		return nil, err
	}
	return conn.readToEOF()
}
