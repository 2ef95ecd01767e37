package wire

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// stubServer speaks just enough of the smart-socket protocol to answer one
// request sequence per connection, and records every request it saw.
type stubServer struct {
	mu       sync.Mutex
	requests []string
	shellOut string
	failMsg  string
}

func (s *stubServer) seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *stubServer) record(req string) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
}

func readRequest(c net.Conn) (string, error) {
	head := make([]byte, 4)
	if _, err := io.ReadFull(c, head); err != nil {
		return "", err
	}
	n, err := strconv.ParseUint(string(head), 16, 32)
	if err != nil {
		return "", err
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(c, body); err != nil {
		return "", err
	}
	return string(body), nil
}

func writeMessage(c net.Conn, msg string) {
	fmt.Fprintf(c, "%04x%s", len(msg), msg)
}

func (s *stubServer) handle(c net.Conn) {
	defer c.Close()
	for {
		req, err := readRequest(c)
		if err != nil {
			return
		}
		s.record(req)

		if s.failMsg != "" {
			c.Write([]byte("FAIL"))
			writeMessage(c, s.failMsg)
			return
		}

		switch {
		case req == "host:version":
			c.Write([]byte("OKAY"))
			writeMessage(c, "0029")
			return
		case req == "host:devices":
			c.Write([]byte("OKAY"))
			writeMessage(c, "ABC123\tdevice\nemulator-5554\tunauthorized\n")
			return
		case strings.HasPrefix(req, "host:transport"):
			c.Write([]byte("OKAY"))
		case strings.HasPrefix(req, "shell:"):
			c.Write([]byte("OKAY"))
			c.Write([]byte(s.shellOut))
			return
		default:
			c.Write([]byte("FAIL"))
			writeMessage(c, "unknown service")
			return
		}
	}
}

func (s *stubServer) listen(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			go s.handle(c)
		}
	}()
	return ln.Addr().String()
}

func TestHostVersion(t *testing.T) {
	addr := (&stubServer{}).listen(t)
	v, err := HostVersion(addr)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x29 {
		t.Errorf("version = %d, want 41", v)
	}
}

func TestHostDevices(t *testing.T) {
	addr := (&stubServer{}).listen(t)
	out, err := HostDevices(addr)
	if err != nil {
		t.Fatal(err)
	}
	if out != "ABC123\tdevice\nemulator-5554\tunauthorized\n" {
		t.Errorf("out = %q", out)
	}
}

func TestShellCommandTransportSelection(t *testing.T) {
	srv := &stubServer{shellOut: "package:com.foo\n"}
	addr := srv.listen(t)

	out, err := ShellCommand(addr, "ABC123", "pm list packages -s")
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "package:com.foo\n" {
		t.Errorf("out = %q", out)
	}
	want := []string{"host:transport:ABC123", "shell:pm list packages -s"}
	got := srv.seen()
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("requests = %v, want %v", got, want)
	}
}

func TestShellCommandDefaultTransport(t *testing.T) {
	srv := &stubServer{shellOut: "ok"}
	addr := srv.listen(t)

	if _, err := ShellCommand(addr, "", "reboot"); err != nil {
		t.Fatal(err)
	}
	got := srv.seen()
	if len(got) == 0 || got[0] != "host:transport-any" {
		t.Errorf("requests = %v, want host:transport-any first", got)
	}
}

func TestFailReply(t *testing.T) {
	srv := &stubServer{failMsg: "device offline"}
	addr := srv.listen(t)

	_, err := HostVersion(addr)
	var fail *FailError
	if !errors.As(err, &fail) {
		t.Fatalf("err = %v, want FailError", err)
	}
	if fail.Msg != "device offline" {
		t.Errorf("msg = %q", fail.Msg)
	}
}

func TestDialUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	if _, err := HostVersion(addr); err == nil {
		t.Error("expected a dial error against a closed listener")
	}
}
