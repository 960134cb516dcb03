package tcp

import (
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/protocol"
)

func pipe(t *testing.T) (server core.FrameConn, peer net.Conn) {
	t.Helper()
	ln, err := Listen("127.0.0.1:0", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	accepted := make(chan core.FrameConn, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			close(accepted)
			return
		}
		accepted <- c
	}()
	peer, err = net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	server, ok := <-accepted
	if !ok {
		t.Fatal("accept failed")
	}
	t.Cleanup(func() {
		_ = server.Close()
		_ = peer.Close()
	})
	_ = server.SetReadDeadline(time.Now().Add(2 * time.Second))
	return server, peer
}

func TestConn_ReadWrite(t *testing.T) {
	server, peer := pipe(t)

	if err := protocol.WriteFrame(peer, protocol.Join("alice")); err != nil {
		t.Fatal(err)
	}
	f, err := server.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	if f.Op != protocol.OpJoin || f.Text != "alice" || f.Aux != 5 {
		t.Fatalf("frame = %+v", f)
	}

	if err := server.WriteFrame(protocol.Broadcast("hello")); err != nil {
		t.Fatal(err)
	}
	_ = peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	got, err := protocol.ReadFrame(peer)
	if err != nil {
		t.Fatal(err)
	}
	if got.Op != protocol.OpBroadcast || got.Text != "hello" {
		t.Fatalf("peer got %+v", got)
	}
	if server.RemoteAddr() != peer.LocalAddr().String() {
		t.Fatalf("remote addr = %q, want %q", server.RemoteAddr(), peer.LocalAddr())
	}
}

func TestConn_PeerClose(t *testing.T) {
	server, peer := pipe(t)
	_ = peer.Close()
	if _, err := server.ReadFrame(); !errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want io.EOF", err)
	}
}

func TestConn_PartialFrame(t *testing.T) {
	server, peer := pipe(t)
	buf := protocol.Encode(protocol.Send("cut"))
	if _, err := peer.Write(buf[:40]); err != nil {
		t.Fatal(err)
	}
	_ = peer.Close()
	if _, err := server.ReadFrame(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("err = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestConn_CloseUnblocksRead(t *testing.T) {
	server, _ := pipe(t)
	errc := make(chan error, 1)
	go func() {
		_, err := server.ReadFrame()
		errc <- err
	}()
	time.Sleep(20 * time.Millisecond)
	if err := server.Close(); err != nil {
		t.Fatal(err)
	}
	if err := server.Close(); err != nil {
		t.Fatalf("second close = %v", err)
	}
	select {
	case err := <-errc:
		if !errors.Is(err, net.ErrClosed) {
			t.Fatalf("err = %v, want net.ErrClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("read not unblocked by close")
	}
}

func TestListener_AcceptAfterClose(t *testing.T) {
	ln, err := Listen("127.0.0.1:0", 0)
	if err != nil {
		t.Fatal(err)
	}
	_ = ln.Close()
	if _, err := ln.Accept(); !errors.Is(err, net.ErrClosed) {
		t.Fatalf("err = %v, want net.ErrClosed", err)
	}
}
