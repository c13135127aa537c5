package osctrigger

import (
	"context"
	"errors"
	"net"

	"github.com/hypebeast/go-osc/osc"
	"github.com/robmorgan/tempo/logger"
)

// ListenAndServe receives OSC packets on the UDP address addr until ctx is done.
func ListenAndServe(ctx context.Context, addr string, d osc.Dispatcher) error {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return err
	}
	return Serve(ctx, conn, d)
}

// Serve receives OSC packets on conn until ctx is done. conn is closed on return.
func Serve(ctx context.Context, conn net.PacketConn, d osc.Dispatcher) error {
	logger := logger.GetProjectLogger()
	logger.Infof("Listening for OSC on %s", conn.LocalAddr())

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	server := &osc.Server{Dispatcher: d}
	err := server.Serve(conn)
	if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
		logger.Debug("OSC listener shutdown")
		return nil
	}
	return err
}
