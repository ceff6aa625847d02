package server

import (
	"bufio"
	"chat-server/errors"
	"chat-server/mocks"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type Config struct {
	// CHAT_TEST_COLOURS enables colorized step headers
	Colours bool `envconfig:"CHAT_TEST_COLOURS" default:"false"`
}

type ServerSuite struct {
	suite.Suite
	config Config
	log    *slog.Logger
	engine *mocks.MockIEngine
	addr   string
	cancel context.CancelFunc
	done   chan error
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupSuite() {
	s.Require().NoError(envconfig.Process("", &s.config))
	s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *ServerSuite) SetupTest() {
	s.engine = mocks.NewMockIEngine(gomock.NewController(s.T()))
	listener, err := Listen("127.0.0.1", 0)
	s.Require().NoError(err)
	s.addr = listener.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan error, 1)
	srv := NewServer(s.log, listener, s.engine, 1024)
	go func() { s.done <- srv.Run(ctx) }()
}

func (s *ServerSuite) TearDownTest() {
	s.cancel()
	select {
	case err := <-s.done:
		s.Require().NoError(err)
	case <-time.After(2 * time.Second):
		s.Fail("server did not stop after cancel")
	}
}

func (s *ServerSuite) step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

func (s *ServerSuite) dial() net.Conn {
	conn, err := net.DialTimeout("tcp", s.addr, time.Second)
	s.Require().NoError(err)
	s.Require().NoError(conn.SetDeadline(time.Now().Add(2 * time.Second)))
	return conn
}

func (s *ServerSuite) request(conn net.Conn, request string) string {
	_, err := conn.Write([]byte(request))
	s.Require().NoError(err)
	line, err := bufio.NewReader(conn).ReadString('\n')
	s.Require().NoError(err)
	return line
}

func (s *ServerSuite) TestRequestsShareOneConnection() {
	gomock.InOrder(
		s.engine.EXPECT().Handle("GET USER NAME ann").Return("first\n", nil),
		s.engine.EXPECT().Handle("GET CONV NAME General").Return("second\n", nil),
	)
	conn := s.dial()
	defer conn.Close()

	s.step("first request")
	s.Equal("first\n", s.request(conn, "GET USER NAME ann\n"))
	s.step("second request on the same connection")
	s.Equal("second\n", s.request(conn, "GET CONV NAME General"))
}

func (s *ServerSuite) TestSentinelClosesWithoutResponse() {
	conn := s.dial()
	defer conn.Close()

	_, err := conn.Write([]byte("END\n"))
	s.Require().NoError(err)

	received, err := io.ReadAll(conn)
	s.Require().NoError(err)
	s.Empty(received)
}

func (s *ServerSuite) TestEmptyResponseWritesNothing() {
	gomock.InOrder(
		s.engine.EXPECT().Handle("GET MSG").Return("", nil),
		s.engine.EXPECT().Handle("GET USER ID x").Return("NO USER FOUND", nil),
	)
	conn := s.dial()
	defer conn.Close()

	_, err := conn.Write([]byte("GET MSG"))
	s.Require().NoError(err)
	// Give the server time to consume the first request on its own
	time.Sleep(50 * time.Millisecond)
	_, err = conn.Write([]byte("GET USER ID x"))
	s.Require().NoError(err)

	buffer := make([]byte, 64)
	n, err := conn.Read(buffer)
	s.Require().NoError(err)
	s.Equal("NO USER FOUND", string(buffer[:n]))
}

func (s *ServerSuite) TestProtocolViolationDropsConnection() {
	s.engine.EXPECT().
		Handle("GET FILE x").
		Return("", fmt.Errorf("%w: unknown noun", errors.ErrProtocolViolation))
	conn := s.dial()
	defer conn.Close()

	_, err := conn.Write([]byte("GET FILE x"))
	s.Require().NoError(err)

	received, err := io.ReadAll(conn)
	s.Require().NoError(err)
	s.Empty(received)
}

func (s *ServerSuite) TestConnectionsAreServedOneAtATime() {
	s.engine.EXPECT().Handle("GET USER NAME bo").Return("bo\n", nil)
	first := s.dial()
	defer first.Close()
	second := s.dial()
	defer second.Close()

	s.step("second client waits while the first is connected")
	_, err := second.Write([]byte("GET USER NAME bo"))
	s.Require().NoError(err)
	s.Require().NoError(second.SetReadDeadline(time.Now().Add(200 * time.Millisecond)))
	_, err = second.Read(make([]byte, 8))
	var netErr net.Error
	s.Require().ErrorAs(err, &netErr)
	s.True(netErr.Timeout())

	s.step("first client leaves, second is served")
	_, err = first.Write([]byte("END"))
	s.Require().NoError(err)
	s.Require().NoError(second.SetReadDeadline(time.Now().Add(2 * time.Second)))
	line, err := bufio.NewReader(second).ReadString('\n')
	s.Require().NoError(err)
	s.Equal("bo\n", line)
}

func TestServe_TruncatesToBufferSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockIEngine(ctrl)
	gomock.InOrder(
		engine.EXPECT().Handle(strings.Repeat("a", 16)).Return("", nil),
		engine.EXPECT().Handle(strings.Repeat("b", 4)).Return("", nil),
	)
	srv := NewServer(slog.New(slog.NewTextHandler(io.Discard, nil)), nil, engine, 16)
	client, conn := net.Pipe()

	go func() {
		_, _ = client.Write([]byte(strings.Repeat("a", 16) + strings.Repeat("b", 4)))
		_ = client.Close()
	}()

	srv.serve(context.Background(), conn)
}
