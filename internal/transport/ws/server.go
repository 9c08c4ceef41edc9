// Package ws exposes the local session over websocket: HELLO/WELCOME, then
// ACT in with one ACK per act, and a stream of VIEW messages out.
package ws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"neondrift.city/internal/protocol"
	"neondrift.city/internal/sim/world"
	"neondrift.city/schemas"
)

type Config struct {
	SessionID string
	Params    protocol.WorldParams
	Catalogs  protocol.CatalogDigests
	// OutQueue bounds queued outbound messages per connection.
	OutQueue int
}

type Server struct {
	runner *world.Runner
	cfg    Config
	log    *zap.Logger

	upgrader websocket.Upgrader

	hello *jsonschema.Schema
	act   *jsonschema.Schema

	// At most one controller drives the session at a time.
	controller atomic.Bool
}

func NewServer(r *world.Runner, cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.OutQueue <= 0 {
		cfg.OutQueue = 8
	}
	return &Server{
		runner: r,
		cfg:    cfg,
		log:    logger.Named("ws"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // loopback only
		},
		hello: schemas.MustCompile(schemas.Hello),
		act:   schemas.MustCompile(schemas.Act),
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			s.log.Debug("upgrade", zap.Error(err))
			return
		}
		defer conn.Close()

		connID := uuid.NewString()
		log := s.log.With(zap.String("conn", connID))

		hello, ok := s.handshake(conn, log)
		if !ok {
			return
		}
		if hello.Role == protocol.RoleController {
			defer s.controller.Store(false)
		}
		log.Info("client attached", zap.String("client", hello.ClientName), zap.String("role", hello.Role))

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		views, unsubscribe, err := s.runner.Subscribe(ctx)
		if err != nil {
			log.Warn("subscribe", zap.Error(err))
			return
		}
		defer unsubscribe()

		acks := make(chan protocol.AckMsg, s.cfg.OutQueue)
		go s.writeLoop(ctx, cancel, conn, views, acks, log)

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Debug("read", zap.Error(err))
				}
				break
			}
			ack := s.handleAct(ctx, hello.Role, msg)
			select {
			case acks <- ack:
			case <-ctx.Done():
			}
			if ctx.Err() != nil {
				break
			}
		}
		log.Info("client detached")
	}
}

func (s *Server) handshake(conn *websocket.Conn, log *zap.Logger) (protocol.HelloMsg, bool) {
	var hello protocol.HelloMsg
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return hello, false
	}

	if err := validate(s.hello, msg); err != nil {
		log.Debug("bad hello", zap.Error(err))
		closeWith(conn, "expected HELLO")
		return hello, false
	}
	if err := json.Unmarshal(msg, &hello); err != nil {
		return hello, false
	}
	if hello.ProtocolVersion != protocol.Version {
		closeWith(conn, "bad protocol_version")
		return hello, false
	}
	if hello.Role == "" {
		hello.Role = protocol.RoleController
	}
	if hello.Role == protocol.RoleController && !s.controller.CompareAndSwap(false, true) {
		closeWith(conn, "controller already attached")
		return hello, false
	}

	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       s.cfg.SessionID,
		Role:            hello.Role,
		WorldParams:     s.cfg.Params,
		Catalogs:        s.cfg.Catalogs,
	}
	if err := writeJSON(conn, welcome); err != nil {
		if hello.Role == protocol.RoleController {
			s.controller.Store(false)
		}
		return hello, false
	}
	return hello, true
}

func (s *Server) handleAct(ctx context.Context, role string, msg []byte) protocol.AckMsg {
	ack := protocol.AckMsg{Type: protocol.TypeAck, ProtocolVersion: protocol.Version, OK: true}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeAct {
		return reject(ack, protocol.ErrProtoBadRequest, "expected ACT")
	}
	var act protocol.ActMsg
	if err := json.Unmarshal(msg, &act); err != nil {
		return reject(ack, protocol.ErrProtoBadRequest, err.Error())
	}
	ack.Ref = act.ID
	if err := validate(s.act, msg); err != nil {
		return reject(ack, protocol.ErrProtoBadRequest, err.Error())
	}
	if act.ProtocolVersion != protocol.Version {
		return reject(ack, protocol.ErrProtoBadRequest, "bad protocol_version")
	}
	if role != protocol.RoleController {
		return reject(ack, protocol.ErrProtoRole, "observers cannot act")
	}

	if err := s.runner.Submit(ctx, act); err != nil {
		var ae *world.ActionError
		if errors.As(err, &ae) {
			return reject(ack, ae.Code, ae.Message)
		}
		return reject(ack, protocol.ErrInternal, err.Error())
	}
	return ack
}

func (s *Server) writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, views <-chan protocol.ViewMsg, acks <-chan protocol.AckMsg, log *zap.Logger) {
	defer cancel()
	for {
		var v any
		select {
		case <-ctx.Done():
			return
		case ack := <-acks:
			v = ack
		case view, ok := <-views:
			if !ok {
				return
			}
			view.SessionID = s.cfg.SessionID
			v = view
		}
		if err := writeJSON(conn, v); err != nil {
			log.Debug("write", zap.Error(err))
			return
		}
	}
}

func reject(ack protocol.AckMsg, code, message string) protocol.AckMsg {
	ack.OK = false
	ack.Code = code
	ack.Message = message
	return ack
}

func validate(sch *jsonschema.Schema, raw []byte) error {
	var doc any
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()
	if err := d.Decode(&doc); err != nil {
		return err
	}
	return sch.Validate(doc)
}

func closeWith(conn *websocket.Conn, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason), time.Now().Add(time.Second))
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
