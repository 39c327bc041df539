// Package ws serves the trainer protocol over WebSocket. Every
// connection owns a private simulation session: HELLO negotiates it,
// RESET starts episodes and ACT drives steps. The engine is
// single-threaded, so the reader loop applies actions directly.
package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"gardeners.ai/internal/protocol"
	"gardeners.ai/internal/sim/catalogs"
	"gardeners.ai/internal/sim/garden"
	"gardeners.ai/internal/sim/tuning"
)

// EpisodeSink records one finished episode; nil disables recording.
type EpisodeSink interface {
	RecordEpisode(rec EpisodeRecord) error
}

type EpisodeRecord struct {
	SessionID        string
	Episode          uint64
	Seed             int64
	Steps            uint64
	AveragePollution float64
	TotalMoney       float64
	FlowersHarvested int
	EndedAt          time.Time
}

// StepLoggerFactory builds a per-session step logger; nil disables step
// logging.
type StepLoggerFactory func(sessionID string) garden.StepLogger

type Server struct {
	tun     tuning.Tuning
	catalog *catalogs.FlowerCatalog
	log     *log.Logger

	episodes EpisodeSink
	stepLogs StepLoggerFactory
	seed     int64

	upgrader websocket.Upgrader
	sessions atomic.Uint64

	helloSchema *jsonschema.Schema
	resetSchema *jsonschema.Schema
	actSchema   *jsonschema.Schema
}

// NewServer compiles the request schemas from schemasDir and is ready to
// serve sessions. The catalog may be nil when the tuning selects textual
// initialization.
func NewServer(tun tuning.Tuning, catalog *catalogs.FlowerCatalog, schemasDir string, logger *log.Logger) (*Server, error) {
	s := &Server{
		tun:     tun,
		catalog: catalog,
		log:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
	for name, dst := range map[string]**jsonschema.Schema{
		"hello.schema.json": &s.helloSchema,
		"reset.schema.json": &s.resetSchema,
		"act.schema.json":   &s.actSchema,
	} {
		sch, err := jsonschema.Compile(filepath.Join(schemasDir, name))
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
		*dst = sch
	}
	return s, nil
}

func (s *Server) SetEpisodeSink(sink EpisodeSink)    { s.episodes = sink }
func (s *Server) SetStepLoggers(f StepLoggerFactory) { s.stepLogs = f }

// SetSessionSeed fixes the seed handed to every new session instead of
// drawing one per connection. Useful for reproducible serving.
func (s *Server) SetSessionSeed(seed int64) { s.seed = seed }

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sess := s.handshake(conn)
		if sess == nil {
			return
		}
		s.log.Printf("session %s: open (%dx%d, %d agents)",
			sess.id, sess.engine.Width(), sess.engine.Height(), len(sess.engine.Agents()))

		sess.run(conn)

		sess.finishEpisode()
		s.log.Printf("session %s: closed after %d episodes", sess.id, sess.engine.Episode())
	}
}

// handshake expects HELLO as the first frame and answers WELCOME with the
// session parameters. A protocol violation closes the connection.
func (s *Server) handshake(conn *websocket.Conn) *session {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		closePolicy(conn, "expected HELLO")
		return nil
	}
	if err := validateJSON(s.helloSchema, msg); err != nil {
		closePolicy(conn, "malformed HELLO")
		return nil
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return nil
	}
	if hello.ProtocolVersion != protocol.Version {
		closePolicy(conn, "bad protocol_version")
		return nil
	}

	seed := s.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cfg, err := s.tun.EngineConfig(seed)
	if err != nil {
		closePolicy(conn, "server misconfigured")
		s.log.Printf("handshake: %v", err)
		return nil
	}
	engine, err := garden.New(cfg, s.catalog)
	if err != nil {
		closePolicy(conn, "server misconfigured")
		s.log.Printf("handshake: engine: %v", err)
		return nil
	}

	sess := &session{
		id:     fmt.Sprintf("S%d", s.sessions.Add(1)),
		srv:    s,
		engine: engine,
		cfg:    cfg,
	}
	if s.stepLogs != nil {
		engine.SetStepLogger(s.stepLogs(sess.id))
	}

	cat := engine.Catalog()
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       sess.id,
		SessionParams: protocol.SessionParams{
			TickRateHz:      s.tun.TickRateHz,
			Width:           engine.Width(),
			Height:          engine.Height(),
			NumAgents:       len(engine.Agents()),
			ActionSpaceSize: engine.Actions().Size(),
			MaxSteps:        engine.MaxSteps(),
			MinPollution:    cfg.MinPollution,
			MaxPollution:    cfg.MaxPollution,
			Seed:            engine.Seed(),
		},
		Catalog: protocol.CatalogRef{Digest: cat.Digest, Count: cat.NumTypes()},
	}
	if err := writeJSON(conn, welcome); err != nil {
		return nil
	}
	return sess
}

type session struct {
	id     string
	srv    *Server
	engine *garden.Engine
	cfg    garden.Config

	// recorded marks the current episode as already flushed to the
	// episode sink.
	recorded bool
}

func (sess *session) run(conn *websocket.Conn) {
	for {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}

		base, err := protocol.DecodeBase(msg)
		if err != nil {
			sess.sendError(conn, protocol.ErrProtoBadRequest, "not a protocol message")
			continue
		}
		if base.ProtocolVersion != protocol.Version {
			sess.sendError(conn, protocol.ErrProtoBadRequest, "bad protocol_version")
			continue
		}

		switch base.Type {
		case protocol.TypeReset:
			sess.handleReset(conn, msg)
		case protocol.TypeAct:
			sess.handleAct(conn, msg)
		default:
			sess.sendError(conn, protocol.ErrProtoBadRequest, "unexpected message type "+base.Type)
		}
	}
}

func (sess *session) handleReset(conn *websocket.Conn, msg []byte) {
	if err := validateJSON(sess.srv.resetSchema, msg); err != nil {
		sess.sendError(conn, protocol.ErrProtoBadRequest, "malformed RESET")
		return
	}
	var reset protocol.ResetMsg
	if err := json.Unmarshal(msg, &reset); err != nil {
		sess.sendError(conn, protocol.ErrProtoBadRequest, "malformed RESET")
		return
	}

	sess.finishEpisode()

	if reset.Grid != "" {
		// The textual layout replaces the configured initialization for
		// the rest of the session.
		cfg := sess.cfg
		cfg.Init = garden.InitText
		cfg.GridText = reset.Grid
		cfg.Spec = nil
		if reset.Seed != 0 {
			cfg.Seed = reset.Seed
		}
		engine, err := garden.New(cfg, nil)
		if err != nil {
			sess.sendError(conn, errorCode(err), err.Error())
			return
		}
		if sess.srv.stepLogs != nil {
			engine.SetStepLogger(sess.srv.stepLogs(sess.id))
		}
		sess.engine = engine
		sess.cfg = cfg
	} else {
		seed := reset.Seed
		if seed == 0 {
			seed = sess.engine.Seed()
		}
		if _, _, err := sess.engine.Reset(seed); err != nil {
			sess.sendError(conn, errorCode(err), err.Error())
			return
		}
	}
	sess.recorded = false

	_ = writeJSON(conn, sess.buildObs())
}

func (sess *session) handleAct(conn *websocket.Conn, msg []byte) {
	if err := validateJSON(sess.srv.actSchema, msg); err != nil {
		sess.sendError(conn, protocol.ErrProtoBadRequest, "malformed ACT")
		return
	}
	var act protocol.ActMsg
	if err := json.Unmarshal(msg, &act); err != nil {
		sess.sendError(conn, protocol.ErrProtoBadRequest, "malformed ACT")
		return
	}
	if act.Step != sess.engine.Step() {
		sess.sendError(conn, protocol.ErrStale,
			fmt.Sprintf("act for step %d but the session is at %d", act.Step, sess.engine.Step()))
		return
	}

	actions := make(map[int]garden.Action, len(act.Actions))
	for key, a := range act.Actions {
		id, err := strconv.Atoi(key)
		if err != nil {
			sess.sendError(conn, protocol.ErrBadRequest, "bad agent id "+key)
			return
		}
		actions[id] = garden.Action(a)
	}

	rewards, info, err := sess.engine.ApplyActions(actions)
	if err != nil {
		sess.sendError(conn, errorCode(err), err.Error())
		return
	}

	step := protocol.StepMsg{
		Type:            protocol.TypeStep,
		ProtocolVersion: protocol.Version,
		Step:            info.Step,
		Rewards:         make(map[string]protocol.RewardBreakdown, len(rewards)),
		Truncated:       info.Truncated,
		Info: protocol.StepInfo{
			AveragePollution: info.AveragePollution,
			Flowers:          make(map[string]int, len(info.Flowers)),
		},
	}
	for id, r := range rewards {
		step.Rewards[strconv.Itoa(id)] = protocol.RewardBreakdown{
			Components: r.Components,
			Total:      r.Total,
		}
	}
	for t, n := range info.Flowers {
		step.Info.Flowers[strconv.Itoa(t)] = n
	}

	if info.Truncated {
		sess.finishEpisode()
	}

	if err := writeJSON(conn, step); err != nil {
		return
	}
	_ = writeJSON(conn, sess.buildObs())
}

// finishEpisode flushes an episode summary once per episode, on
// truncation, reset or disconnect. Episodes with no steps are skipped.
func (sess *session) finishEpisode() {
	if sess.recorded || sess.srv.episodes == nil || sess.engine.Step() == 0 {
		return
	}
	sess.recorded = true

	rec := EpisodeRecord{
		SessionID:        sess.id,
		Episode:          sess.engine.Episode(),
		Seed:             sess.engine.Seed(),
		Steps:            sess.engine.Step(),
		AveragePollution: sess.engine.Grid().AveragePollution(),
		EndedAt:          time.Now().UTC(),
	}
	for _, a := range sess.engine.Agents() {
		rec.TotalMoney += a.Money
		for _, n := range a.FlowersHarvested {
			rec.FlowersHarvested += n
		}
	}
	if err := sess.srv.episodes.RecordEpisode(rec); err != nil {
		sess.srv.log.Printf("session %s: episode record: %v", sess.id, err)
	}
}

func (sess *session) sendError(conn *websocket.Conn, code, message string) {
	if !protocol.IsKnownCode(code) {
		code = protocol.ErrInternal
	}
	_ = writeJSON(conn, protocol.ErrorMsg{
		Type:            protocol.TypeError,
		ProtocolVersion: protocol.Version,
		Code:            code,
		Message:         message,
	})
}

func validateJSON(schema *jsonschema.Schema, msg []byte) error {
	var v any
	if err := json.Unmarshal(msg, &v); err != nil {
		return err
	}
	return schema.Validate(v)
}

func closePolicy(conn *websocket.Conn, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason),
		time.Now().Add(time.Second))
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
