package main

import (
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"gardeners.ai/internal/protocol"
)

// A mask-following random actor. Useful for soaking the server and for
// eyeballing reward traces without a training stack attached.
func main() {
	var (
		url      = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name     = flag.String("name", "bot", "client name")
		episodes = flag.Int("episodes", 3, "episodes to run before exiting (0 = forever)")
		seed     = flag.Int64("seed", 0, "reset seed (0 = server session seed)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      *name,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	done := 0
	resetting := false

	for {
		select {
		case <-stop:
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME session=%s grid=%dx%d agents=%d actions=%d seed=%d",
				w.SessionID, w.SessionParams.Width, w.SessionParams.Height,
				w.SessionParams.NumAgents, w.SessionParams.ActionSpaceSize, w.SessionParams.Seed)
			sendReset(conn, *seed)

		case protocol.TypeObs:
			var obs protocol.ObsMsg
			if err := json.Unmarshal(msg, &obs); err != nil {
				continue
			}
			if resetting {
				// A truncating step is followed by one final OBS; only
				// the fresh episode's step 0 restarts the loop.
				if obs.Step != 0 {
					continue
				}
				resetting = false
			}
			act := protocol.ActMsg{
				Type:            protocol.TypeAct,
				ProtocolVersion: protocol.Version,
				Step:            obs.Step,
				Actions:         make(map[string]int, len(obs.Masks)),
			}
			for id, mask := range obs.Masks {
				act.Actions[id] = pickLegal(rng, mask)
			}
			if err := conn.WriteJSON(act); err != nil {
				return
			}

		case protocol.TypeStep:
			var st protocol.StepMsg
			if err := json.Unmarshal(msg, &st); err != nil {
				continue
			}
			if st.Step%100 == 0 || st.Truncated {
				logger.Printf("step=%d avg_pollution=%.2f truncated=%v", st.Step, st.Info.AveragePollution, st.Truncated)
			}
			if st.Truncated {
				done++
				if *episodes > 0 && done >= *episodes {
					logger.Printf("finished %d episodes", done)
					return
				}
				resetting = true
				sendReset(conn, *seed)
			}

		case protocol.TypeError:
			var e protocol.ErrorMsg
			if err := json.Unmarshal(msg, &e); err != nil {
				continue
			}
			logger.Printf("ERROR %s: %s", e.Code, e.Message)
		}
	}
}

func sendReset(conn *websocket.Conn, seed int64) {
	_ = conn.WriteJSON(protocol.ResetMsg{
		Type:            protocol.TypeReset,
		ProtocolVersion: protocol.Version,
		Seed:            seed,
	})
}

// pickLegal draws uniformly from the legal actions. Falls back to WAIT
// when the mask is somehow empty.
func pickLegal(rng *rand.Rand, mask []bool) int {
	legal := make([]int, 0, len(mask))
	for a, ok := range mask {
		if ok {
			legal = append(legal, a)
		}
	}
	if len(legal) == 0 {
		return 5
	}
	return legal[rng.Intn(len(legal))]
}
