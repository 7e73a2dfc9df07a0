package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"awsprep-assessment-service/internal/rewards"
)

// WSHandler streams reward-contract events to clients and accepts claim
// submissions over the same socket, standing in for the wallet's
// submit-and-wait transaction flow.
type WSHandler struct {
	contract *rewards.Contract
	upgrader websocket.Upgrader
}

func NewWSHandler(contract *rewards.Contract) *WSHandler {
	return &WSHandler{
		contract: contract,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type claimPayload struct {
	CandidateAddress string `json:"candidateAddress"`
	Score            uint64 `json:"score"`
	AssessmentIDHash string `json:"assessmentIdHash"`
	CourseCode       string `json:"courseCode"`
}

type claimResult struct {
	OK           bool   `json:"ok"`
	Reason       string `json:"reason,omitempty"`
	TokensMinted string `json:"tokensMinted,omitempty"`
	DailyCount   uint64 `json:"dailyCount,omitempty"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type wsErrorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the connection, subscribes it to contract events
// (optionally filtered to one wallet), and processes inbound claims.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	// Contract events carry lowercased wallets; accept checksummed input.
	walletFilter := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("wallet")))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	events, cancel := h.contract.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Warn().Err(err).Msg("ws write error")
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if walletFilter != "" && ev.Wallet != walletFilter {
					continue
				}
				select {
				case send <- outboundMessage[any]{Type: string(ev.Type), Payload: ev}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	// If the writer dies on a broken connection, stop instead of blocking on
	// a full send buffer.
	sendOrStop := func(msg outboundMessage[any]) bool {
		select {
		case send <- msg:
			return true
		case <-writerDone:
			return false
		}
	}

	alive := sendOrStop(outboundMessage[any]{Type: "subscribed", Payload: map[string]any{
		"wallet":     walletFilter,
		"currentDay": h.contract.CurrentDay(),
	}})

	for alive {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "claim":
			var payload claimPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				alive = sendOrStop(outboundMessage[any]{Type: "error", Payload: wsErrorPayload{Message: "invalid claim payload"}})
				continue
			}
			receipt, err := h.contract.ClaimReward(r.Context(), payload.CandidateAddress, payload.Score, payload.AssessmentIDHash, payload.CourseCode)
			if err != nil {
				// Contract reverts travel back with their reason string.
				result := claimResult{OK: false, Reason: err.Error()}
				if errors.Is(err, rewards.ErrDailyLimitReached) {
					count, countErr := h.contract.TodayClaimCount(r.Context(), payload.CandidateAddress)
					if countErr == nil {
						result.DailyCount = count
					}
				}
				alive = sendOrStop(outboundMessage[any]{Type: "claimResult", Payload: result})
				continue
			}
			alive = sendOrStop(outboundMessage[any]{Type: "claimResult", Payload: claimResult{
				OK:           true,
				TokensMinted: receipt.TokensMinted,
				DailyCount:   receipt.DailyCount,
			}})
		default:
			alive = sendOrStop(outboundMessage[any]{Type: "error", Payload: wsErrorPayload{Message: "unsupported message type"}})
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}
