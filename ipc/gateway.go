package ipc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/smallnest/swarmthing/history"
	"github.com/smallnest/swarmthing/log"
	"github.com/smallnest/swarmthing/pending"
	"github.com/smallnest/swarmthing/safety"
	"github.com/smallnest/swarmthing/store"
)

// ToolSource is the read side of the tool store the gateway needs for
// outbound sharing.
type ToolSource interface {
	Inspect(name string) (string, error)
}

var _ ToolSource = (*store.ToolStore)(nil)

// Gateway handles the inter-agent message protocol: inbound payloads
// are dispatched to the pending queue or the message log, outbound
// tools and texts are wrapped in the JSON envelope and POSTed to the
// peer's /message endpoint.
type Gateway struct {
	queue   *pending.Queue
	tools   ToolSource
	history history.Log
	pool    *Pool
	client  *http.Client
	logger  log.Logger
}

// GatewayOptions configures a Gateway. Queue and Tools are required
// for ToolShare handling and outbound sharing respectively; History
// defaults to an in-memory log, Pool to a fresh pool with defaults.
type GatewayOptions struct {
	Queue   *pending.Queue
	Tools   ToolSource
	History history.Log
	Pool    *Pool
	Client  *http.Client
	Logger  log.Logger
}

// NewGateway creates a gateway.
func NewGateway(opts GatewayOptions) *Gateway {
	g := &Gateway{
		queue:   opts.Queue,
		tools:   opts.Tools,
		history: opts.History,
		pool:    opts.Pool,
		client:  opts.Client,
		logger:  opts.Logger,
	}
	if g.history == nil {
		g.history = history.NewMemoryLog()
	}
	if g.pool == nil {
		g.pool = NewPool(0, 0)
	}
	if g.client == nil {
		g.client = &http.Client{}
	}
	if g.logger == nil {
		g.logger = log.GetDefaultLogger()
	}
	return g
}

// History returns the gateway's message log.
func (g *Gateway) History() history.Log {
	return g.history
}

// Receive handles one inbound payload and returns the acknowledgement
// text for the sender. peer is the transport-level sender address and
// becomes the SourceAgent of any queued proposal.
func (g *Gateway) Receive(payload, peer string) string {
	msg := Parse(payload)

	switch msg.Type {
	case KindToolShare:
		g.logger.Info("tool share from %s: %s (%s)", peer, msg.Name, msg.SafetyLevel)
		if g.queue == nil {
			return fmt.Sprintf("tool '%s' rejected: this agent accepts no tool shares", msg.Name)
		}
		g.queue.Enqueue(pending.Tool{
			Name:        msg.Name,
			Code:        msg.Code,
			SourceAgent: peer,
			ReceivedAt:  time.Now(),
			Description: msg.Description,
			SafetyLevel: msg.SafetyLevel,
		})
		return fmt.Sprintf("tool '%s' queued for approval (safety: %s)", msg.Name, msg.SafetyLevel)

	case KindToolRequest:
		g.logger.Info("tool request from %s: %s", peer, msg.Name)
		// Automatic tool transmission on request is unimplemented.
		return fmt.Sprintf("tool request for '%s' acknowledged (not implemented)", msg.Name)

	default: // KindText, including everything that degraded to text
		g.logger.Info("message from %s: %s", peer, msg.Content)
		if err := g.history.Append(history.Entry{Content: msg.Content, Peer: peer}); err != nil {
			g.logger.Error("failed to log message: %v", err)
		}
		return msg.Content
	}
}

// Share inspects a stored tool, classifies its source, and POSTs it to
// target as a ToolShare envelope. The return value is the remote
// acknowledgement text, or an error description; Share never fails
// into its caller.
func (g *Gateway) Share(target, toolName string) string {
	if g.tools == nil {
		return "Error sharing tool: no tool store configured"
	}
	code, err := g.tools.Inspect(toolName)
	if err != nil {
		return fmt.Sprintf("Error sharing tool: %v", err)
	}

	level := safety.Classify(code)
	g.logger.Info("sharing tool %s with %s (safety: %s)", toolName, target, level)
	return g.post(target, ToolShare(toolName, code, nil, level))
}

// Send wraps text in a Text envelope and POSTs it to target. Same
// return convention as Share.
func (g *Gateway) Send(target, text string) string {
	g.logger.Info("sending message to %s: %s", target, text)
	return g.post(target, Text(text))
}

// messageRequest is the body of POST /message.
type messageRequest struct {
	Content string `json:"content"`
}

// messageResponse is the acknowledgement returned by /message.
type messageResponse struct {
	Status   string `json:"status"`
	Received string `json:"received"`
}

func (g *Gateway) post(target string, msg Message) string {
	envelope, err := Encode(msg)
	if err != nil {
		return fmt.Sprintf("Error encoding message: %v", err)
	}
	body, err := json.Marshal(messageRequest{Content: envelope})
	if err != nil {
		return fmt.Sprintf("Error encoding message: %v", err)
	}

	ack, err := g.pool.Do(func(ctx context.Context) (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := g.client.Do(req)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("error reading response: %w", err)
		}

		var ack messageResponse
		if err := json.Unmarshal(raw, &ack); err != nil {
			// Peer spoke something other than the ack contract;
			// hand its raw reply back.
			return string(raw), nil
		}
		return ack.Received, nil
	})
	if err != nil {
		return fmt.Sprintf("Error sending message: %v", err)
	}
	return ack
}
