package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client performs the three remote operations of the exchange protocol.
// SendTurn mutates remote conversation state and is never retried here;
// the session fetches are read-only and safe to poll.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Metadata accompanies every outbound exchange.
type Metadata struct {
	Channel  string `json:"channel"`
	Language string `json:"language"`
	Locale   string `json:"locale"`
}

type messageRequest struct {
	SessionID           string   `json:"sessionId"`
	Message             Turn     `json:"message"`
	ConversationHistory []Turn   `json:"conversationHistory"`
	Metadata            Metadata `json:"metadata"`
}

type messageResponse struct {
	Status  string           `json:"status,omitempty"`
	Reply   string           `json:"reply"`
	Metrics *AdvancedMetrics `json:"advanced_metrics,omitempty"`
}

// TurnReply is the service's answer to one exchange. Metrics may be nil
// when the service attached no analytics to the reply.
type TurnReply struct {
	Reply   string
	Metrics *AdvancedMetrics
}

type sessionEnvelope struct {
	Session struct {
		Intelligence Intelligence `json:"intelligence"`
		Finalized    bool         `json:"finalized"`
	} `json:"session"`
	FinalOutput *FinalOutput `json:"finalOutput,omitempty"`
}

// SessionSnapshot is the parsed result of a session fetch. FinalOutput
// is non-nil only when the service reports the session finalized.
type SessionSnapshot struct {
	Intelligence Intelligence
	Finalized    bool
	FinalOutput  *FinalOutput
}

// Health probes the service. Any outcome other than a success status is
// reported as an error; the probe carries no credential.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return &TransportError{Op: "health", Err: err}
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &TransportError{Op: "health", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ProtocolError{Op: "health", StatusCode: resp.StatusCode}
	}
	return nil
}

// SendTurn submits one outbound turn with the pre-submission history and
// returns the reply plus whatever analytics came with it.
func (c *Client) SendTurn(ctx context.Context, sessionID string, message Turn, history []Turn, meta Metadata) (*TurnReply, error) {
	if history == nil {
		history = []Turn{}
	}
	body := messageRequest{
		SessionID:           sessionID,
		Message:             message,
		ConversationHistory: history,
		Metadata:            meta,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &TransportError{Op: "send", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/message", bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Op: "send", Err: err}
	}
	c.setHeaders(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "send", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, &ProtocolError{Op: "send", StatusCode: resp.StatusCode}
	}

	var parsed messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &TransportError{Op: "send", Err: fmt.Errorf("decode reply: %w", err)}
	}
	return &TurnReply{Reply: parsed.Reply, Metrics: parsed.Metrics}, nil
}

// FetchSession retrieves the current remote view of a session:
// accumulated intelligence, the finalized flag, and the final output
// once it exists.
func (c *Client) FetchSession(ctx context.Context, sessionID string) (*SessionSnapshot, error) {
	raw, err := c.fetchSessionRaw(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	var env sessionEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &TransportError{Op: "session", Err: fmt.Errorf("decode session: %w", err)}
	}
	return &SessionSnapshot{
		Intelligence: env.Session.Intelligence,
		Finalized:    env.Session.Finalized,
		FinalOutput:  env.FinalOutput,
	}, nil
}

// FetchFinalOutput is FetchSession restricted to the final-output field.
// A nil result with a nil error means the session has not finalized.
func (c *Client) FetchFinalOutput(ctx context.Context, sessionID string) (*FinalOutput, error) {
	snap, err := c.FetchSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return snap.FinalOutput, nil
}

// ExportSession returns the raw session document exactly as the service
// sent it, for verbatim persistence.
func (c *Client) ExportSession(ctx context.Context, sessionID string) ([]byte, error) {
	return c.fetchSessionRaw(ctx, sessionID)
}

func (c *Client) fetchSessionRaw(ctx context.Context, sessionID string) ([]byte, error) {
	url := fmt.Sprintf("%s/api/session/%s", c.BaseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{Op: "session", Err: err}
	}
	c.setHeaders(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "session", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, &ProtocolError{Op: "session", StatusCode: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.APIKey)
}
