package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/skilletworks/prepline/internal/core/board"
	"github.com/skilletworks/prepline/internal/round"
)

// RecipeView is the wire form of the active round requirement.
type RecipeView struct {
	LeftTrack  string `json:"left_track" jsonschema:"track the left token must land on"`
	LeftToken  string `json:"left_token" jsonschema:"token required on the left side"`
	RightTrack string `json:"right_track" jsonschema:"track the right token must land on"`
	RightToken string `json:"right_token" jsonschema:"token required on the right side"`
}

// StateView is the wire form of the engine's observable state, shared by
// every tool result so clients always see where the session stands.
type StateView struct {
	SessionID        string     `json:"session_id" jsonschema:"playtest session identifier"`
	State            string     `json:"state" jsonschema:"round phase (awaiting_left_placement, awaiting_right_placement, gesture_stage, won, lost, transitioning, session_ended)"`
	Recipe           RecipeView `json:"recipe" jsonschema:"active round requirement"`
	Pool             []string   `json:"pool" jsonschema:"released tokens in release order"`
	GestureProgress  float64    `json:"gesture_progress" jsonschema:"normalized gesture completion in [0,1]"`
	RemainingSeconds float64    `json:"remaining_seconds" jsonschema:"time left on the session countdown"`
	Successes        int        `json:"successes" jsonschema:"rounds won this session"`
	Events           []string   `json:"events,omitempty" jsonschema:"engine events emitted by this call, in order"`
}

func (m *Manager) stateView(events []string) StateView {
	rec := m.machine.Recipe()
	pool := m.machine.Available()
	names := make([]string, 0, len(pool))
	for _, token := range pool {
		names = append(names, string(token))
	}
	return StateView{
		SessionID: m.sessionID,
		State:     m.machine.State().String(),
		Recipe: RecipeView{
			LeftTrack:  string(rec.Left.Track),
			LeftToken:  string(rec.Left.Token),
			RightTrack: string(rec.Right.Track),
			RightToken: string(rec.Right.Token),
		},
		Pool:             names,
		GestureProgress:  m.machine.GestureProgress(),
		RemainingSeconds: m.machine.SessionRemaining().Seconds(),
		Successes:        m.machine.SessionSuccesses(),
		Events:           events,
	}
}

// SessionStartInput configures a new playtest session.
type SessionStartInput struct {
	Seed        int64   `json:"seed,omitempty" jsonschema:"seed for reproducible recipe draws (0 picks a random one)"`
	TickSeconds float64 `json:"tick_seconds,omitempty" jsonschema:"synthetic frame duration in seconds (default 0.05)"`
}

// SessionStartTool defines the MCP tool schema for starting a playtest.
func SessionStartTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_start",
		Description: "Starts a fresh playtest session, replacing any live one. Returns the opening recipe and state.",
	}
}

// SessionStartHandler executes a session start request.
func SessionStartHandler(m *Manager) mcp.ToolHandlerFor[SessionStartInput, StateView] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionStartInput) (*mcp.CallToolResult, StateView, error) {
		m.mu.Lock()
		defer m.mu.Unlock()

		if err := m.start(ctx, input.Seed, input.TickSeconds); err != nil {
			return nil, StateView{}, fmt.Errorf("session start failed: %w", err)
		}
		return nil, m.stateView(m.drainEvents(ctx)), nil
	}
}

// SessionTickInput advances the live session.
type SessionTickInput struct {
	Ticks     int      `json:"ticks,omitempty" jsonschema:"number of frames to advance (default 1)"`
	Seconds   float64  `json:"seconds,omitempty" jsonschema:"per-frame duration in seconds (default: session tick)"`
	Hold      []string `json:"hold,omitempty" jsonschema:"tokens to grab before ticking"`
	Release   []string `json:"release,omitempty" jsonschema:"tokens to release before ticking"`
	StirSpeed float64  `json:"stir_speed,omitempty" jsonschema:"cursor speed in board units per second while ticking (drives the gesture stage)"`
}

// SessionTickTool defines the MCP tool schema for advancing the session.
func SessionTickTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_tick",
		Description: "Advances the session by one or more frames, optionally changing held tokens and sweeping the cursor.",
	}
}

// SessionTickHandler executes a tick request.
func SessionTickHandler(m *Manager) mcp.ToolHandlerFor[SessionTickInput, StateView] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionTickInput) (*mcp.CallToolResult, StateView, error) {
		m.mu.Lock()
		defer m.mu.Unlock()

		if err := m.requireSession(); err != nil {
			return nil, StateView{}, err
		}

		for _, name := range input.Hold {
			if err := m.setHeld(name, true); err != nil {
				return nil, StateView{}, err
			}
		}
		for _, name := range input.Release {
			if err := m.setHeld(name, false); err != nil {
				return nil, StateView{}, err
			}
		}

		count := input.Ticks
		if count <= 0 {
			count = 1
		}
		delta := m.tickDelta
		if input.Seconds > 0 {
			delta = time.Duration(input.Seconds * float64(time.Second))
		}

		m.tick(count, delta, input.StirSpeed)
		return nil, m.stateView(m.drainEvents(ctx)), nil
	}
}

func (m *Manager) setHeld(name string, held bool) error {
	token := board.TokenID(name)
	if _, known := m.held[token]; !known {
		return fmt.Errorf("token %q is not in the configured set", name)
	}
	m.held[token] = held
	return nil
}

// SessionPlaceInput raises one placement trigger.
type SessionPlaceInput struct {
	Side  string `json:"side" jsonschema:"which slot to fill: left or right"`
	Track string `json:"track" jsonschema:"track identifier the trigger lands on"`
}

// SessionPlaceTool defines the MCP tool schema for a placement trigger.
func SessionPlaceTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_place",
		Description: "Raises a placement trigger for one side. The oldest released token is consumed; correctness is judged at round end.",
	}
}

// SessionPlaceHandler executes a placement request.
func SessionPlaceHandler(m *Manager) mcp.ToolHandlerFor[SessionPlaceInput, StateView] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionPlaceInput) (*mcp.CallToolResult, StateView, error) {
		m.mu.Lock()
		defer m.mu.Unlock()

		if err := m.requireSession(); err != nil {
			return nil, StateView{}, err
		}

		var side board.Side
		switch input.Side {
		case "left":
			side = board.SideLeft
		case "right":
			side = board.SideRight
		default:
			return nil, StateView{}, fmt.Errorf("side must be %q or %q", "left", "right")
		}
		if input.Track == "" {
			return nil, StateView{}, fmt.Errorf("track is required")
		}

		m.tick(1, m.tickDelta, 0, round.PlacementEvent{Side: side, Track: board.TrackID(input.Track)})
		return nil, m.stateView(m.drainEvents(ctx)), nil
	}
}

// SessionStateInput has no parameters.
type SessionStateInput struct{}

// SessionStateTool defines the MCP tool schema for reading state.
func SessionStateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_state",
		Description: "Returns the live session's state, recipe, pool, gesture progress, and countdown without advancing time.",
	}
}

// SessionStateHandler executes a state query.
func SessionStateHandler(m *Manager) mcp.ToolHandlerFor[SessionStateInput, StateView] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ SessionStateInput) (*mcp.CallToolResult, StateView, error) {
		m.mu.Lock()
		defer m.mu.Unlock()

		if err := m.requireSession(); err != nil {
			return nil, StateView{}, err
		}
		return nil, m.stateView(nil), nil
	}
}

// SessionReportInput selects which report to build.
type SessionReportInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"session to report on (default: the live session)"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum journaled events to return (default 50)"`
}

// SessionEventView is one journaled engine event.
type SessionEventView struct {
	Seq   int64  `json:"seq" jsonschema:"journal sequence number"`
	Kind  string `json:"kind" jsonschema:"event kind"`
	Side  string `json:"side,omitempty" jsonschema:"board side, when the kind carries one"`
	Token string `json:"token,omitempty" jsonschema:"token identity, when the kind carries one"`
	Track string `json:"track,omitempty" jsonschema:"track identity, when the kind carries one"`
	Score int    `json:"score,omitempty" jsonschema:"score, for win and session-end events"`
}

// SessionReportResult summarizes a persisted session.
type SessionReportResult struct {
	SessionID  string             `json:"session_id" jsonschema:"session identifier"`
	Seed       int64              `json:"seed" jsonschema:"seed the session ran under"`
	StartedAt  string             `json:"started_at" jsonschema:"RFC3339 session start"`
	EndedAt    string             `json:"ended_at,omitempty" jsonschema:"RFC3339 session end, when closed"`
	Score      int                `json:"score" jsonschema:"final score"`
	RoundsWon  int                `json:"rounds_won" jsonschema:"rounds won"`
	RoundsLost int                `json:"rounds_lost" jsonschema:"rounds lost"`
	Events     []SessionEventView `json:"events,omitempty" jsonschema:"journaled events, oldest first"`
}

// SessionReportTool defines the MCP tool schema for session reports.
func SessionReportTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_report",
		Description: "Returns the persisted record and event journal for a session.",
	}
}

// SessionReportHandler executes a report request against the store.
func SessionReportHandler(m *Manager) mcp.ToolHandlerFor[SessionReportInput, SessionReportResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionReportInput) (*mcp.CallToolResult, SessionReportResult, error) {
		m.mu.Lock()
		defer m.mu.Unlock()

		if m.store == nil {
			return nil, SessionReportResult{}, fmt.Errorf("no store configured; reports need persistence")
		}

		sessionID := input.SessionID
		if sessionID == "" {
			if err := m.requireSession(); err != nil {
				return nil, SessionReportResult{}, err
			}
			sessionID = m.sessionID
		}

		record, err := m.store.GetSession(ctx, sessionID)
		if err != nil {
			return nil, SessionReportResult{}, fmt.Errorf("get session: %w", err)
		}

		limit := input.Limit
		if limit <= 0 {
			limit = 50
		}
		events, err := m.store.ListEventsBySession(ctx, sessionID, 0, limit)
		if err != nil {
			return nil, SessionReportResult{}, fmt.Errorf("list events: %w", err)
		}

		result := SessionReportResult{
			SessionID:  record.ID,
			Seed:       record.Seed,
			StartedAt:  record.StartedAt.Format(time.RFC3339),
			Score:      record.Score,
			RoundsWon:  record.RoundsWon,
			RoundsLost: record.RoundsLost,
		}
		if record.EndedAt != nil {
			result.EndedAt = record.EndedAt.Format(time.RFC3339)
		}
		for _, event := range events {
			result.Events = append(result.Events, SessionEventView{
				Seq:   event.Seq,
				Kind:  event.Kind,
				Side:  event.Side,
				Token: event.Token,
				Track: event.Track,
				Score: event.Score,
			})
		}
		return nil, result, nil
	}
}
