// Package conversation implements the interactive dialogue state machine:
// each user turn runs a short workflow traversal that classifies the
// utterance, dispatches a decision (respond, call a tool, or end) and
// formats the reply.
package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ncardoz/cesta/internal/logging"
	"github.com/ncardoz/cesta/internal/workflow"
	"github.com/ncardoz/cesta/pkg/domain"
	"github.com/ncardoz/cesta/pkg/ports"
	"github.com/ncardoz/cesta/pkg/registry"
)

// historyWindowPairs is how many user/agent turn pairs are handed to the
// classification capability as context.
const historyWindowPairs = 3

// searchPrefix triggers the debug bypass: classification is skipped and
// the remainder of the line goes straight to catalog search.
const searchPrefix = "search "

// farewellKeywords end the session even when classification is down.
var farewellKeywords = map[string]struct{}{
	"adiós": {},
	"salir": {},
	"exit":  {},
	"quit":  {},
}

const (
	nodeClassify workflow.NodeID = "classify"
	nodeInvoke   workflow.NodeID = "invoke_tool"
	nodeRespond  workflow.NodeID = "respond"
)

// turnState is the per-turn session state threaded through the graph.
type turnState struct {
	Input       string
	History     []domain.Turn
	Decision    domain.Decision
	ToolRows    []map[string]any
	Response    string
	SessionOver bool
}

func (s turnState) Clone() turnState {
	out := s
	out.History = append([]domain.Turn(nil), s.History...)
	out.ToolRows = append([]map[string]any(nil), s.ToolRows...)
	return out
}

// Controller drives one conversational session. It is not safe for
// concurrent turns; a session is owned by a single caller.
type Controller struct {
	classifier ports.Classifier
	invoker    *registry.Registry
	logger     *slog.Logger
	runner     *workflow.Runner[turnState]

	history []domain.Turn
	ended   bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithClassifier installs the external intent classification capability.
// Without one, every turn takes the keyword fallback path.
func WithClassifier(c ports.Classifier) Option {
	return func(ctrl *Controller) { ctrl.classifier = c }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(ctrl *Controller) {
		if logger != nil {
			ctrl.logger = logger
		}
	}
}

// New creates a session controller dispatching tool calls through invoker.
func New(invoker *registry.Registry, opts ...Option) (*Controller, error) {
	if invoker == nil {
		return nil, fmt.Errorf("conversation: tool invoker is required")
	}
	ctrl := &Controller{
		invoker: invoker,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(ctrl)
	}

	g := workflow.New[turnState]()
	g.AddNode(nodeClassify, ctrl.classify)
	g.AddNode(nodeInvoke, ctrl.invokeTool)
	g.AddNode(nodeRespond, ctrl.respond)
	g.SetEntry(nodeClassify)
	g.AddConditionalEdge(nodeClassify, func(s turnState) string {
		if s.Decision.NextAction == domain.ActionCallTool {
			return "tool"
		}
		return "respond"
	}, map[string]workflow.NodeID{
		"tool":    nodeInvoke,
		"respond": nodeRespond,
	})
	g.AddEdge(nodeInvoke, nodeRespond)
	g.AddEdge(nodeRespond, workflow.End)

	runner, err := g.Compile(workflow.WithLogger(ctrl.logger))
	if err != nil {
		return nil, err
	}
	ctrl.runner = runner
	return ctrl, nil
}

// Ended reports whether the session is closed to further input.
func (c *Controller) Ended() bool {
	return c.ended
}

// History returns the full session transcript. Append-only and unbounded;
// only a window of it is ever read for classification context.
func (c *Controller) History() []domain.Turn {
	return append([]domain.Turn(nil), c.history...)
}

// HandleInput processes one user utterance and returns the agent's reply.
// After the session has ended it returns ErrSessionEnded.
func (c *Controller) HandleInput(ctx context.Context, input string) (string, error) {
	if c.ended {
		return "", domain.ErrSessionEnded
	}

	final, err := c.runner.Run(ctx, turnState{
		Input:   strings.TrimSpace(input),
		History: c.history,
	})
	if err != nil {
		// The turn aborted; committed history is untouched, so the caller
		// may simply try again on the next input.
		return "", err
	}

	if final.SessionOver {
		c.ended = true
	} else {
		c.history = append(c.history,
			domain.Turn{Speaker: domain.SpeakerUser, Text: final.Input},
			domain.Turn{Speaker: domain.SpeakerAgent, Text: final.Response},
		)
	}
	return final.Response, nil
}

// classify produces the turn's Decision: canned paths for empty input and
// the debug bypass, the external capability otherwise, and a keyword
// fallback when the capability is missing or fails.
func (c *Controller) classify(ctx context.Context, s turnState) (turnState, error) {
	if s.Input == "" {
		if len(s.History) == 0 {
			s.Decision = respondWith(msgGreetingFirst)
		} else {
			s.Decision = respondWith(msgSaySomething)
		}
		return s, nil
	}

	if rest, ok := strings.CutPrefix(s.Input, searchPrefix); ok {
		s.Decision = domain.Decision{
			NextAction: domain.ActionCallTool,
			ToolName:   registry.CatalogSearchName,
			ToolInput:  map[string]any{"query": strings.TrimSpace(rest)},
		}
		return s, nil
	}

	if c.classifier == nil {
		s.Decision = c.fallbackDecision(s.Input)
		return s, nil
	}
	result, err := c.classifier.Classify(ctx, s.Input, historyWindow(s.History))
	if err != nil {
		c.logger.Warn("classification failed, using keyword fallback", "err", err)
		s.Decision = c.fallbackDecision(s.Input)
		return s, nil
	}
	s.Decision = c.dispatch(result, s.History)
	return s, nil
}

// dispatch maps a classified intent onto a Decision.
func (c *Controller) dispatch(result domain.Classification, history []domain.Turn) domain.Decision {
	switch result.Intent {
	case domain.IntentFarewell:
		return domain.Decision{NextAction: domain.ActionEnd, ResponseText: msgFarewell}
	case domain.IntentGreeting:
		if len(history) == 0 {
			return respondWith(msgGreetingFirst)
		}
		return respondWith(msgGreetingAgain)
	case domain.IntentSearchProduct:
		if result.ExtractedQuery == "" {
			return respondWith(msgAskWhatToSearch)
		}
		return domain.Decision{
			NextAction: domain.ActionCallTool,
			ToolName:   registry.CatalogSearchName,
			ToolInput:  map[string]any{"query": result.ExtractedQuery},
		}
	case domain.IntentCreatePlan:
		return respondWith(msgPlanNotAvailable)
	case domain.IntentGeneralQuestion:
		return respondWith(msgCapabilities)
	default:
		return respondWith(msgReformulate)
	}
}

// fallbackDecision is the degraded path when no classifier is usable:
// farewell keywords still end the session, anything else gets an echo.
func (c *Controller) fallbackDecision(input string) domain.Decision {
	if _, ok := farewellKeywords[strings.ToLower(input)]; ok {
		return domain.Decision{NextAction: domain.ActionEnd, ResponseText: msgFarewell}
	}
	return respondWith(fmt.Sprintf(msgFallbackEchoFmt, input))
}

// invokeTool executes the decided tool call and formats its result into
// the turn's response. Tool failures never abort the turn.
func (c *Controller) invokeTool(ctx context.Context, s turnState) (turnState, error) {
	rows, err := c.invoker.Invoke(ctx, s.Decision.ToolName, s.Decision.ToolInput)
	if err != nil {
		rows = registry.ErrorPayload(err)
	}
	s.ToolRows = rows
	s.Response = formatToolResult(rows)
	return s, nil
}

// respond finalizes the turn.
func (c *Controller) respond(_ context.Context, s turnState) (turnState, error) {
	if s.Response == "" {
		s.Response = s.Decision.ResponseText
	}
	s.SessionOver = s.Decision.NextAction == domain.ActionEnd
	return s, nil
}

// historyWindow returns the last historyWindowPairs user/agent pairs.
func historyWindow(history []domain.Turn) []domain.Turn {
	n := historyWindowPairs * 2
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

func respondWith(text string) domain.Decision {
	return domain.Decision{NextAction: domain.ActionRespond, ResponseText: text}
}
