package domain

// Turn speakers.
const (
	SpeakerUser  = "user"
	SpeakerAgent = "agent"
)

// Turn is one utterance in the conversation history. History is
// append-only; nothing rewrites or prunes past turns.
type Turn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Intent is the classified meaning of a user utterance.
type Intent string

const (
	IntentGreeting        Intent = "greeting"
	IntentFarewell        Intent = "farewell"
	IntentSearchProduct   Intent = "search_product"
	IntentCreatePlan      Intent = "create_plan"
	IntentGeneralQuestion Intent = "general_question"
	IntentUnknown         Intent = "unknown"
)

// NextAction values a Decision can carry.
const (
	ActionRespond  = "respond"
	ActionCallTool = "call_tool"
	ActionEnd      = "end"
)

// Decision is the structured output of one conversation controller cycle:
// either answer the user, invoke a named tool, or end the session.
type Decision struct {
	NextAction   string         `json:"next_action"`
	ResponseText string         `json:"response_text,omitempty"`
	ToolName     string         `json:"tool_name,omitempty"`
	ToolInput    map[string]any `json:"tool_input,omitempty"`
}

// Classification is the response contract of the external intent
// classification capability.
type Classification struct {
	Intent         Intent `json:"intent"`
	ExtractedQuery string `json:"extracted_query,omitempty"`
}

// AdviceRequest is the input contract of the external text-generation
// capability used for short purchase advisories.
type AdviceRequest struct {
	ProductName string   `json:"product_name"`
	Category    string   `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	KeyFeatures []string `json:"key_features,omitempty"`
	Source      string   `json:"source,omitempty"`
	Sentiment   string   `json:"sentiment,omitempty"`
}

// Advice is the advisory capability's response.
type Advice struct {
	ItemName string `json:"item_name"`
	Advice   string `json:"advice"`
}

// SignalAnalysis is the structured result of analyzing one raw social
// save with the classification-style capability: what product the user
// seems to want, and how strongly.
type SignalAnalysis struct {
	IdentifiedName string   `json:"identified_product_name,omitempty"`
	Category       string   `json:"category,omitempty"`
	KeyFeatures    []string `json:"key_features,omitempty"`
	Sentiment      string   `json:"user_sentiment,omitempty"`
}
