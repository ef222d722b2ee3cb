package models

// ConversationPair is one prompt/response entry of the knowledge base
type ConversationPair struct {
	User string `json:"user" yaml:"user"`
	Bot  string `json:"bot" yaml:"bot"`
}

// Category groups conversation pairs under a name, in insertion order
type Category struct {
	Name          string             `json:"name"`
	Conversations []ConversationPair `json:"conversations"`
}

// Intent identifies which resolution step produced a reply
type Intent string

const (
	IntentLoading     Intent = "loading"
	IntentQuickAction Intent = "quick_action"
	IntentExpression  Intent = "expression"
	IntentExactMatch  Intent = "exact_match"
	IntentFuzzyMatch  Intent = "fuzzy_match"
	IntentGeneric     Intent = "generic"
	IntentError       Intent = "error"
)

// Reply is the outcome of resolving a single user input
type Reply struct {
	Text   string  `json:"reply"`
	Intent Intent  `json:"intent"`
	Action string  `json:"action,omitempty"`
	Score  float64 `json:"score,omitempty"`
}
