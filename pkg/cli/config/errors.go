package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidConfig     = goerr.New("invalid configuration")
	ErrMissingKeywords   = goerr.New("rule requires at least one keyword")
	ErrUnknownRuleAction = goerr.New("rule action is not a known action")
	ErrDuplicateKeyword  = goerr.New("duplicate keyword across rules")
	ErrInvalidWindow     = goerr.New("history window must be positive")
	ErrMissingRuleReply  = goerr.New("rule reply is required")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	RuleIndexKey  = "rule_index"
	KeywordKey    = "keyword"
	RuleActionKey = "action"
)
