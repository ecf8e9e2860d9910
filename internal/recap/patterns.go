package recap

import "regexp"

// termRule is one commercial term type with its ordered pattern list.
// Patterns run against ASCII-lowercased recap text; the first capturing
// group is the candidate value. Declaration order is the discovery order
// used for deterministic tie-breaking.
type termRule struct {
	termType string
	patterns []*regexp.Regexp
}

// termRules is the immutable process-wide pattern table, compiled once at
// package init and read by every extraction call.
var termRules = []termRule{
	{
		termType: "vessel",
		patterns: compile(
			`(?m)vessel[:\s]+(.+?)(?:\n|$)`,
			`(?m)ship[:\s]+(.+?)(?:\n|$)`,
			`(?m)m[/]v\s+(.+?)(?:\n|$)`,
		),
	},
	{
		termType: "charterer",
		patterns: compile(
			`(?m)charterer[s]?[:\s]+(.+?)(?:\n|$)`,
			`(?m)chtr[:\s]+(.+?)(?:\n|$)`,
		),
	},
	{
		termType: "owner",
		patterns: compile(
			`(?m)owner[s]?[:\s]+(.+?)(?:\n|$)`,
			`(?m)disponent[:\s]+(.+?)(?:\n|$)`,
		),
	},
	{
		termType: "cargo",
		patterns: compile(
			`(?m)cargo[:\s]+(.+?)(?:\n|$)`,
			`(?m)commodity[:\s]+(.+?)(?:\n|$)`,
			`(?m)(\d+(?:,\d+)*)\s*(?:mt|tons?|tonnes?)\s*(?:of\s+)?(?:.+?)(?:\n|$)`,
		),
	},
	{
		termType: "quantity",
		patterns: compile(
			`quantity[:\s]+(\d+(?:,\d+)*)\s*(?:mt|tons?|tonnes?)`,
			`(\d+(?:,\d+)*)\s*(?:mt|tons?|tonnes?)\s*(?:cargo|commodity)`,
			`about\s+(\d+(?:,\d+)*)\s*(?:mt|tons?|tonnes?)`,
		),
	},
	{
		termType: "load_port",
		patterns: compile(
			`(?m)load(?:ing)?\s*port[:\s]+(.+?)(?:\n|$)`,
			`(?m)load(?:ing)?[:\s]+(.+?)(?:\n|$)`,
			`(?m)from[:\s]+(.+?)(?:\n|$)`,
		),
	},
	{
		termType: "discharge_port",
		patterns: compile(
			`(?m)discharge\s*port[:\s]+(.+?)(?:\n|$)`,
			`(?m)discharge[:\s]+(.+?)(?:\n|$)`,
			`(?m)to[:\s]+(.+?)(?:\n|$)`,
		),
	},
	{
		termType: "freight",
		patterns: compile(
			`freight[:\s]+(\$?[\d,]+\.?\d*)\s*(?:per|/)\s*(?:mt|metric\s*ton|ton|tonne)`,
			`freight[:\s]+((?:usd?|us\$)\s*[\d,]+\.?\d*)\s*(?:per|/)\s*(?:mt|metric\s*ton|ton|tonne)`,
			`freight\s*rate[:\s]+(\$?[\d,]+\.?\d*)`,
			`(\$?[\d,]+\.?\d*)\s*(?:per|/)\s*(?:mt|ton|tonne)\s*freight`,
		),
	},
	{
		termType: "laycan",
		patterns: compile(
			`laycan[:\s]+(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})\s*[-to]+\s*(?:\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`,
			`lay.*days?[:\s]+(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})\s*[-to]+\s*(?:\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`,
			`cancelling[:\s]+(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`,
		),
	},
	{
		termType: "laytime",
		patterns: compile(
			`(?m)laytime[:\s]+(.+?)(?:\n|$)`,
			`(\d+\s*(?:hours?|days?))\s*(?:total|combined|all\s*purposes)`,
		),
	},
	{
		termType: "demurrage",
		patterns: compile(
			`demurrage[:\s]+(\$?[\d,]+\.?\d*)\s*per\s*day`,
			`demurrage[:\s]+((?:usd?|us\$)\s*[\d,]+\.?\d*)\s*per\s*day`,
			`dem[:\s]+(\$?[\d,]+\.?\d*)\s*/\s*day`,
			`(\$?[\d,]+\.?\d*)\s*per\s*day\s*demurrage`,
		),
	},
	{
		termType: "despatch",
		patterns: compile(
			`despatch[:\s]+(\$?[\d,]+\.?\d*)\s*per\s*day`,
			`desp[:\s]+(\$?[\d,]+\.?\d*)\s*/\s*day`,
			`(\$?[\d,]+\.?\d*)\s*per\s*day\s*despatch`,
		),
	},
	{
		termType: "dwt",
		patterns: compile(
			`([\d,]+\.?\d*)\s*dwt`,
			`deadweight[:\s]+([\d,]+\.?\d*)`,
		),
	},
	{
		termType: "built",
		patterns: compile(
			`built[:\s]+((?:19|20)\d{2})`,
			`year\s*built[:\s]+((?:19|20)\d{2})`,
		),
	},
	{
		termType: "flag",
		patterns: compile(
			`(?m)flag[:\s]+(.+?)(?:\n|$)`,
		),
	},
	{
		termType: "notice_time",
		patterns: compile(
			`(\d+)\s*hours?\s*notice`,
			`(?m)notice[:\s]+(.+?)(?:\n|$)`,
		),
	},
}

func compile(exprs ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		compiled = append(compiled, regexp.MustCompile(expr))
	}
	return compiled
}
