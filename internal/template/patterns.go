package template

import "regexp"

// blankRun matches a fillable blank: a run of underscores in raw template
// text, or the four-dot form Normalize rewrites such runs into. Prose
// ellipses are exactly three dots and never match.
const blankRun = `(?:_{3,}|\.{4,})`

// fieldRule is one template field type with its ordered placeholder
// patterns: bracketed tokens and blank runs near a label keyword.
// Declaration order matters: earlier field types win overlap ties.
type fieldRule struct {
	fieldType string
	patterns  []*regexp.Regexp
}

var fieldRules = []fieldRule{
	{
		fieldType: "vessel_name",
		patterns: compile(
			`\[vessel name\]`,
			`\[vessel\]`,
			blankRun+`\s*vessel`,
			`m\.?v\.?\s*`+blankRun,
			`vessel:?\s*`+blankRun,
		),
	},
	{
		fieldType: "charterer",
		patterns: compile(
			`\[charterers?\]`,
			blankRun+`\s*charterer`,
			`charterer:?\s*`+blankRun,
		),
	},
	{
		fieldType: "owner",
		patterns: compile(
			`\[owners?\]`,
			blankRun+`\s*owner`,
			`owner:?\s*`+blankRun,
			`disponent:?\s*`+blankRun,
		),
	},
	{
		fieldType: "cargo",
		patterns: compile(
			`\[cargo\]`,
			`\[commodity\]`,
			blankRun+`\s*cargo`,
			`cargo:?\s*`+blankRun,
			`commodity:?\s*`+blankRun,
		),
	},
	{
		fieldType: "quantity",
		patterns: compile(
			`\[quantity\]`,
			`\[tonnage\]`,
			blankRun+`\s*(?:metric\s*)?tons?`,
			`quantity:?\s*`+blankRun,
			`\d+\s*`+blankRun+`\s*(?:metric\s*)?tons?`,
		),
	},
	{
		fieldType: "load_port",
		patterns: compile(
			`\[load(?:ing)?\s*port\]`,
			`\[port\s*of\s*loading\]`,
			blankRun+`\s*(?:port\s*of\s*)?loading`,
			`loading:?\s*`+blankRun,
		),
	},
	{
		fieldType: "discharge_port",
		patterns: compile(
			`\[discharge\s*port\]`,
			`\[port\s*of\s*discharge\]`,
			blankRun+`\s*(?:port\s*of\s*)?discharge`,
			`discharge:?\s*`+blankRun,
		),
	},
	{
		fieldType: "freight_rate",
		patterns: compile(
			`\[freight\s*rate\]`,
			`\[freight\]`,
			blankRun+`\s*per\s*(?:metric\s*)?ton`,
			`freight:?\s*`+blankRun,
			`usd?\s*`+blankRun+`\s*per\s*(?:mt|ton)`,
		),
	},
	{
		fieldType: "laycan_start",
		patterns: compile(
			`\[laycan\s*start\]`,
			`\[laydays?\s*commence\]`,
			`laydays?:?\s*`+blankRun,
		),
	},
	{
		fieldType: "laycan_end",
		patterns: compile(
			`\[laycan\s*end\]`,
			`\[cancelling\]`,
			`cancelling:?\s*`+blankRun,
			blankRun+`\s*cancelling`,
		),
	},
	{
		fieldType: "demurrage",
		patterns: compile(
			`\[demurrage\]`,
			blankRun+`\s*per\s*day\s*demurrage`,
			`demurrage:?\s*`+blankRun,
			`usd?\s*`+blankRun+`\s*per\s*day(?:\s*demurrage)?`,
		),
	},
	{
		fieldType: "despatch",
		patterns: compile(
			`\[despatch\]`,
			`\[dispatch\]`,
			blankRun+`\s*per\s*day\s*despatch`,
			`despatch:?\s*`+blankRun,
		),
	},
	{
		fieldType: "laytime",
		patterns: compile(
			`\[laytime\]`,
			`\[lay\s*time\]`,
			`laytime:?\s*`+blankRun,
		),
	},
	{
		fieldType: "notice_time",
		patterns: compile(
			`\[notice\]`,
			`\[notice\s*time\]`,
			blankRun+`\s*hours?\s*notice`,
			`notice:?\s*`+blankRun,
		),
	},
}

// markerPattern matches normalized placeholders like {$vessel_name}.
var markerPattern = regexp.MustCompile(`\{\$([a-z_]+)\}`)

// Family is a known charter party template family.
type Family string

const (
	FamilyGencon      Family = "GENCON"
	FamilyNYPE        Family = "NYPE"
	FamilyShelltime   Family = "SHELLTIME"
	FamilyAsbatankvoy Family = "ASBATANKVOY"
	FamilyUnknown     Family = "UNKNOWN"
)

// familyRule pairs a family with its boilerplate identifier phrases.
// Families are scanned in declared order; the first phrase hit wins.
type familyRule struct {
	family  Family
	phrases []string
}

var familyRules = []familyRule{
	{FamilyGencon, []string{"gencon", "general cargo", "uniform general charter", "dry cargo charter"}},
	{FamilyNYPE, []string{"nype", "new york produce exchange", "time charter", "new york produce"}},
	{FamilyShelltime, []string{"shelltime", "shell time charter", "shell international"}},
	{FamilyAsbatankvoy, []string{"asbatankvoy", "asba tanker", "american standard"}},
}

// requiredFields lists the field types each family expects to be filled.
// Unknown families fall back to the GENCON set.
var requiredFields = map[Family][]string{
	FamilyGencon: {
		"vessel_name", "charterer", "owner", "cargo",
		"quantity", "load_port", "discharge_port", "freight_rate",
	},
	FamilyNYPE: {
		"vessel_name", "charterer", "owner", "hire_rate",
		"charter_period", "trading_limits", "delivery_port",
	},
	FamilyShelltime: {
		"vessel_name", "charterer", "owner", "hire_rate",
		"charter_period", "delivery_port", "redelivery_port",
	},
}

func requiredSet(family Family) map[string]bool {
	names, ok := requiredFields[family]
	if !ok {
		names = requiredFields[FamilyGencon]
	}
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

func compile(exprs ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		compiled = append(compiled, regexp.MustCompile(expr))
	}
	return compiled
}
