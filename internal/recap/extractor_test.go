package recap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairlead/cpgen/internal/charter"
)

const sampleRecap = "Vessel: OCEAN STAR\nFreight: USD 25.50 per MT\nCargo: 50000 MT Iron Ore"

func TestExtractSampleRecap(t *testing.T) {
	extractor := NewExtractor()
	terms := extractor.Extract(sampleRecap)

	vessel, ok := terms["vessel"]
	require.True(t, ok, "vessel term should be extracted")
	assert.Equal(t, "OCEAN STAR", vessel.Value, "casing from the original text must survive")
	assert.Equal(t, charter.SourceRegex, vessel.Source)
	assert.InDelta(t, 0.8, vessel.Confidence, 1e-9)

	freight, ok := terms["freight"]
	require.True(t, ok, "freight term should be extracted")
	assert.Contains(t, freight.Value, "25.50")

	cargo, ok := terms["cargo"]
	require.True(t, ok, "cargo term should be extracted")
	assert.Contains(t, cargo.Value, "50000")
}

func TestExtractPortsAndCommercialTerms(t *testing.T) {
	text := "Load Port: Newcastle\n" +
		"Discharge Port: Qingdao, China\n" +
		"Demurrage: USD 15,000 per day\n" +
		"Laycan: 15/03/2024 - 25/03/2024\n" +
		"Owner: Pacific Carriers Ltd, Singapore\n"

	terms := NewExtractor().Extract(text)

	assert.Equal(t, "Newcastle", terms["load_port"].Value)
	// Port values truncate at the first comma separator.
	assert.Equal(t, "Qingdao", terms["discharge_port"].Value)
	assert.Contains(t, terms["demurrage"].Value, "15,000")
	assert.Equal(t, "15/03/2024", terms["laycan"].Value)
	assert.Equal(t, "Pacific Carriers Ltd", terms["owner"].Value)
}

func TestExtractEmptyText(t *testing.T) {
	terms := NewExtractor().Extract("")
	assert.Empty(t, terms)
}

func TestDeduplicateRemovesOverlaps(t *testing.T) {
	terms := []charter.ExtractedTerm{
		{Value: "a", Confidence: 0.8, Span: charter.Span{Start: 0, End: 10}},
		{Value: "b", Confidence: 0.8, Span: charter.Span{Start: 5, End: 15}},
		{Value: "c", Confidence: 0.8, Span: charter.Span{Start: 20, End: 30}},
	}

	kept := Deduplicate(terms)
	require.Len(t, kept, 2)
	assert.Equal(t, "a", kept[0].Value, "earliest candidate wins on equal confidence")
	assert.Equal(t, "c", kept[1].Value)
}

func TestDeduplicatePrefersHigherConfidence(t *testing.T) {
	terms := []charter.ExtractedTerm{
		{Value: "low", Confidence: 0.5, Span: charter.Span{Start: 0, End: 10}},
		{Value: "high", Confidence: 0.9, Span: charter.Span{Start: 5, End: 15}},
	}

	kept := Deduplicate(terms)
	require.Len(t, kept, 1)
	assert.Equal(t, "high", kept[0].Value)
}

func TestDeduplicateIsIdempotent(t *testing.T) {
	terms := []charter.ExtractedTerm{
		{Value: "a", Confidence: 0.9, Span: charter.Span{Start: 0, End: 8}},
		{Value: "b", Confidence: 0.8, Span: charter.Span{Start: 4, End: 12}},
		{Value: "c", Confidence: 0.8, Span: charter.Span{Start: 12, End: 20}},
		{Value: "d", Confidence: 0.7, Span: charter.Span{Start: 18, End: 25}},
	}

	once := Deduplicate(terms)
	twice := Deduplicate(once)
	assert.Equal(t, once, twice, "rerunning dedup on its own output must be a no-op")

	for i := range once {
		for j := i + 1; j < len(once); j++ {
			assert.False(t, once[i].Span.Overlaps(once[j].Span),
				"no overlapping spans may survive deduplication")
		}
	}
}

func TestDeduplicateAdjacentSpansAreNotOverlapping(t *testing.T) {
	terms := []charter.ExtractedTerm{
		{Value: "a", Confidence: 0.8, Span: charter.Span{Start: 0, End: 10}},
		{Value: "b", Confidence: 0.8, Span: charter.Span{Start: 10, End: 20}},
	}
	assert.Len(t, Deduplicate(terms), 2, "touching spans share no byte")
}

func TestAugmentWithEntitiesFillsOnlyMissingTypes(t *testing.T) {
	terms := map[string]charter.ExtractedTerm{
		"cargo": {TermType: "cargo", Value: "wheat", Confidence: 0.8, Source: charter.SourceRegex},
	}
	entities := []Entity{
		{Text: "iron ore", Label: "PRODUCT", Confidence: 0.8},
		{Text: "Glencore Trading", Label: "ORG", Confidence: 0.8},
	}

	AugmentWithEntities(terms, entities)

	assert.Equal(t, "wheat", terms["cargo"].Value, "regex extraction must not be overridden")
	require.Contains(t, terms, "charterer")
	assert.Equal(t, charter.SourceNER, terms["charterer"].Source)
}

func TestRecognizeEntities(t *testing.T) {
	text := "Chartered by Oldendorff Carriers GmbH at USD 12.75 laycan 01/04/2024 loading iron ore"
	entities := RecognizeEntities(text)

	labels := make(map[string]bool)
	for _, e := range entities {
		labels[e.Label] = true
	}
	assert.True(t, labels["ORG"], "organization should be recognized")
	assert.True(t, labels["MONEY"], "money amount should be recognized")
	assert.True(t, labels["DATE"], "date should be recognized")
	assert.True(t, labels["PRODUCT"], "commodity should be recognized")
}
