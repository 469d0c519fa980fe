package sap

import (
	"testing"

	"github.com/sapgo/sap/schema"
)

func TestParseDirectObject(t *testing.T) {
	node := schema.ObjectNode([]schema.Field{
		{Name: "name", Schema: schema.StringNode()},
		{Name: "count", Schema: schema.IntegerNode()},
	}, []string{"name", "count"})

	res := Parse(`{"name":"widget","count":5}`, node)
	if !res.Success {
		t.Fatalf("expected success, got errors: %v", res.Errors)
	}
	name, _ := res.Value.Object().Get("name")
	if name.AsString() != "widget" {
		t.Fatalf("expected name=widget, got %v", res.Value)
	}
}

func TestParseFencedBlockSetsFromMarkdown(t *testing.T) {
	node := schema.ObjectNode([]schema.Field{
		{Name: "ok", Schema: schema.BooleanNode()},
	}, []string{"ok"})
	res := Parse("```json\n{\"ok\": true}\n```", node)
	if !res.Success {
		t.Fatalf("expected success, got %v", res.Errors)
	}
	if !res.Meta.FromMarkdown {
		t.Error("expected Meta.FromMarkdown=true")
	}
}

func TestParseChainOfThoughtFiltered(t *testing.T) {
	node := schema.ObjectNode([]schema.Field{
		{Name: "x", Schema: schema.IntegerNode()},
	}, []string{"x"})
	res := Parse("Let me think step by step. Final Answer: {\"x\": 1}", node)
	if !res.Success {
		t.Fatalf("expected success, got %v", res.Errors)
	}
	if !res.Meta.ChainOfThoughtFiltered {
		t.Error("expected Meta.ChainOfThoughtFiltered=true")
	}
}

func TestParseMissingRequiredFieldFails(t *testing.T) {
	node := schema.ObjectNode([]schema.Field{
		{Name: "name", Schema: schema.StringNode()},
	}, []string{"name"})
	res := Parse(`{}`, node)
	if res.Success {
		t.Fatal("expected failure")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected one error, got %v", res.Errors)
	}
}

func TestParsePartialForcesPartialsAndFallback(t *testing.T) {
	node := schema.ObjectNode([]schema.Field{
		{Name: "name", Schema: schema.StringNode()},
	}, []string{"name"})
	res := ParsePartial(`{"name":`, node)
	if !res.Success {
		t.Fatalf("expected success under allow_partials, got %v", res.Errors)
	}
	if !res.IsPartial {
		t.Error("expected IsPartial=true")
	}
}

func TestParseExtractionFailureReportsSingleDiagnostic(t *testing.T) {
	node := schema.StringNode()
	res := Parse("not json", node, WithAllowAsString(false), WithAllowFixes(false), WithAllowMarkdownJSON(false), WithFindAllJSONObjects(false))
	if res.Success {
		t.Fatal("expected failure")
	}
	if len(res.Errors) != 1 || res.Errors[0].Path != "" {
		t.Fatalf("expected one empty-path error, got %v", res.Errors)
	}
}

func TestParseAllCandidatesSplitsMultiObjectScan(t *testing.T) {
	node := schema.ObjectNode(nil, nil)
	results := ParseAllCandidates(`here is one {"a":1} and here is two {"b":2}`, node)
	if len(results) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(results))
	}
}

func TestParseReturnAllCandidatesPopulatesMeta(t *testing.T) {
	node := schema.ObjectNode(nil, nil)
	res := Parse(`here is one {"a":1} and here is two {"b":2}`, node, WithReturnAllCandidates(true))
	if len(res.Meta.AllCandidates) != 2 {
		t.Fatalf("expected 2 entries in Meta.AllCandidates, got %d", len(res.Meta.AllCandidates))
	}
}

func TestParseBestCandidatePicksFewestErrors(t *testing.T) {
	node := schema.ObjectNode([]schema.Field{
		{Name: "a", Schema: schema.IntegerNode()},
	}, []string{"a"})
	best := ParseBestCandidate(`here is one {"a":1} and here is two {"b":2}`, node)
	if !best.Success {
		t.Fatalf("expected the candidate satisfying the schema to win, got %v", best.Errors)
	}
}

type reviewPayload struct {
	Product string `json:"product"`
	Rating  int    `json:"rating" jsonschema:"minimum=1,maximum=5"`
}

func TestParseAsUnmarshalsIntoStruct(t *testing.T) {
	out, res, err := ParseAs[reviewPayload](`{"product":"widget","rating":4}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %v", res.Errors)
	}
	if out.Product != "widget" || out.Rating != 4 {
		t.Fatalf("unexpected struct: %+v", out)
	}
}
