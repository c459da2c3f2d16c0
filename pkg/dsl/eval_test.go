package dsl

import (
	"testing"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/utils"
)

func TestExpr_Eval(t *testing.T) {
	item := core.NewItem(550)
	item.Score = 0.8
	item.PutLabel(utils.LabelRecallSource, utils.RecallLabel("content"))
	movie := &core.Movie{ID: 550, Title: "Fight Club", Genres: []string{"Drama", "Thriller"}, VoteAverage: 8.4, VoteCount: 20000}
	rctx := &core.RecommendContext{UserID: 1, Count: 20, Settings: core.DefaultUserSettings(1)}

	tests := []struct {
		expr  string
		movie *core.Movie
		want  bool
	}{
		{expr: `item.id == 550`, movie: movie, want: true},
		{expr: `item.score > 0.9`, movie: movie, want: false},
		{expr: `label.recall_source == "content"`, movie: movie, want: true},
		{expr: `"Thriller" in movie.genres`, movie: movie, want: true},
		{expr: `movie.vote_count < 50`, movie: movie, want: false},
		{expr: `rctx.strategy == "hybrid" && rctx.count == 20`, movie: movie, want: true},
		{expr: `has(movie.title)`, movie: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			e, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			got, err := e.Eval(item, tt.movie, rctx)
			if err != nil {
				t.Fatalf("Eval: %v", err)
			}
			if got != tt.want {
				t.Errorf("%s = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	for _, expr := range []string{`item.id +`, `1 + 2`, `"text"`} {
		if _, err := Compile(expr); err == nil {
			t.Errorf("Compile(%q) should fail", expr)
		}
	}
}

func TestEvaluate(t *testing.T) {
	ok, err := Evaluate("", nil, nil, nil)
	if err != nil || !ok {
		t.Errorf("empty expression = %v, %v", ok, err)
	}
	if _, err := Evaluate(`movie.title == "x"`, core.NewItem(1), nil, nil); err == nil {
		t.Error("missing key should be an eval error")
	}
}
