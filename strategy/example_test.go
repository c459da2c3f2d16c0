package strategy_test

import (
	"context"
	"fmt"
	"time"

	"github.com/rushteam/movierec/catalog"
	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/recall"
	"github.com/rushteam/movierec/strategy"
)

func ExampleResolver_Resolve() {
	cat, _ := catalog.New([]core.Movie{
		{ID: 603, Title: "The Matrix"},
		{ID: 604, Title: "The Matrix Reloaded"},
		{ID: 155, Title: "The Dark Knight"},
	})
	index := recall.NewSimilarityIndex(map[int64][]core.ScoredID{
		603: {{ID: 604, Score: 0.92}},
	})

	r, err := strategy.NewResolver(strategy.Deps{
		Catalog:    cat,
		Similarity: index,
		Popularity: recall.StaticRanking{155, 603, 604},
	})
	if err != nil {
		panic(err)
	}

	settings := core.DefaultUserSettings(1)
	settings.Strategy = core.StrategyContent
	for _, signals := range [][]core.PreferenceSignal{
		{{UserID: 1, ItemID: 603, Value: core.SignalLike, Timestamp: time.Now()}},
		{},
	} {
		resp, err := r.Resolve(context.Background(), strategy.Request{
			UserID:   1,
			Count:    2,
			Settings: &settings,
			Signals:  signals,
		})
		if err != nil {
			panic(err)
		}
		fmt.Println(resp.UsedStrategy, resp.IDs())
	}
	// Output:
	// content [604]
	// popularity [155 603]
}
