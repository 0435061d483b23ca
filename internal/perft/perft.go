// Package perft counts move-generation leaf nodes, the standard way to
// check a generator against published totals.
package perft

import (
	"context"
	"runtime"

	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
)

// Result is the node count below one root move.
type Result struct {
	Move  board.Move
	Nodes uint64
}

// Count returns the number of leaf nodes depth plies below p. The
// position is restored before Count returns.
func Count(p *board.Position, depth int) uint64 {
	return CountWithTable(p, depth, nil)
}

// CountWithTable is Count with subtree counts cached in t. A nil table
// disables caching.
func CountWithTable(p *board.Position, depth int, t *Table) uint64 {
	if depth <= 0 {
		return 1
	}

	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var hash uint64
	if t != nil {
		hash = p.Hash()
		if nodes, ok := t.Lookup(hash, depth); ok {
			return nodes
		}
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		p.Make(moves.Get(i))
		nodes += CountWithTable(p, depth-1, t)
		p.Unmake()
	}

	if t != nil {
		t.Store(hash, depth, nodes)
	}
	return nodes
}

// Divide splits the count by root move. Root moves are spread over workers
// goroutines, each on its own clone of p; the attack tables are shared.
// Results are sorted by move text. workers <= 0 means GOMAXPROCS.
func Divide(ctx context.Context, p *board.Position, depth int, workers int) ([]Result, uint64, error) {
	return DivideWithTable(ctx, p, depth, workers, nil)
}

// DivideWithTable is Divide with the workers sharing the cache t, which may
// be nil.
func DivideWithTable(ctx context.Context, p *board.Position, depth int, workers int, t *Table) ([]Result, uint64, error) {
	if t != nil {
		t.NewRun()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	roots := p.GenerateLegalMoves().Slice()
	results := make([]Result, len(roots))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, m := range roots {
		i, m := i, m
		local := p.Clone()
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			local.Make(m)
			results[i] = Result{Move: m, Nodes: CountWithTable(local, depth-1, t)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	slices.SortFunc(results, func(a, b Result) bool {
		return a.Move.String() < b.Move.String()
	})

	var total uint64
	for _, r := range results {
		total += r.Nodes
	}
	return results, total, nil
}
