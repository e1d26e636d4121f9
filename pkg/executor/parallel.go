package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ParallelCommand is one entry of an ExecuteParallel batch. An empty ID becomes "cmd-<index>";
// a repeated ID gets a "#<n>" suffix ("lint", "lint#2") so each command keeps its own result.
type ParallelCommand struct {
	ID      string
	Command string
	Options Options
}

// ParallelOptions configures ExecuteParallel. Concurrency <= 0 runs the whole batch as one group.
type ParallelOptions struct {
	Concurrency int
	StopOnError bool
}

// ParallelResult aggregates a batch. Commands never dispatched because of StopOnError or
// cancellation appear in neither Results nor Errors.
type ParallelResult struct {
	Results    map[string]CommandResult `json:"results"`
	Errors     map[string]error         `json:"-"`
	Success    bool                     `json:"success"`
	Duration   time.Duration            `json:"duration"`
	Successful int                      `json:"successful"`
	Failed     int                      `json:"failed"`
	Total      int                      `json:"total"`
}

// ExecuteParallel slices commands into fixed groups of Concurrency and awaits each group
// fully before starting the next one. A slow command therefore delays the next group even
// when other slots of its own group are idle; this is a known limitation of group slicing.
// StopOnError only prevents new groups from starting: commands already dispatched in the
// current group always run to completion.
func (e *Executor) ExecuteParallel(ctx context.Context, commands []ParallelCommand, opts ParallelOptions) ParallelResult {
	start := time.Now()
	res := ParallelResult{
		Results: make(map[string]CommandResult, len(commands)),
		Errors:  map[string]error{},
		Total:   len(commands),
	}

	size := opts.Concurrency
	if size <= 0 || size > len(commands) {
		size = len(commands)
	}

	ids := commandIDs(commands)

	var mu sync.Mutex
	for groupStart := 0; groupStart < len(commands); groupStart += size {
		if ctx.Err() != nil {
			e.log.WithField("dispatched", len(res.Results)).Debug("batch cancelled before next group")
			break
		}

		groupEnd := groupStart + size
		if groupEnd > len(commands) {
			groupEnd = len(commands)
		}

		var g errgroup.Group
		groupFailed := false
		for i := groupStart; i < groupEnd; i++ {
			cmd := commands[i]
			id := ids[i]

			g.Go(func() error {
				result, err := e.Execute(ctx, cmd.Command, cmd.Options)

				mu.Lock()
				defer mu.Unlock()
				res.Results[id] = result
				if err != nil {
					res.Errors[id] = err
					res.Failed++
					groupFailed = true
				} else {
					res.Successful++
				}
				return nil
			})
		}
		_ = g.Wait()

		if groupFailed && opts.StopOnError {
			e.log.WithFields(logrus.Fields{
				"completed": groupEnd,
				"total":     len(commands),
			}).Debug("stopping batch after failed group")
			break
		}
	}

	res.Duration = time.Since(start)
	res.Success = res.Failed == 0 && len(res.Results) == res.Total
	return res
}

func commandIDs(commands []ParallelCommand) []string {
	ids := make([]string, len(commands))
	taken := make(map[string]bool, len(commands))
	for i, c := range commands {
		id := c.ID
		if id == "" {
			id = fmt.Sprintf("cmd-%d", i)
		}
		base := id
		for n := 2; taken[id]; n++ {
			id = fmt.Sprintf("%s#%d", base, n)
		}
		taken[id] = true
		ids[i] = id
	}
	return ids
}
