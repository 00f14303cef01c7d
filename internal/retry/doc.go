// Package retry re-runs connection attempts that fail for transient reasons.
//
// An Executor pairs an ErrorClassifier, which decides whether a failure is
// worth another attempt, with a BackoffStrategy, which decides how long to
// wait. Loading itself is never retried: a failed file rolls back and ends
// the run.
//
//	executor := retry.NewConnectExecutor(logger)
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return openPool(ctx)
//	})
package retry
