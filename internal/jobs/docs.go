// Package jobs provides scheduled background tasks for the dispatch engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the periodic operations the order lifecycle depends on.
//
// # Available Jobs
//
// 1. DispatchJob - runs every second to offer due ReadyForPickup orders to
// the best available drivers
// 2. OfferExpiryJob - runs every second to pass expired offers on to the next
// candidate, or requeue the order when the candidate list is exhausted
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(dispatchHandler, expireHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Both jobs use the cron expression "* * * * * *" which means they run every
// second. Offer deadlines are measured in tens of seconds, so a one-second
// sweep keeps expiry latency negligible against the response window.
//
// # Error Handling
//
// A sweep that finds no work is not an error; handlers return nil for an
// empty sweep. Any returned error indicates a system issue and is logged.
package jobs
