// Package update keeps the local copy of the policy document fresh.
//
// A fetched document replaces the cached one only when its timestamp is
// strictly newer (see ShouldReplace). A missing or unreadable cache is always
// replaced. The fetched bytes are written verbatim, so the cache holds exactly
// what the publisher signed off.
//
// # Sources
//
// HTTPFetcher downloads the document from a URL. GitFetcher performs a
// shallow in-memory clone of a repository and reads one path from it.
//
// # Scheduling
//
// Scheduler runs an Updater on a cron expression:
//
//	scheduler := update.NewScheduler(updater, "0 */6 * * *")
//	if err := scheduler.Start(ctx); err != nil {
//	    return err
//	}
//	defer scheduler.Stop()
//
// # History
//
// History records one row per update attempt in SQLite. Both the cgo driver
// ("sqlite3", mattn/go-sqlite3) and the pure Go driver ("sqlite",
// modernc.org/sqlite) are supported.
package update
