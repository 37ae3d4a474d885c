// Package session provides in-memory session management for headless play.
//
// Manager is thread-safe. Each session holds its own world together with
// creation and last-access times; sessions that are not accessed for a while
// can be removed with CleanupExpiredSessions or a RunCleanup loop.
//
// Session identifiers are the first eight hex digits of a random UUID and are
// looked up case-insensitively. Sessions live only as long as the process:
// there is no save or resume.
//
// Usage:
//
//	manager := session.NewManager()
//	sess, err := manager.Create("", w)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	go manager.RunCleanup(ctx, time.Minute, time.Hour, logger)
package session
