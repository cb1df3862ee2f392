// Package redis connects to the Redis instance backing the journal.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Connect pings the server and retries with a growing pause between attempts
// until RetryAttempts is exhausted or ctx is done. Healthcheck returns a
// readiness probe suitable for httpserver.Health.
package redis
