// Package gmail wraps the Gmail API into the small operation set the MCP
// tools expose: list, get, search, send (with optional attachment), mark as
// read, delete and account statistics.
//
// A Client is bound to exactly one access token and is created per tool
// invocation; nothing is cached across invocations. Raw API responses are
// normalized into the stable summary/detail structures in message.go so the
// tool layer never sees provider-specific types.
//
// Example usage:
//
//	client, err := gmail.NewClient(ctx, token)
//	if err != nil {
//	    return err
//	}
//	summaries, err := client.ListMessages(ctx, "is:unread", 10)
package gmail
