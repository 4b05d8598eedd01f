// Package client provides a client library for the roster HTTP API.
//
// # Basic Usage
//
//	c, err := client.New("http://localhost:8080")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	u, err := c.Create(ctx, roster.CreateUser{
//		Name:     "ada",
//		Fullname: "Ada Lovelace",
//		Nickname: "countess",
//	})
//
// Server errors are returned as *APIError and match the sentinels with
// errors.Is:
//
//	if _, err := c.Get(ctx, 42); errors.Is(err, client.ErrNotFound) {
//		// ...
//	}
//
// # Output Formatting
//
// Use formatters for human-readable or JSON output:
//
//	formatter := client.NewFormatter(jsonOutput, quiet)
//	formatter.FormatUser(os.Stdout, u)
package client
