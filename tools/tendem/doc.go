// Package tendem provides the MCP tools of the Tendem task lifecycle:
// create a task, poll it until a price is quoted, approve or cancel it,
// and read its results and artifacts.
//
// Usage:
//
//	load := func() (*config.Config, error) { return config.Load("") }
//	ts, err := tendem.New(tendem.NewClientProvider(tendem.FromConfig(load)))
//	if err != nil {
//		return err
//	}
//	server := mcp.NewServer(stdio.NewStdioServerTransport())
//	if err = ts.Register(server); err != nil {
//		return err
//	}
//	return server.Serve()
package tendem
