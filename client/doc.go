// Package client provides the Tendem REST API client.
//
// All operations return an error marked with one of the Err* kinds,
// use errors.Is to classify failures:
//
//	task, err := c.GetTask(ctx, id)
//	if errors.Is(err, client.ErrNotFound) {
//		...
//	}
package client
