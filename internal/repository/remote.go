package repository

import "context"

// RemoteStore is the transport the inventory repositories sit on. It is
// satisfied by *infra.InventoryAPIClient.
type RemoteStore interface {
	Do(ctx context.Context, method, path string, in, out any) error
}
