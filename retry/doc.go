// Package retry implements an opt-in retry policy over the network error
// taxonomy: which failures are retried, how long to back off, and a
// decorator that adds retries to any network.Service.
//
//	h := retry.New(retry.DefaultConfiguration())
//	user, err := retry.Do(ctx, h, func(ctx context.Context) (User, error) {
//		return network.Decode[User](ctx, client, network.Get("/users/1"), nil)
//	})
package retry
