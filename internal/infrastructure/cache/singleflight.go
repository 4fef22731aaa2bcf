package cache

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// loadOnce ejecuta fn una sola vez por key entre llamadas concurrentes.
// fn recibe un contexto sin cancelación: si el primer llamador abandona, la carga
// sigue y los que esperan la misma key reciben el resultado. Cada llamador deja de
// esperar cuando su propio ctx se cancela.
func loadOnce(ctx context.Context, group *singleflight.Group, key string, fn func(context.Context) ([]byte, error)) ([]byte, error) {
	shared := context.WithoutCancel(ctx)
	ch := group.DoChan(key, func() (interface{}, error) {
		return fn(shared)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}
