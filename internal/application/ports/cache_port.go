package ports

import "context"

// Cache define el puerto de caché con TTL para resultados derivados (reportes de inteligencia).
// Los valores se guardan serializados en JSON; el adaptador (Redis o memoria) decide el TTL.
type Cache interface {
	// FetchJSON decodifica en dest el valor guardado en key. Si no existe o expiró, ejecuta loader,
	// guarda su resultado y lo decodifica en dest. Llamadas concurrentes a la misma key comparten un único loader.
	FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error
	// Bump invalida todas las entradas (las claves quedan versionadas).
	Bump(ctx context.Context) error
}
