package slots

import "errors"

var (
	// ErrCacheRead возвращается при ошибке чтения из Redis
	ErrCacheRead = errors.New("slots.cache: failed to read")

	// ErrCacheWrite возвращается при ошибке записи в Redis
	ErrCacheWrite = errors.New("slots.cache: failed to write")

	// ErrCacheInvalidate возвращается при ошибке удаления ключей
	ErrCacheInvalidate = errors.New("slots.cache: failed to invalidate")
)
