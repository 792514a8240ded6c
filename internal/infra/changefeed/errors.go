package changefeed

import "errors"

var (
	// ErrEmptyCollection возвращается при публикации события без коллекции
	ErrEmptyCollection = errors.New("changefeed: empty collection")

	// ErrRelay возвращается при ошибке пересылки события в другие инстансы
	ErrRelay = errors.New("changefeed: relay failed")

	// ErrDecodeEvent возвращается при невалидном сообщении из relay
	ErrDecodeEvent = errors.New("changefeed: failed to decode event")
)
