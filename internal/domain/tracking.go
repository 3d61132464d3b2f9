package domain

import "time"

// TrackingEntry описывает одну запись трекинга в жизненном цикле заказа.
// Записи append-only: никогда не изменяются и не удаляются, в том числе
// при жёстком удалении отменённого заказа — история остаётся для аудита.
type TrackingEntry struct {
	ID      string
	OrderID string
	// Status — статус заказа на момент записи; статус заказа всегда
	// совпадает со статусом последней записи трекинга.
	Status OrderStatus
	// Notes — человекочитаемое описание перехода (причина спора, перевозчик и т.п.).
	Notes string
	// Actor — кто выполнил операцию: ID дилера или сотрудника.
	Actor    string
	Occurred time.Time
}
