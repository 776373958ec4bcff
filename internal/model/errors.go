package model

import "errors"

// Ошибки нарушения ограничений хранилища. Репозитории переводят в них
// ошибки драйвера, чтобы сервисы не зависели от конкретной БД.
var (
	ErrEmailTaken    = errors.New("expositor email already exists")
	ErrAlreadyBooked = errors.New("confirmed booking already exists for email and slot")
)

// ErrNotFound возвращается командами изменения, не затронувшими ни одной строки
var ErrNotFound = errors.New("record not found")
