package domain

// Setting — типизированная настройка магазина (пара ключ-значение с дататипом).
type Setting struct {
	ID       int32
	Title    string
	Datatype string
	Value    string
}
