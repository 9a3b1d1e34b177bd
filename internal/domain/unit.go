package domain

import "time"

// Unit сдаваемый объект (номер, апартаменты) внутри Property
type Unit struct {
	ID          int64
	PropertyID  int64
	Name        string
	Capacity    int   // максимальное число гостей
	BasePrice   int64 // базовая цена за ночь в минимальных денежных единицах
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Fits вмещает ли юнит указанное количество гостей
func (u *Unit) Fits(adults, children int) bool {
	return adults+children <= u.Capacity
}
