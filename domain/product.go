package domain

import "time"

// Price — цена в минимальных денежных единицах с кодом валюты.
type Price struct {
	Amount   int64
	Currency string
}

// Product описывает товар каталога.
type Product struct {
	ID               int64
	ArticleNumber    string
	GTIN             string
	Title            string
	ShortDescription string
	Description      string
	Tags             []string
	TitleImage       string
	AdditionalImages []string
	// Price опциональна: товар может быть заведён до согласования цены.
	// Такой товар нельзя превратить в позицию заказа.
	Price     *Price
	Weight    int32
	CreatedAt time.Time
	UpdatedAt *time.Time
}
