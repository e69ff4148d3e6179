package postgres

import (
	"fmt"
	"strings"

	"github.com/vladislavdragonenkov/shopster/domain"
)

// listDelimiter разделяет элементы tags и additional_images в TEXT-колонках.
// Кодирование и декодирование сосредоточены здесь, чтобы round-trip был
// однозначным: значения с разделителем внутри отклоняются, а не искажаются.
const listDelimiter = "|"

// encodeList собирает список в одну строку. Элемент с разделителем —
// ErrInvalidOperation.
func encodeList(values []string) (string, error) {
	for _, v := range values {
		if strings.Contains(v, listDelimiter) {
			return "", fmt.Errorf("%w: value %q contains list delimiter", domain.ErrInvalidOperation, v)
		}
	}
	return strings.Join(values, listDelimiter), nil
}

// decodeList разбирает строку из БД. Пустая строка — пустой список,
// а не список из одного пустого элемента.
func decodeList(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, listDelimiter)
}
