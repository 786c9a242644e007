package domain

import "time"

// FlatQueryLimit - максимальное количество объявлений в одной выдаче.
const FlatQueryLimit = 20

// Flat - основная доменная сущность: одно объявление о сдаче квартиры.
type Flat struct {
	ID              string
	Price           float64
	Address         string
	Description     string
	CoverImage      string
	City            string
	PublicationTime time.Time
}

// FlatQuery описывает один из двух вариантов запроса к коллекции flats:
// без фильтра (топ-20 по времени публикации) или с точным совпадением города.
type FlatQuery struct {
	City  string
	Limit int
	// Filtered = false означает запрос "все квартиры",
	// упорядоченный по publication_time.
	Filtered bool
}

// NewFlatQuery реализует правило выбора запроса.
// cityParam - значение query-параметра "city", present - присутствовал ли
// параметр в URL вообще. Пустое значение при явно переданном параметре
// (например "?city=") дает отфильтрованный запрос по пустому городу -
// так вел себя исходный экран.
func NewFlatQuery(cityParam string, present bool) FlatQuery {
	if cityParam == "" && !present {
		return FlatQuery{Limit: FlatQueryLimit}
	}
	return FlatQuery{City: cityParam, Limit: FlatQueryLimit, Filtered: true}
}

// Key возвращает стабильный ключ запроса для кэша и подписок.
func (q FlatQuery) Key() string {
	if !q.Filtered {
		return "all"
	}
	return "city:" + q.City
}
