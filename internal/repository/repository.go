// Package repository — доступ к Postgres через pgxpool. Каждая сущность —
// отдельный репозиторий; ошибки оборачиваются с именем метода, отсутствие
// строки превращается в ErrNotFound.
package repository

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

var ErrNotFound = errors.New("not found")

// GenerateID формирует бизнес-идентификатор вида P-123456789:
// последние 6 цифр unix-времени в миллисекундах плюс 3 случайные цифры.
// Уникальность дополнительно гарантирует UNIQUE-констрейнт в БД.
func GenerateID(prefix string) string {
	ms := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		// crypto/rand недоступен только при деградации ОС; не роняем запись
		n = big.NewInt(time.Now().UnixNano() % 1000)
	}
	return fmt.Sprintf("%s-%s%03d", prefix, ms, n.Int64())
}
