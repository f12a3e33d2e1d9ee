package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

var (
	// ErrTokenMismatch возвращается при неверном или истекшем коде подтверждения
	ErrTokenMismatch = errors.New("otp: token mismatch or expired")
)

// PickupKey строит ключ пикап-кода для брони
func PickupKey(bookingCode string) string {
	return "pickup:" + bookingCode
}

// DropoffKey строит ключ дропофф-кода для брони
func DropoffKey(bookingCode string) string {
	return "dropoff:" + bookingCode
}

type entry struct {
	token     string
	expiresAt time.Time
}

// Store хранилище одноразовых кодов подтверждения выдачи и возврата машины.
// Ключ - код брони плюс назначение (pickup/dropoff). Записи живут ограниченное
// время и вычищаются фоновым janitor-ом.
//
// Хранилище внедряется зависимостью и имеет явный жизненный цикл (Stop),
// а не живет процесс-глобальной переменной
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

// NewStore создает хранилище с указанным TTL записей и запускает janitor
func NewStore(ttl time.Duration, cleanupInterval time.Duration) *Store {
	s := &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}

	go s.janitor(cleanupInterval)

	return s
}

// Issue генерирует, сохраняет и возвращает 6-значный код для ключа.
// Повторный вызов перезаписывает предыдущий код
func (s *Store) Issue(key string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("otp: failed to generate token: %w", err)
	}

	s.mu.Lock()
	s.entries[key] = entry{token: token, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()

	return token, nil
}

// Verify проверяет код и при успехе удаляет его (одноразовость)
func (s *Store) Verify(key, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || time.Now().After(e.expiresAt) || e.token != token {
		return ErrTokenMismatch
	}

	delete(s.entries, key)
	return nil
}

// Stop останавливает janitor
func (s *Store) Stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *Store) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for key, e := range s.entries {
				if now.After(e.expiresAt) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

func generateToken() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
