package shortener_test

import (
	"context"
	"errors"
	"sync"

	"github.com/serroba/tinyurl/internal/shortener"
)

var errBackend = errors.New("backend timeout")

// stubStore is a configurable shortener.Store test double.
type stubStore struct {
	mu         sync.Mutex
	created    bool
	createErr  error
	getResult  *shortener.Mapping
	getErr     error
	createCall int
	getCall    int
	attempted  []shortener.Code
}

func (s *stubStore) TryCreate(_ context.Context, m *shortener.Mapping) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.createCall++
	s.attempted = append(s.attempted, m.Code)

	return s.created, s.createErr
}

func (s *stubStore) Get(_ context.Context, _ shortener.Code) (*shortener.Mapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.getCall++

	if s.getErr != nil {
		return nil, s.getErr
	}

	return s.getResult, nil
}

// sequence returns a generator yielding codes in order, then repeating the last.
func sequence(codes ...string) shortener.CodeGenerator {
	var (
		mu sync.Mutex
		i  int
	)

	return func() string {
		mu.Lock()
		defer mu.Unlock()

		code := codes[min(i, len(codes)-1)]
		i++

		return code
	}
}
