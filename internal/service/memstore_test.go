package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/alumni-portal-server/internal/model"
)

// memStore is an in-memory model.AccountStore with a unique normalized email.
type memStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]model.Account
}

func newMemStore(accounts ...model.Account) *memStore {
	s := &memStore{accounts: make(map[uuid.UUID]model.Account)}
	for _, a := range accounts {
		s.accounts[a.ID] = a
	}
	return s
}

func (s *memStore) GetByEmail(_ context.Context, email string) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = model.NormalizeEmail(email)
	for _, a := range s.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return model.Account{}, model.ErrNotFound
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return model.Account{}, model.ErrNotFound
	}
	return a, nil
}

func (s *memStore) Create(_ context.Context, account model.Account) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account.Email = model.NormalizeEmail(account.Email)
	for _, a := range s.accounts {
		if a.Email == account.Email {
			return model.Account{}, model.ErrDuplicate
		}
	}
	s.accounts[account.ID] = account
	return account, nil
}

func (s *memStore) update(id uuid.UUID, fn func(*model.Account)) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return model.Account{}, model.ErrNotFound
	}
	fn(&a)
	a.UpdatedAt = time.Now()
	s.accounts[id] = a
	return a, nil
}

func (s *memStore) UpdateProfile(_ context.Context, id uuid.UUID, u model.ProfileUpdate) (model.Account, error) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	return s.update(id, func(a *model.Account) {
		set(&a.Name, u.Name)
		set(&a.Phone, u.Phone)
		if u.DOB != nil {
			a.DOB = u.ParsedDOB
		}
		set(&a.Institution, u.Institution)
		set(&a.Course, u.Course)
		set(&a.Year, u.Year)
		set(&a.FavouriteTeacher, u.FavouriteTeacher)
		set(&a.SocialMedia, u.SocialMedia)
		set(&a.Bio, u.Bio)
	})
}

func (s *memStore) UpdatePrivacySettings(_ context.Context, id uuid.UUID, p model.PrivacySettings) (model.Account, error) {
	return s.update(id, func(a *model.Account) { a.PrivacySettings = p })
}

func (s *memStore) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	_, err := s.update(id, func(a *model.Account) { a.PasswordHash = hash })
	return err
}

func (s *memStore) UpdateStatus(_ context.Context, id uuid.UUID, from, to model.AccountStatus) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.Status != from {
		return model.Account{}, model.ErrStatusChanged
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	s.accounts[id] = a
	return a, nil
}

func (s *memStore) UpdateImage(_ context.Context, id uuid.UUID, kind model.ImageKind, url string) (model.Account, error) {
	return s.update(id, func(a *model.Account) {
		if kind == model.ImageCover {
			a.CoverImage = url
			return
		}
		a.ProfileImage = url
	})
}

func (s *memStore) ListApproved(_ context.Context, f model.DirectoryFilter) ([]model.DirectoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contains := func(s, sub string) bool { return strings.Contains(strings.ToLower(s), strings.ToLower(sub)) }
	var out []model.DirectoryEntry
	for _, a := range s.accounts {
		if a.Status != model.StatusApproved {
			continue
		}
		if f.Year != "" && a.Year != f.Year {
			continue
		}
		if f.Institution != "" && !contains(a.Institution, f.Institution) {
			continue
		}
		if f.Course != "" && !contains(a.Course, f.Course) {
			continue
		}
		if f.Query != "" && !contains(a.Name, f.Query) && !contains(a.Email, f.Query) {
			continue
		}
		out = append(out, model.DirectoryEntry{ID: a.ID, Name: a.Name, Email: a.Email, Year: a.Year, CreatedAt: a.CreatedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) ListByStatus(_ context.Context, status model.AccountStatus) ([]model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Account
	for _, a := range s.accounts {
		if a.Status == status {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
