// Package modeltest provides in-memory store implementations used by tests
// in place of the Mongo-backed ones.
package modeltest

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/procureconcierge/portalbackend/models"
)

type UserStore struct {
	mu    sync.Mutex
	users map[bson.ObjectID]*models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: map[bson.ObjectID]*models.User{}}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return models.ErrDuplicateKey
		}
	}
	now := time.Now().UTC()
	user.ID = bson.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *UserStore) FindActive(ctx context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := []*models.User{}
	for _, user := range s.users {
		if user.Active {
			copied := *user
			active = append(active, &copied)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Email < active[j].Email })
	return active, nil
}

func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return models.ErrNotFound
	}
	for _, existing := range s.users {
		if existing.ID != user.ID && existing.Email == user.Email {
			return models.ErrDuplicateKey
		}
	}
	user.UpdatedAt = time.Now().UTC()
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

type SessionStore struct {
	mu       sync.Mutex
	sessions map[bson.ObjectID]*models.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[bson.ObjectID]*models.Session{}}
}

func (s *SessionStore) FindOrCreate(ctx context.Context, sessionID bson.ObjectID) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range s.sessions {
		if session.SessionID == sessionID {
			copied := *session
			return &copied, nil
		}
	}
	return s.createLocked(sessionID), nil
}

func (s *SessionStore) New(ctx context.Context) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(bson.NewObjectID()), nil
}

func (s *SessionStore) createLocked(sessionID bson.ObjectID) *models.Session {
	session := &models.Session{
		ID:        bson.NewObjectID(),
		SessionID: sessionID,
		CreatedAt: time.Now().UTC(),
	}
	s.sessions[session.ID] = session
	copied := *session
	return &copied
}

func (s *SessionStore) SetUser(ctx context.Context, session *models.Session, user *models.SessionUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.sessions[session.ID]
	if !ok {
		return models.ErrNotFound
	}
	stored.User = user
	session.User = user
	return nil
}

type RfiStore struct {
	mu   sync.Mutex
	rfis map[bson.ObjectID]*models.Rfi
}

func NewRfiStore() *RfiStore {
	return &RfiStore{rfis: map[bson.ObjectID]*models.Rfi{}}
}

func (s *RfiStore) Create(ctx context.Context, rfi *models.Rfi) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	rfi.ID = bson.NewObjectID()
	rfi.CreatedAt = now
	rfi.UpdatedAt = now
	copied := *rfi
	s.rfis[rfi.ID] = &copied
	return nil
}

func (s *RfiStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.Rfi, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rfi, ok := s.rfis[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *rfi
	return &copied, nil
}

func (s *RfiStore) FindAll(ctx context.Context) ([]*models.Rfi, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := []*models.Rfi{}
	for _, rfi := range s.rfis {
		copied := *rfi
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all, nil
}

func (s *RfiStore) Update(ctx context.Context, rfi *models.Rfi) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rfis[rfi.ID]; !ok {
		return models.ErrNotFound
	}
	rfi.UpdatedAt = time.Now().UTC()
	copied := *rfi
	s.rfis[rfi.ID] = &copied
	return nil
}

type FileStore struct {
	mu    sync.Mutex
	files map[bson.ObjectID]*models.File
}

func NewFileStore() *FileStore {
	return &FileStore{files: map[bson.ObjectID]*models.File{}}
}

func (s *FileStore) Create(ctx context.Context, file *models.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.files {
		if existing.Hash == file.Hash {
			return models.ErrDuplicateKey
		}
	}
	file.ID = bson.NewObjectID()
	file.CreatedAt = time.Now().UTC()
	copied := *file
	s.files[file.ID] = &copied
	return nil
}

func (s *FileStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, ok := s.files[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *file
	return &copied, nil
}

func (s *FileStore) FindByHash(ctx context.Context, hash string) (*models.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, file := range s.files {
		if file.Hash == hash {
			copied := *file
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

type FeedbackStore struct {
	mu       sync.Mutex
	Feedback []*models.Feedback
}

func NewFeedbackStore() *FeedbackStore {
	return &FeedbackStore{}
}

func (s *FeedbackStore) Create(ctx context.Context, feedback *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	feedback.ID = bson.NewObjectID()
	feedback.CreatedAt = time.Now().UTC()
	copied := *feedback
	s.Feedback = append(s.Feedback, &copied)
	return nil
}

type VendorIdeaStore struct {
	mu    sync.Mutex
	ideas map[bson.ObjectID]*models.VendorIdea
}

func NewVendorIdeaStore() *VendorIdeaStore {
	return &VendorIdeaStore{ideas: map[bson.ObjectID]*models.VendorIdea{}}
}

func (s *VendorIdeaStore) Create(ctx context.Context, idea *models.VendorIdea) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	idea.ID = bson.NewObjectID()
	idea.CreatedAt = now
	idea.UpdatedAt = now
	copied := *idea
	s.ideas[idea.ID] = &copied
	return nil
}

func (s *VendorIdeaStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.VendorIdea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idea, ok := s.ideas[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *idea
	return &copied, nil
}

func (s *VendorIdeaStore) FindAll(ctx context.Context) ([]*models.VendorIdea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := []*models.VendorIdea{}
	for _, idea := range s.ideas {
		copied := *idea
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all, nil
}

func (s *VendorIdeaStore) Update(ctx context.Context, idea *models.VendorIdea) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ideas[idea.ID]; !ok {
		return models.ErrNotFound
	}
	idea.UpdatedAt = time.Now().UTC()
	copied := *idea
	s.ideas[idea.ID] = &copied
	return nil
}

type ForgotPasswordTokenStore struct {
	mu     sync.Mutex
	tokens map[bson.ObjectID]*models.ForgotPasswordToken
}

func NewForgotPasswordTokenStore() *ForgotPasswordTokenStore {
	return &ForgotPasswordTokenStore{tokens: map[bson.ObjectID]*models.ForgotPasswordToken{}}
}

func (s *ForgotPasswordTokenStore) Create(ctx context.Context, token *models.ForgotPasswordToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	token.ID = bson.NewObjectID()
	token.CreatedAt = time.Now().UTC()
	copied := *token
	s.tokens[token.ID] = &copied
	return nil
}

func (s *ForgotPasswordTokenStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.ForgotPasswordToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *token
	return &copied, nil
}

func (s *ForgotPasswordTokenStore) Delete(ctx context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.tokens, id)
	return nil
}
