package service

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"wandermate/server/internal/apperrors"
	"wandermate/server/internal/models"
)

// fakeStore is an in-memory storage.Store with the same observable
// semantics as the postgres implementation: unique (group, profile)
// memberships, atomic capacity-checked accepts, cascading group deletes.
type fakeStore struct {
	mu       sync.Mutex
	nextID   int
	groups   map[string]*models.TravelGroup
	tags     map[string][]string
	members  map[string]map[string]*models.GroupMember // groupID -> profileID
	messages map[string]*models.GroupMessage
	profiles map[string]*models.Profile
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		groups:   make(map[string]*models.TravelGroup),
		tags:     make(map[string][]string),
		members:  make(map[string]map[string]*models.GroupMember),
		messages: make(map[string]*models.GroupMessage),
		profiles: make(map[string]*models.Profile),
	}
}

func (f *fakeStore) id() string {
	f.nextID++
	return "id-" + strconv.Itoa(f.nextID)
}

func (f *fakeStore) Close() {}

// --- profiles ---

func (f *fakeStore) CreateProfile(_ context.Context, p *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == "" {
		p.ID = f.id()
	}
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *fakeStore) GetProfile(_ context.Context, id string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) GetProfileByEmail(_ context.Context, email string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeStore) UpdateProfile(_ context.Context, p *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.profiles[p.ID]; !ok {
		return apperrors.ErrNotFound
	}
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *fakeStore) SearchProfiles(_ context.Context, query string, limit int) ([]models.ProfileResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.ProfileResponse{}
	for _, p := range f.profiles {
		out = append(out, p.ToResponse())
	}
	return out, nil
}

// --- groups ---

func (f *fakeStore) CreateGroup(_ context.Context, g *models.TravelGroup, tags []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g.ID == "" {
		g.ID = f.id()
	}
	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now
	cp := *g
	f.groups[g.ID] = &cp
	f.tags[g.ID] = tags
	f.members[g.ID] = map[string]*models.GroupMember{
		g.CreatorID: {
			ID:            f.id(),
			TravelGroupID: g.ID,
			ProfileID:     g.CreatorID,
			Status:        models.StatusAccepted,
			JoinedAt:      now,
			UpdatedAt:     now,
		},
	}
	return nil
}

func (f *fakeStore) GetGroup(_ context.Context, id string) (*models.TravelGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeStore) GetGroupDetails(ctx context.Context, id string) (*models.GroupWithDetails, error) {
	g, err := f.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	details := &models.GroupWithDetails{TravelGroup: *g, Tags: f.tags[id]}
	if creator, ok := f.profiles[g.CreatorID]; ok {
		details.Creator = creator.ToResponse()
	}
	details.AcceptedCount = f.acceptedCountLocked(id)
	return details, nil
}

func (f *fakeStore) ListGroups(_ context.Context, filter models.GroupFilter) ([]models.GroupWithDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.GroupWithDetails{}
	for id, g := range f.groups {
		out = append(out, models.GroupWithDetails{
			TravelGroup:   *g,
			Tags:          f.tags[id],
			AcceptedCount: f.acceptedCountLocked(id),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) UpdateGroup(_ context.Context, g *models.TravelGroup, tags []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.groups[g.ID]; !ok {
		return apperrors.ErrNotFound
	}
	g.UpdatedAt = time.Now()
	cp := *g
	f.groups[g.ID] = &cp
	if tags != nil {
		f.tags[g.ID] = tags
	}
	return nil
}

func (f *fakeStore) DeleteGroup(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.groups[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.groups, id)
	delete(f.tags, id)
	delete(f.members, id)
	for msgID, msg := range f.messages {
		if msg.TravelGroupID == id {
			delete(f.messages, msgID)
		}
	}
	return nil
}

// --- memberships ---

func (f *fakeStore) acceptedCountLocked(groupID string) int {
	count := 0
	for _, m := range f.members[groupID] {
		if m.Status == models.StatusAccepted {
			count++
		}
	}
	return count
}

func (f *fakeStore) AcceptedCount(_ context.Context, groupID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acceptedCountLocked(groupID), nil
}

func (f *fakeStore) GetMembership(_ context.Context, groupID, profileID string) (*models.GroupMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[groupID][profileID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeStore) CreateMembership(_ context.Context, m *models.GroupMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.members[m.TravelGroupID][m.ProfileID]; exists {
		return apperrors.ErrRequestPending
	}
	if m.ID == "" {
		m.ID = f.id()
	}
	now := time.Now()
	m.JoinedAt = now
	m.UpdatedAt = now
	if f.members[m.TravelGroupID] == nil {
		f.members[m.TravelGroupID] = make(map[string]*models.GroupMember)
	}
	cp := *m
	f.members[m.TravelGroupID][m.ProfileID] = &cp
	return nil
}

func (f *fakeStore) SetStatus(_ context.Context, groupID, profileID string, status models.MemberStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[groupID][profileID]
	if !ok {
		return apperrors.ErrNotFound
	}
	m.Status = status
	m.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) AcceptIfCapacity(_ context.Context, groupID, profileID string, maxParticipants int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[groupID][profileID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if m.Status == models.StatusAccepted {
		return nil
	}
	if m.Status != models.StatusPending {
		return apperrors.ErrNotFound
	}
	if f.acceptedCountLocked(groupID) >= maxParticipants {
		return apperrors.ErrGroupFull
	}
	m.Status = models.StatusAccepted
	m.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) DeleteMembership(_ context.Context, groupID, profileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.members[groupID][profileID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.members[groupID], profileID)
	return nil
}

func (f *fakeStore) ListMembers(_ context.Context, groupID string) ([]models.MemberWithProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.MemberWithProfile{}
	for _, m := range f.members[groupID] {
		entry := models.MemberWithProfile{ID: m.ID, Status: m.Status, JoinedAt: m.JoinedAt}
		if p, ok := f.profiles[m.ProfileID]; ok {
			entry.Profile = p.ToResponse()
		} else {
			entry.Profile = models.ProfileResponse{ID: m.ProfileID}
		}
		out = append(out, entry)
	}
	return out, nil
}

func (f *fakeStore) ListMembershipsByProfile(_ context.Context, profileID string) ([]models.GroupMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.GroupMember{}
	for _, group := range f.members {
		if m, ok := group[profileID]; ok {
			out = append(out, *m)
		}
	}
	return out, nil
}

// --- messages ---

func (f *fakeStore) CreateMessage(_ context.Context, msg *models.GroupMessage) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg.ID == "" {
		msg.ID = f.id()
	}
	if _, exists := f.messages[msg.ID]; exists {
		// ID collision: keep the stored row, report nothing written.
		return false, nil
	}
	msg.CreatedAt = time.Now()
	cp := *msg
	f.messages[msg.ID] = &cp
	return true, nil
}

func (f *fakeStore) GetMessage(_ context.Context, id string) (*models.GroupMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeStore) ListMessages(_ context.Context, groupID string, limit, offset int) ([]models.MessageWithSender, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var msgs []*models.GroupMessage
	for _, m := range f.messages {
		if m.TravelGroupID == groupID {
			msgs = append(msgs, m)
		}
	}
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})

	out := []models.MessageWithSender{}
	for _, m := range msgs {
		entry := models.MessageWithSender{
			ID:            m.ID,
			TravelGroupID: m.TravelGroupID,
			Content:       m.Content,
			CreatedAt:     m.CreatedAt,
		}
		if p, ok := f.profiles[m.SenderID]; ok {
			entry.Sender = p.ToResponse()
		} else {
			entry.Sender = models.ProfileResponse{ID: m.SenderID}
		}
		out = append(out, entry)
	}
	return out, nil
}

func (f *fakeStore) DeleteMessage(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.messages[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.messages, id)
	return nil
}
