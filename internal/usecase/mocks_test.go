package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/isha-gohel181/rewear/internal/core/domain"
	"github.com/isha-gohel181/rewear/internal/core/port"
	"github.com/isha-gohel181/rewear/internal/repository"
)

type userRepoMock struct {
	users       map[string]domain.User // keyed by ID
	created     []domain.User
	updated     []domain.User
	roleUpdates map[string]domain.Role
	deactivated []string
	countResult int
}

func newUserRepoMock(users ...domain.User) *userRepoMock {
	m := &userRepoMock{users: map[string]domain.User{}, roleUpdates: map[string]domain.Role{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *userRepoMock) Create(_ context.Context, user domain.User) error {
	m.created = append(m.created, user)
	m.users[user.ID] = user
	return nil
}

func (m *userRepoMock) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := u
	return &copy, nil
}

func (m *userRepoMock) GetByExternalID(_ context.Context, externalID string) (*domain.User, error) {
	for _, u := range m.users {
		if u.ExternalID == externalID {
			copy := u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *userRepoMock) UpdateProfile(_ context.Context, user domain.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	m.updated = append(m.updated, user)
	m.users[user.ID] = user
	return nil
}

func (m *userRepoMock) UpdateRole(_ context.Context, id string, role domain.Role) error {
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Role = role
	m.users[id] = u
	m.roleUpdates[id] = role
	return nil
}

func (m *userRepoMock) Deactivate(_ context.Context, id string) error {
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsActive = false
	m.users[id] = u
	m.deactivated = append(m.deactivated, id)
	return nil
}

func (m *userRepoMock) List(context.Context, port.UserFilter) ([]domain.User, error) {
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *userRepoMock) Count(context.Context, port.UserFilter) (int, error) {
	if m.countResult > 0 {
		return m.countResult, nil
	}
	return len(m.users), nil
}

type itemRepoMock struct {
	items       map[string]domain.Item
	created     []domain.Item
	updated     []domain.Item
	deactivated []string
	moderated   []string
	listResult  []domain.Item
	listFilter  *port.ItemFilter
	countResult int
	counts      map[domain.ItemStatus]int
}

func newItemRepoMock(items ...domain.Item) *itemRepoMock {
	m := &itemRepoMock{items: map[string]domain.Item{}}
	for _, it := range items {
		m.items[it.ID] = it
	}
	return m
}

func (m *itemRepoMock) Create(_ context.Context, item domain.Item) error {
	m.created = append(m.created, item)
	m.items[item.ID] = item
	return nil
}

func (m *itemRepoMock) GetByID(_ context.Context, id string) (*domain.Item, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := it
	return &copy, nil
}

func (m *itemRepoMock) Update(_ context.Context, item domain.Item) error {
	if _, ok := m.items[item.ID]; !ok {
		return repository.ErrNotFound
	}
	m.updated = append(m.updated, item)
	m.items[item.ID] = item
	return nil
}

func (m *itemRepoMock) Moderate(_ context.Context, id string, status domain.ItemStatus, notes *string) (*domain.Item, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	it.Status = status
	it.ModerationNotes = notes
	it.UpdatedAt = time.Now().UTC()
	m.items[id] = it
	m.moderated = append(m.moderated, id)
	copy := it
	return &copy, nil
}

func (m *itemRepoMock) Deactivate(_ context.Context, id string) error {
	it, ok := m.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	it.IsActive = false
	it.Status = domain.ItemStatusInactive
	m.items[id] = it
	m.deactivated = append(m.deactivated, id)
	return nil
}

func (m *itemRepoMock) List(_ context.Context, filter port.ItemFilter) ([]domain.Item, error) {
	m.listFilter = &filter
	return m.listResult, nil
}

func (m *itemRepoMock) Count(context.Context, port.ItemFilter) (int, error) {
	return m.countResult, nil
}

func (m *itemRepoMock) CountByStatus(context.Context) (map[domain.ItemStatus]int, error) {
	return m.counts, nil
}

type swapRepoMock struct {
	swaps        map[string]domain.Swap
	created      []domain.Swap
	rejectCalled []string
	settleCalled []string
	settleErr    error
	appended     map[string][]domain.SwapMessage
	listResult   []domain.Swap
	listFilter   *port.SwapFilter
	countResult  int
	counts       map[domain.SwapStatus]int
}

func newSwapRepoMock(swaps ...domain.Swap) *swapRepoMock {
	m := &swapRepoMock{swaps: map[string]domain.Swap{}, appended: map[string][]domain.SwapMessage{}}
	for _, sw := range swaps {
		m.swaps[sw.ID] = sw
	}
	return m
}

func (m *swapRepoMock) Create(_ context.Context, swap domain.Swap) error {
	m.created = append(m.created, swap)
	m.swaps[swap.ID] = swap
	return nil
}

func (m *swapRepoMock) GetByID(_ context.Context, id string) (*domain.Swap, error) {
	sw, ok := m.swaps[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := sw
	return &copy, nil
}

func (m *swapRepoMock) List(_ context.Context, filter port.SwapFilter) ([]domain.Swap, error) {
	m.listFilter = &filter
	return m.listResult, nil
}

func (m *swapRepoMock) Count(context.Context, port.SwapFilter) (int, error) {
	return m.countResult, nil
}

func (m *swapRepoMock) Reject(_ context.Context, id string) (*domain.Swap, error) {
	sw, ok := m.swaps[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if sw.Status != domain.SwapStatusPending {
		return nil, repository.ErrSwapNotPending
	}
	sw.Status = domain.SwapStatusRejected
	sw.UpdatedAt = time.Now().UTC()
	m.swaps[id] = sw
	m.rejectCalled = append(m.rejectCalled, id)
	copy := sw
	return &copy, nil
}

func (m *swapRepoMock) Settle(_ context.Context, id string) (*domain.Swap, error) {
	sw, ok := m.swaps[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if sw.Status != domain.SwapStatusPending {
		return nil, repository.ErrSwapNotPending
	}
	m.settleCalled = append(m.settleCalled, id)
	if m.settleErr != nil {
		// Settlement-time revalidation failure leaves the swap rejected.
		sw.Status = domain.SwapStatusRejected
		sw.UpdatedAt = time.Now().UTC()
		m.swaps[id] = sw
		copy := sw
		return &copy, m.settleErr
	}
	sw.Status = domain.SwapStatusCompleted
	sw.UpdatedAt = time.Now().UTC()
	m.swaps[id] = sw
	copy := sw
	return &copy, nil
}

func (m *swapRepoMock) AppendMessage(_ context.Context, id string, msg domain.SwapMessage) (*domain.Swap, error) {
	sw, ok := m.swaps[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	sw.Messages = append(sw.Messages, msg)
	m.swaps[id] = sw
	m.appended[id] = append(m.appended[id], msg)
	copy := sw
	return &copy, nil
}

func (m *swapRepoMock) CountByStatus(context.Context) (map[domain.SwapStatus]int, error) {
	return m.counts, nil
}

type publisherMock struct {
	requested   []domain.SwapRequestedEvent
	resolved    []domain.SwapResolvedEvent
	messages    []domain.SwapMessageAddedEvent
	moderations []domain.ItemModeratedEvent
	provisioned []domain.UserProvisionedEvent
	err         error
}

func (m *publisherMock) PublishSwapRequested(_ context.Context, event domain.SwapRequestedEvent) error {
	if m.err != nil {
		return m.err
	}
	m.requested = append(m.requested, event)
	return nil
}

func (m *publisherMock) PublishSwapResolved(_ context.Context, event domain.SwapResolvedEvent) error {
	if m.err != nil {
		return m.err
	}
	m.resolved = append(m.resolved, event)
	return nil
}

func (m *publisherMock) PublishSwapMessageAdded(_ context.Context, event domain.SwapMessageAddedEvent) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, event)
	return nil
}

func (m *publisherMock) PublishItemModerated(_ context.Context, event domain.ItemModeratedEvent) error {
	if m.err != nil {
		return m.err
	}
	m.moderations = append(m.moderations, event)
	return nil
}

func (m *publisherMock) PublishUserProvisioned(_ context.Context, event domain.UserProvisionedEvent) error {
	if m.err != nil {
		return m.err
	}
	m.provisioned = append(m.provisioned, event)
	return nil
}

type statsCacheMock struct {
	cached  *domain.DashboardStats
	getErr  error
	setErr  error
	set     []domain.DashboardStats
	setTTLs []time.Duration
}

func (m *statsCacheMock) Get(context.Context) (*domain.DashboardStats, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	if m.cached == nil {
		return nil, false, nil
	}
	copy := *m.cached
	return &copy, true, nil
}

func (m *statsCacheMock) Set(_ context.Context, stats domain.DashboardStats, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set = append(m.set, stats)
	m.setTTLs = append(m.setTTLs, ttl)
	return nil
}

var errBoom = errors.New("boom")
