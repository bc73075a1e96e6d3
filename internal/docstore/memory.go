package docstore

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	nutrition "github.com/NuSa-Nutrition-Scan/API-V1/internal/nutrition/domain"
	profile "github.com/NuSa-Nutrition-Scan/API-V1/internal/profile/domain"
)

// MemoryStore is an in-process Store for local development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	now     Clock
	seq     int
	nextML  int
	uploads []nutrition.UploadEvent
	details map[string]profile.UserDetail
	foods   map[string]nutrition.Food
	recs    map[string]nutrition.Recommendation
}

// NewMemoryStore creates an empty store. A nil clock uses time.Now.
func NewMemoryStore(now Clock) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		now:     now,
		nextML:  1,
		details: make(map[string]profile.UserDetail),
		foods:   make(map[string]nutrition.Food),
		recs:    make(map[string]nutrition.Recommendation),
	}
}

func (m *MemoryStore) SaveUploadEvent(_ context.Context, userID, imgURL string) (nutrition.UploadEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	ev := nutrition.NewUploadEvent(strconv.Itoa(m.seq), userID, imgURL, m.now().In(nutrition.Zone))
	m.uploads = append(m.uploads, ev)
	return ev, nil
}

func (m *MemoryStore) CountUploadsToday(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start, end := nutrition.DayWindow(m.now())
	n := 0
	for _, ev := range m.uploads {
		if ev.UserID != userID {
			continue
		}
		if !ev.CreatedAt.Before(start) && ev.CreatedAt.Before(end) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) ListUploads(_ context.Context, userID string, page int) ([]nutrition.UploadEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var mine []nutrition.UploadEvent
	for _, ev := range m.uploads {
		if ev.UserID == userID {
			mine = append(mine, ev)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].CreatedAt.After(mine[j].CreatedAt)
	})

	offset := pageOffset(page)
	if offset >= len(mine) {
		return []nutrition.UploadEvent{}, nil
	}
	end := offset + nutrition.HistoryPageSize
	if end > len(mine) {
		end = len(mine)
	}
	return mine[offset:end], nil
}

func (m *MemoryStore) UserExists(_ context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.details[userID]
	return ok, nil
}

func (m *MemoryStore) InitUserDetail(_ context.Context, userID string) (*profile.UserDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := profile.NewUserDetail(userID, profile.FormatMLID(m.nextML))
	m.nextML++
	m.details[userID] = *d
	return d, nil
}

// SetMLCounter sets the ml_id the next InitUserDetail assigns.
func (m *MemoryStore) SetMLCounter(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextML = n
}

func (m *MemoryStore) GetUserDetail(_ context.Context, userID string) (*profile.UserDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.details[userID]
	if !ok {
		return nil, ErrUserDetailNotFound
	}
	return &d, nil
}

func (m *MemoryStore) SaveUserDetail(_ context.Context, userID string, update profile.ProfileUpdate) (*profile.UserDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.details[userID]
	if !ok {
		return nil, ErrNotUpdated
	}
	update.Apply(&d)
	m.details[userID] = d
	return &d, nil
}

func (m *MemoryStore) GetFoodByName(_ context.Context, name string) (*nutrition.Food, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.foods[nutrition.NormalizeFoodName(name)]
	if !ok {
		return nil, ErrFoodNotFound
	}
	return &f, nil
}

func (m *MemoryStore) PutFood(_ context.Context, food *nutrition.Food) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.foods[food.Name] = *food
	return nil
}

func (m *MemoryStore) InitRecommendation(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.recs[userID] = nutrition.Recommendation{
		UserID: userID,
		Status: nutrition.RecommendationGenerating,
		Top15:  []nutrition.FoodRef{},
		Recom:  []map[string]string{},
	}
	return nil
}

// PutRecommendation replaces the recommendation state, as the ML pipeline does.
func (m *MemoryStore) PutRecommendation(rec nutrition.Recommendation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[rec.UserID] = rec
}

func (m *MemoryStore) GetRecommendation(_ context.Context, userID string) (*nutrition.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.recs[userID]
	if !ok {
		return nil, ErrRecommendationNotFound
	}
	return &rec, nil
}
