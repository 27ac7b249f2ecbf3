package directory

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	items map[uuid.UUID]*Professional
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Professional)}
}

func (m *mockRepo) Create(ctx context.Context, p *Professional) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.items[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Professional, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (m *mockRepo) ListActive(ctx context.Context) ([]*Professional, error) {
	var out []*Professional
	for _, p := range m.items {
		if p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]*Professional, int, error) {
	var out []*Professional
	for _, p := range m.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (m *mockRepo) Update(ctx context.Context, p *Professional) error {
	if _, ok := m.items[p.ID]; !ok {
		return errors.New("not found")
	}
	m.items[p.ID] = p
	return nil
}

func (m *mockRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	p, ok := m.items[id]
	if !ok {
		return errors.New("not found")
	}
	p.Active = false
	return nil
}

func TestCreate(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &Professional{Name: "Dr. Alves", Color: "#3366FF"}

	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Active {
		t.Error("new professionals should be active")
	}
	if p.ID == uuid.Nil {
		t.Error("expected id assigned")
	}
}

func TestCreate_Validates(t *testing.T) {
	svc := NewService(newMockRepo())

	if err := svc.Create(context.Background(), &Professional{Color: "#3366FF"}); err == nil {
		t.Error("expected error for missing name")
	}
	if err := svc.Create(context.Background(), &Professional{Name: "Dr. Alves", Color: "blue"}); err == nil {
		t.Error("expected error for malformed color")
	}
	if err := svc.Create(context.Background(), &Professional{Name: "Dr. Alves"}); err != nil {
		t.Errorf("color should be optional: %v", err)
	}
}

func TestListActive_ExcludesDeactivated(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	a := &Professional{Name: "Dr. Alves", Color: "#3366FF"}
	b := &Professional{Name: "Dr. Braga", Color: "#FF6633"}
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	if err := svc.Create(context.Background(), b); err != nil {
		t.Fatal(err)
	}
	if err := svc.Deactivate(context.Background(), b.ID); err != nil {
		t.Fatal(err)
	}

	active, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 1 || active[0].ID != a.ID {
		t.Errorf("expected only the active professional, got %d", len(active))
	}
}
