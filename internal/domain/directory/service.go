package directory

import (
	"context"
	"errors"
	"regexp"

	"github.com/google/uuid"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(p *Professional) error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.Color != "" && !colorPattern.MatchString(p.Color) {
		return errors.New("color must be a #RRGGBB hex value")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, p *Professional) error {
	if err := s.validate(p); err != nil {
		return err
	}
	p.Active = true
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Professional, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListActive(ctx context.Context) ([]*Professional, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Professional, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Update(ctx context.Context, p *Professional) error {
	if err := s.validate(p); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}
