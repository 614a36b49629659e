package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/mdplan/internal/codec"
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/markdown"
)

type projectConfigRepo struct {
	store DocumentStore
}

func NewProjectConfigRepo(store DocumentStore) ProjectConfigRepo {
	return &projectConfigRepo{store: store}
}

func (r *projectConfigRepo) Get(ctx context.Context) (domain.ProjectConfig, error) {
	lines, err := r.store.Read(ctx)
	if err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("reading project config: %w", err)
	}
	return codec.ParseProjectConfig(lines), nil
}

// Save rewrites the Configurations section, placing it first when it is new.
func (r *projectConfigRepo) Save(ctx context.Context, cfg domain.ProjectConfig) error {
	err := r.store.Update(ctx, func(lines []string) ([]string, error) {
		block := codec.FormatProjectConfig(cfg)
		if markdown.Locate(lines, codec.ConfigSection).Found() || markdown.JoinLines(lines) == "" {
			return markdown.Replace(lines, codec.ConfigSection, block), nil
		}
		return append(block, lines...), nil
	})
	if err != nil {
		return fmt.Errorf("saving project config: %w", err)
	}
	return nil
}
