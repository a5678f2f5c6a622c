package interfaces

import (
	"context"

	"github.com/noah-nuebling/appcaster/pkg/domain/model"
)

type UseCase interface {
	GenerateAppcast(ctx context.Context, input *model.GenerateAppcastInput) error
	InspectAppcast(ctx context.Context, path string) ([]*model.AppcastEntry, error)
}
