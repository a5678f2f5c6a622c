package types

import (
	"log/slog"

	"github.com/google/uuid"
)

type (
	GitHubOwner string
	GitHubRepo  string
	GitHubToken string
	TagName     string
	CommitID    string
	SigningKey  string
	RunID       string
)

func NewRunID() RunID {
	return RunID(uuid.NewString())
}

func (x GitHubToken) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x GitHubToken) String() string {
	return "***********"
}

func (x SigningKey) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x SigningKey) String() string {
	return "***********"
}
