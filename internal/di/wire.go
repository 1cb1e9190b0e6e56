//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/memberbase/member-registry/internal/app"
)

func InitializeApp() (*app.App, error) {
	panic(wire.Build(
		ConfigSet,
		ObservabilitySet,
		InfraSet,
		RepositorySet,
		ServiceSet,
		HTTPSet,
		AppSet,
	))
}
