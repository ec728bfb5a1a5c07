//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
)

func InitApp(ctx context.Context, args *Args) (*App, func(), error) {
	panic(wire.Build(Wires))
}
